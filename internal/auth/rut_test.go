package auth

import "testing"

func TestNormalizeRUT(t *testing.T) {
	cases := []struct{ in, want string }{
		{"12.345.678-9", "123456789"},
		{"12345678-K", "12345678k"},
		{" 9.876.543-2 ", "98765432"},
		{"123456789", "123456789"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeRUT(tc.in); got != tc.want {
			t.Errorf("NormalizeRUT(%q) = %q, esperaba %q", tc.in, got, tc.want)
		}
	}
}

func TestParentPasswordFromRUT(t *testing.T) {
	cases := []struct{ in, want string }{
		{"12.345.678-9", "5678"},
		{"12345678-K", "5678"},
		{"1.234.567-8", "4567"},
		// pasaportes o documentos cortos: lo que haya antes del verificador
		{"123-4", "123"},
		{"1-9", "1"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ParentPasswordFromRUT(tc.in); got != tc.want {
			t.Errorf("ParentPasswordFromRUT(%q) = %q, esperaba %q", tc.in, got, tc.want)
		}
	}
}

func TestEqualConstantTime(t *testing.T) {
	if !EqualConstantTime("5678", "5678") {
		t.Fatal("claves iguales rechazadas")
	}
	if EqualConstantTime("5678", "5679") || EqualConstantTime("5678", "567") {
		t.Fatal("claves distintas aceptadas")
	}
}
