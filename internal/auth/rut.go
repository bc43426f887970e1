package auth

import "strings"

// NormalizeRUT deja el RUT sin puntos, guiones ni espacios y en minúsculas
// (el dígito verificador puede ser "k").
func NormalizeRUT(rut string) string {
	r := strings.NewReplacer(".", "", "-", "", " ", "")
	return strings.ToLower(strings.TrimSpace(r.Replace(rut)))
}

// ParentPasswordFromRUT — la clave del apoderado son los últimos 4 dígitos
// del RUT antes del dígito verificador. Con un RUT demasiado corto se usan
// los dígitos disponibles.
func ParentPasswordFromRUT(rut string) string {
	clean := NormalizeRUT(rut)
	if len(clean) >= 5 {
		return clean[len(clean)-5 : len(clean)-1]
	}
	if len(clean) > 0 {
		return clean[:len(clean)-1]
	}
	return ""
}
