//go:build testutil
// +build testutil

package db

import (
	"context"
	"testing"

	"github.com/francisquitu91/retiro-escolar/internal/models"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	if err := Seed(ctx, testDB, "admin@colegio.cl", "$2a$10$hash"); err != nil {
		t.Fatal(err)
	}
	admin, err := GetUserByEmail(ctx, testDB, "admin@colegio.cl")
	if err != nil {
		t.Fatal(err)
	}
	if admin == nil || admin.Role != models.Admin {
		t.Fatalf("admin inicial ausente o con otro rol: %+v", admin)
	}

	before, err := ListUsers(ctx, testDB)
	if err != nil {
		t.Fatal(err)
	}
	if err := Seed(ctx, testDB, "admin@colegio.cl", "$2a$10$hash"); err != nil {
		t.Fatal(err)
	}
	after, err := ListUsers(ctx, testDB)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != len(before) {
		t.Fatalf("el segundo seed creó usuarios: %d -> %d", len(before), len(after))
	}
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	u, err := CreateUser(ctx, testDB, "profe@colegio.cl", "$2a$10$hash", "Andrés Pino", models.Teacher, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !u.IsActive {
		t.Fatal("usuario nuevo debe quedar activo")
	}

	// el correo se busca en minúsculas
	got, err := GetUserByEmail(ctx, testDB, "PROFE@colegio.cl")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatal("búsqueda por correo en mayúsculas falló")
	}

	if err := DeactivateUser(ctx, testDB, u.ID); err != nil {
		t.Fatal(err)
	}
	got, err = GetUserByID(ctx, testDB, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsActive {
		t.Fatal("usuario sigue activo tras desactivarlo")
	}
}

func TestCountPickupsRecordedBy(t *testing.T) {
	ctx := context.Background()
	student, person := seedPickupFixture(t, "77.777.777-7")
	if _, err := RegisterPickup(ctx, testDB, student.ID, person.ID, "Inspectora Vera"); err != nil {
		t.Fatal(err)
	}

	n, err := CountPickupsRecordedBy(ctx, testDB, "Inspectora Vera")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("esperaba 1 retiro registrado, llegaron %d", n)
	}
	n, err = CountPickupsRecordedBy(ctx, testDB, "Nadie")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("esperaba 0, llegaron %d", n)
	}
}
