//go:build testutil
// +build testutil

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/francisquitu91/retiro-escolar/internal/models"
	"github.com/francisquitu91/retiro-escolar/internal/testutil/testdb"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	ctx := context.Background()
	handle, err := testdb.Start(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "testdb:", err)
		os.Exit(1)
	}
	testDB = handle.DB
	code := m.Run()
	handle.Close()
	os.Exit(code)
}

// seedPickupFixture crea curso, alumno y persona autorizada con RUT propio
// para que cada test trabaje con filas suyas.
func seedPickupFixture(t *testing.T, rut string) (*models.Student, *models.AuthorizedPerson) {
	t.Helper()
	ctx := context.Background()

	course, err := CreateCourse(ctx, testDB, "Curso "+rut)
	if err != nil {
		t.Fatal(err)
	}
	student, err := CreateStudent(ctx, testDB, "Alumno "+rut, rut, course.ID)
	if err != nil {
		t.Fatal(err)
	}
	person, err := CreateAuthorizedPerson(ctx, testDB, "Apoderado "+rut, "Madre", student.ID)
	if err != nil {
		t.Fatal(err)
	}
	return student, person
}

func TestRegisterPickup(t *testing.T) {
	ctx := context.Background()
	student, person := seedPickupFixture(t, "11.111.111-1")

	log, err := RegisterPickup(ctx, testDB, student.ID, person.ID, "Carla Muñoz")
	if err != nil {
		t.Fatal(err)
	}
	if log.ID == 0 || log.PickupTimestamp.IsZero() {
		t.Fatalf("fila del retiro incompleta: %+v", log)
	}

	got, err := GetStudentByID(ctx, testDB, student.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.Retirado {
		t.Fatalf("estado %q, esperaba %q", got.Status, models.Retirado)
	}

	rows, err := ListPickupsByStudent(ctx, testDB, student.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("esperaba 1 retiro en el log, llegaron %d", len(rows))
	}
}

func TestRegisterPickupTwice(t *testing.T) {
	ctx := context.Background()
	student, person := seedPickupFixture(t, "22.222.222-2")

	for i := 0; i < 2; i++ {
		if _, err := RegisterPickup(ctx, testDB, student.ID, person.ID, "Carla Muñoz"); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := ListPickupsByStudent(ctx, testDB, student.ID)
	if err != nil {
		t.Fatal(err)
	}
	// el log es inmutable: dos registros, aunque el alumno ya estaba Retirado
	if len(rows) != 2 {
		t.Fatalf("esperaba 2 retiros en el log, llegaron %d", len(rows))
	}
	got, err := GetStudentByID(ctx, testDB, student.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.Retirado {
		t.Fatalf("estado %q tras el segundo retiro", got.Status)
	}
}

func TestRegisterPickupStatusFailureKeepsLog(t *testing.T) {
	ctx := context.Background()
	_, person := seedPickupFixture(t, "33.333.333-3")

	// alumno inexistente: el insert al log pasa (referencia blanda) y el
	// update de estado no toca ninguna fila
	log, err := RegisterPickup(ctx, testDB, uuid.NewString(), person.ID, "Carla Muñoz")
	if !errors.Is(err, ErrStatusNotUpdated) {
		t.Fatalf("esperaba ErrStatusNotUpdated, llegó %v", err)
	}
	if log == nil || log.ID == 0 {
		t.Fatal("el retiro registrado se perdió")
	}
}

func TestResetAllStatuses(t *testing.T) {
	ctx := context.Background()
	student, person := seedPickupFixture(t, "44.444.444-4")
	if _, err := RegisterPickup(ctx, testDB, student.ID, person.ID, "Carla Muñoz"); err != nil {
		t.Fatal(err)
	}

	if _, err := ResetAllStatuses(ctx, testDB); err != nil {
		t.Fatal(err)
	}
	got, err := GetStudentByID(ctx, testDB, student.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.Presente {
		t.Fatalf("estado %q tras el reinicio, esperaba %q", got.Status, models.Presente)
	}

	// el log no se toca
	rows, err := ListPickupsByStudent(ctx, testDB, student.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("el reinicio alteró el log: %d filas", len(rows))
	}
}

func TestGetStudentByRUTNormalizes(t *testing.T) {
	ctx := context.Background()
	student, _ := seedPickupFixture(t, "55.555.555-5")

	for _, q := range []string{"55.555.555-5", "555555555", "55555555-5", " 55.555.555-5 "} {
		got, err := GetStudentByRUT(ctx, testDB, q)
		if err != nil {
			t.Fatal(err)
		}
		if got == nil || got.ID != student.ID {
			t.Fatalf("GetStudentByRUT(%q) no encontró al alumno", q)
		}
	}

	got, err := GetStudentByRUT(ctx, testDB, "99.999.999-9")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("RUT inexistente devolvió %+v", got)
	}
}

func TestListPickupDetailsDanglingRefs(t *testing.T) {
	ctx := context.Background()
	student, person := seedPickupFixture(t, "66.666.666-6")
	log, err := RegisterPickup(ctx, testDB, student.ID, person.ID, "Carla Muñoz")
	if err != nil {
		t.Fatal(err)
	}

	// borrar a la persona deja la referencia colgando; el reporte no se rompe
	if err := DeleteAuthorizedPerson(ctx, testDB, person.ID); err != nil {
		t.Fatal(err)
	}
	details, err := ListPickupDetails(ctx, testDB)
	if err != nil {
		t.Fatal(err)
	}
	var found *models.PickupDetail
	for i := range details {
		if details[i].ID == log.ID {
			found = &details[i]
			break
		}
	}
	if found == nil {
		t.Fatal("el retiro no aparece en el detalle")
	}
	if found.PersonName != "" {
		t.Fatalf("persona borrada debe salir vacía, llegó %q", found.PersonName)
	}
	if found.StudentName == "" || found.CourseName == "" {
		t.Fatalf("alumno y curso deben seguir resueltos: %+v", found)
	}
}
