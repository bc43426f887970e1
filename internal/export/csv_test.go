package export

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"
	"time"

	"github.com/francisquitu91/retiro-escolar/internal/models"
)

func sampleDetails(t *testing.T) []models.PickupDetail {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, "2025-03-03T14:05:00Z")
	if err != nil {
		t.Fatal(err)
	}
	return []models.PickupDetail{
		{
			PickupLog: models.PickupLog{
				ID:              1,
				StudentID:       "s-1",
				PickupTimestamp: ts,
				RecordedByUser:  "Carla Muñoz",
			},
			StudentName:  "Valentina Rojas",
			CourseName:   "1° BÁSICO A",
			PersonName:   "Pedro Rojas",
			Relationship: "Padre",
		},
	}
}

func TestPickupsCSV(t *testing.T) {
	loc, err := time.LoadLocation("America/Santiago")
	if err != nil {
		t.Fatal(err)
	}
	out, err := PickupsCSV(sampleDetails(t), loc)
	if err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("esperaba cabecera + 1 fila, llegaron %d filas", len(rows))
	}
	wantHeader := []string{"Fecha", "Estudiante", "Curso", "Persona Autorizada", "Relación", "Registrado Por"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Fatalf("cabecera %v, esperaba %v", rows[0], wantHeader)
	}
	// 14:05 UTC en marzo es 11:05 en Santiago
	want := []string{"03/03/2025 11:05", "Valentina Rojas", "1° BÁSICO A", "Pedro Rojas", "Padre", "Carla Muñoz"}
	if !reflect.DeepEqual(rows[1], want) {
		t.Fatalf("fila %v, esperaba %v", rows[1], want)
	}
}

func TestPickupsCSVEmpty(t *testing.T) {
	out, err := PickupsCSV(nil, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("sin retiros debe salir solo la cabecera, llegaron %d filas", len(rows))
	}
}

func TestCSVFilename(t *testing.T) {
	now := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	if got := CSVFilename(now); got != "retiros_2025-03-03.csv" {
		t.Fatalf("CSVFilename = %q", got)
	}
}

func TestPickupsWorkbook(t *testing.T) {
	out, err := PickupsWorkbook(sampleDetails(t), time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 {
		t.Fatal("planilla vacía")
	}
	// los xlsx son zips
	if !bytes.HasPrefix(out, []byte("PK")) {
		t.Fatalf("la planilla no parece un xlsx: % x", out[:4])
	}
}
