package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/francisquitu91/retiro-escolar/internal/models"
)

var pickupHeader = []string{"Fecha", "Estudiante", "Curso", "Persona Autorizada", "Relación", "Registrado Por"}

// PickupsCSV arma el CSV de retiros, una fila por entrada del log.
func PickupsCSV(details []models.PickupDetail, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(pickupHeader); err != nil {
		return nil, err
	}
	for _, d := range details {
		row := []string{
			d.PickupTimestamp.In(loc).Format("02/01/2006 15:04"),
			d.StudentName,
			d.CourseName,
			d.PersonName,
			d.Relationship,
			d.RecordedByUser,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CSVFilename — nombre de descarga: retiros_<yyyy-MM-dd>.csv
func CSVFilename(now time.Time) string {
	return fmt.Sprintf("retiros_%s.csv", now.Format("2006-01-02"))
}
