package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/francisquitu91/retiro-escolar/internal/models"
)

// ErrStatusNotUpdated: el retiro quedó registrado pero no se pudo marcar al
// alumno como Retirado. El log manda; el estado es solo presentación.
var ErrStatusNotUpdated = fmt.Errorf("pickup logged but student status not updated")

// RegisterPickup inserta la fila inmutable del retiro y después marca al
// alumno como Retirado. Son dos escrituras secuenciales, sin transacción:
// si la segunda falla, el retiro ya registrado se conserva y se devuelve
// ErrStatusNotUpdated junto con la fila creada.
func RegisterPickup(ctx context.Context, database *sql.DB, studentID, authorizedPersonID, recordedBy string) (*models.PickupLog, error) {
	log := models.PickupLog{
		StudentID:          studentID,
		AuthorizedPersonID: authorizedPersonID,
		PickupTimestamp:    time.Now(),
		RecordedByUser:     recordedBy,
	}
	row := database.QueryRowContext(ctx, `
		INSERT INTO pickup_logs (student_id, authorized_person_id, pickup_timestamp, recorded_by_user)
		VALUES ($1, $2, $3, $4)
		RETURNING id, pickup_timestamp
	`, log.StudentID, log.AuthorizedPersonID, log.PickupTimestamp, log.RecordedByUser)
	if err := row.Scan(&log.ID, &log.PickupTimestamp); err != nil {
		return nil, err
	}

	if err := SetStudentStatus(ctx, database, studentID, models.Retirado); err != nil {
		return &log, fmt.Errorf("%w: %v", ErrStatusNotUpdated, err)
	}
	return &log, nil
}

func ListPickupLogs(ctx context.Context, database *sql.DB) ([]models.PickupLog, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, student_id, authorized_person_id, pickup_timestamp, recorded_by_user
		FROM pickup_logs
		ORDER BY pickup_timestamp DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.PickupLog{}
	for rows.Next() {
		var l models.PickupLog
		if err := rows.Scan(&l.ID, &l.StudentID, &l.AuthorizedPersonID, &l.PickupTimestamp, &l.RecordedByUser); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func ListPickupsByStudent(ctx context.Context, database *sql.DB, studentID string) ([]models.PickupLog, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, student_id, authorized_person_id, pickup_timestamp, recorded_by_user
		FROM pickup_logs
		WHERE student_id = $1
		ORDER BY pickup_timestamp DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.PickupLog{}
	for rows.Next() {
		var l models.PickupLog
		if err := rows.Scan(&l.ID, &l.StudentID, &l.AuthorizedPersonID, &l.PickupTimestamp, &l.RecordedByUser); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListPickupDetails une el log con alumno, curso y persona autorizada.
// LEFT JOIN porque las referencias son blandas y pueden colgar.
func ListPickupDetails(ctx context.Context, database *sql.DB) ([]models.PickupDetail, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT l.id, l.student_id, l.authorized_person_id, l.pickup_timestamp, l.recorded_by_user,
		       COALESCE(s.full_name, ''), COALESCE(c.name, ''),
		       COALESCE(p.full_name, ''), COALESCE(p.relationship, '')
		FROM pickup_logs l
		LEFT JOIN students s ON s.id = l.student_id
		LEFT JOIN courses c ON c.id = s.course_id
		LEFT JOIN authorized_persons p ON p.id = l.authorized_person_id
		ORDER BY l.pickup_timestamp DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.PickupDetail{}
	for rows.Next() {
		var d models.PickupDetail
		if err := rows.Scan(&d.ID, &d.StudentID, &d.AuthorizedPersonID, &d.PickupTimestamp, &d.RecordedByUser,
			&d.StudentName, &d.CourseName, &d.PersonName, &d.Relationship); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
