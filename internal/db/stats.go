package db

import (
	"context"
	"database/sql"

	"github.com/francisquitu91/retiro-escolar/internal/models"
)

type PickupStats struct {
	TotalStudents   int64   `json:"total_students"`
	PickedUpNow     int64   `json:"picked_up"`
	Remaining       int64   `json:"remaining"`
	PickupsToday    int64   `json:"pickups_today"`
	PickupsAllTime  int64   `json:"pickups_all_time"`
	AveragePerDay   float64 `json:"average_per_day"`
}

type CourseStats struct {
	Course        models.Course `json:"course"`
	TotalStudents int64         `json:"total_students"`
	PickedUp      int64         `json:"picked_up"`
	Remaining     int64         `json:"remaining"`
}

type PersonStats struct {
	PersonID    string `json:"person_id"`
	PersonName  string `json:"person_name"`
	PickupCount int64  `json:"pickup_count"`
}

func GetPickupStats(ctx context.Context, database *sql.DB) (*PickupStats, error) {
	var st PickupStats
	err := database.QueryRowContext(ctx, `
		SELECT
			(SELECT count(*) FROM students),
			(SELECT count(*) FROM students WHERE status = 'Retirado'),
			(SELECT count(*) FROM pickup_logs WHERE pickup_timestamp >= date_trunc('day', now())),
			(SELECT count(*) FROM pickup_logs)
	`).Scan(&st.TotalStudents, &st.PickedUpNow, &st.PickupsToday, &st.PickupsAllTime)
	if err != nil {
		return nil, err
	}
	st.Remaining = st.TotalStudents - st.PickedUpNow

	// promedio sobre los días con al menos un retiro
	var days int64
	err = database.QueryRowContext(ctx,
		`SELECT count(DISTINCT date_trunc('day', pickup_timestamp)) FROM pickup_logs`).Scan(&days)
	if err != nil {
		return nil, err
	}
	if days > 0 {
		st.AveragePerDay = float64(st.PickupsAllTime) / float64(days)
	}
	return &st, nil
}

func GetCourseStats(ctx context.Context, database *sql.DB) ([]CourseStats, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT c.id, c.name,
		       count(s.id),
		       count(s.id) FILTER (WHERE s.status = 'Retirado')
		FROM courses c
		LEFT JOIN students s ON s.course_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []CourseStats{}
	for rows.Next() {
		var cs CourseStats
		if err := rows.Scan(&cs.Course.ID, &cs.Course.Name, &cs.TotalStudents, &cs.PickedUp); err != nil {
			return nil, err
		}
		cs.Remaining = cs.TotalStudents - cs.PickedUp
		out = append(out, cs)
	}
	return out, rows.Err()
}

func GetPersonStats(ctx context.Context, database *sql.DB) ([]PersonStats, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT l.authorized_person_id, COALESCE(p.full_name, ''), count(*)
		FROM pickup_logs l
		LEFT JOIN authorized_persons p ON p.id = l.authorized_person_id
		GROUP BY l.authorized_person_id, p.full_name
		ORDER BY count(*) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []PersonStats{}
	for rows.Next() {
		var ps PersonStats
		if err := rows.Scan(&ps.PersonID, &ps.PersonName, &ps.PickupCount); err != nil {
			return nil, err
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}
