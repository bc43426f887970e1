package db

import (
	"context"
	"database/sql"

	"github.com/francisquitu91/retiro-escolar/internal/models"
)

const scheduleCols = `id, course_id, day_of_week, start_time, end_time, subject`

func scanSchedules(rows *sql.Rows) ([]models.Schedule, error) {
	defer func() { _ = rows.Close() }()
	out := []models.Schedule{}
	for rows.Next() {
		var s models.Schedule
		if err := rows.Scan(&s.ID, &s.CourseID, &s.DayOfWeek, &s.StartTime, &s.EndTime, &s.Subject); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func ListSchedules(ctx context.Context, database *sql.DB) ([]models.Schedule, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT `+scheduleCols+` FROM schedules ORDER BY day_of_week, start_time`)
	if err != nil {
		return nil, err
	}
	return scanSchedules(rows)
}

func ListSchedulesByCourse(ctx context.Context, database *sql.DB, courseID string) ([]models.Schedule, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT `+scheduleCols+` FROM schedules
		WHERE course_id = $1
		ORDER BY day_of_week, start_time
	`, courseID)
	if err != nil {
		return nil, err
	}
	return scanSchedules(rows)
}

func ListSchedulesByDay(ctx context.Context, database *sql.DB, dayOfWeek int) ([]models.Schedule, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT `+scheduleCols+` FROM schedules
		WHERE day_of_week = $1
		ORDER BY start_time
	`, dayOfWeek)
	if err != nil {
		return nil, err
	}
	return scanSchedules(rows)
}

func CreateSchedule(ctx context.Context, database *sql.DB, s models.Schedule) (*models.Schedule, error) {
	row := database.QueryRowContext(ctx, `
		INSERT INTO schedules (course_id, day_of_week, start_time, end_time, subject)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, s.CourseID, s.DayOfWeek, s.StartTime, s.EndTime, s.Subject)
	if err := row.Scan(&s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

func UpdateSchedule(ctx context.Context, database *sql.DB, s models.Schedule) error {
	res, err := database.ExecContext(ctx, `
		UPDATE schedules
		SET course_id = $1, day_of_week = $2, start_time = $3, end_time = $4, subject = $5
		WHERE id = $6
	`, s.CourseID, s.DayOfWeek, s.StartTime, s.EndTime, s.Subject, s.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func DeleteSchedule(ctx context.Context, database *sql.DB, id int64) error {
	res, err := database.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
