package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/francisquitu91/retiro-escolar/internal/models"
)

func ListCourses(ctx context.Context, database *sql.DB) ([]models.Course, error) {
	rows, err := database.QueryContext(ctx, `SELECT id, name FROM courses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func GetCourseByID(ctx context.Context, database *sql.DB, id string) (*models.Course, error) {
	row := database.QueryRowContext(ctx, `SELECT id, name FROM courses WHERE id = $1`, id)
	var c models.Course
	if err := row.Scan(&c.ID, &c.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func CreateCourse(ctx context.Context, database *sql.DB, name string) (*models.Course, error) {
	c := models.Course{ID: uuid.NewString(), Name: name}
	_, err := database.ExecContext(ctx, `INSERT INTO courses (id, name) VALUES ($1, $2)`, c.ID, c.Name)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func UpdateCourse(ctx context.Context, database *sql.DB, id, name string) error {
	res, err := database.ExecContext(ctx, `UPDATE courses SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func DeleteCourse(ctx context.Context, database *sql.DB, id string) error {
	res, err := database.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
