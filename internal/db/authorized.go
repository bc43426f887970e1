package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/francisquitu91/retiro-escolar/internal/models"
)

func ListAuthorizedPersons(ctx context.Context, database *sql.DB) ([]models.AuthorizedPerson, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, full_name, relationship, student_id
		FROM authorized_persons
		ORDER BY full_name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.AuthorizedPerson{}
	for rows.Next() {
		var p models.AuthorizedPerson
		if err := rows.Scan(&p.ID, &p.FullName, &p.Relationship, &p.StudentID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func ListAuthorizedByStudent(ctx context.Context, database *sql.DB, studentID string) ([]models.AuthorizedPerson, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, full_name, relationship, student_id
		FROM authorized_persons
		WHERE student_id = $1
		ORDER BY full_name
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.AuthorizedPerson{}
	for rows.Next() {
		var p models.AuthorizedPerson
		if err := rows.Scan(&p.ID, &p.FullName, &p.Relationship, &p.StudentID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func GetAuthorizedPersonByID(ctx context.Context, database *sql.DB, id string) (*models.AuthorizedPerson, error) {
	row := database.QueryRowContext(ctx, `
		SELECT id, full_name, relationship, student_id
		FROM authorized_persons WHERE id = $1
	`, id)
	var p models.AuthorizedPerson
	if err := row.Scan(&p.ID, &p.FullName, &p.Relationship, &p.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func CreateAuthorizedPerson(ctx context.Context, database *sql.DB, fullName, relationship, studentID string) (*models.AuthorizedPerson, error) {
	p := models.AuthorizedPerson{
		ID:           uuid.NewString(),
		FullName:     fullName,
		Relationship: relationship,
		StudentID:    studentID,
	}
	_, err := database.ExecContext(ctx, `
		INSERT INTO authorized_persons (id, full_name, relationship, student_id)
		VALUES ($1, $2, $3, $4)
	`, p.ID, p.FullName, p.Relationship, p.StudentID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func UpdateAuthorizedPerson(ctx context.Context, database *sql.DB, id, fullName, relationship string) error {
	res, err := database.ExecContext(ctx, `
		UPDATE authorized_persons SET full_name = $1, relationship = $2
		WHERE id = $3
	`, fullName, relationship, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func DeleteAuthorizedPerson(ctx context.Context, database *sql.DB, id string) error {
	res, err := database.ExecContext(ctx, `DELETE FROM authorized_persons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
