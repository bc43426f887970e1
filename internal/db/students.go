package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/francisquitu91/retiro-escolar/internal/models"
)

const studentCols = `s.id, s.full_name, s.rut_passport, s.course_id, s.status`

func scanStudent(row interface{ Scan(...any) error }, s *models.Student) error {
	return row.Scan(&s.ID, &s.FullName, &s.RutPassport, &s.CourseID, &s.Status)
}

func ListStudents(ctx context.Context, database *sql.DB) ([]models.StudentWithCourse, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT `+studentCols+`, c.name
		FROM students s
		JOIN courses c ON c.id = s.course_id
		ORDER BY c.name, s.full_name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.StudentWithCourse{}
	for rows.Next() {
		var s models.StudentWithCourse
		if err := rows.Scan(&s.ID, &s.FullName, &s.RutPassport, &s.CourseID, &s.Status, &s.CourseName); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func GetStudentByID(ctx context.Context, database *sql.DB, id string) (*models.Student, error) {
	row := database.QueryRowContext(ctx, `
		SELECT `+studentCols+` FROM students s WHERE s.id = $1`, id)
	var s models.Student
	if err := scanStudent(row, &s); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// GetStudentByRUT busca por RUT normalizado (sin puntos, guiones ni espacios,
// en minúsculas). Se usa para el login de apoderados.
func GetStudentByRUT(ctx context.Context, database *sql.DB, rut string) (*models.Student, error) {
	norm := NormalizeRUT(rut)
	row := database.QueryRowContext(ctx, `
		SELECT `+studentCols+`
		FROM students s
		WHERE lower(translate(s.rut_passport, '.- ', '')) = $1
	`, norm)
	var s models.Student
	if err := scanStudent(row, &s); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func NormalizeRUT(rut string) string {
	r := strings.NewReplacer(".", "", "-", "", " ", "")
	return strings.ToLower(strings.TrimSpace(r.Replace(rut)))
}

func SearchStudents(ctx context.Context, database *sql.DB, query string) ([]models.StudentWithCourse, error) {
	q := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	rows, err := database.QueryContext(ctx, `
		SELECT `+studentCols+`, c.name
		FROM students s
		JOIN courses c ON c.id = s.course_id
		WHERE lower(s.full_name) LIKE $1 OR lower(c.name) LIKE $1
		ORDER BY c.name, s.full_name
	`, q)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.StudentWithCourse{}
	for rows.Next() {
		var s models.StudentWithCourse
		if err := rows.Scan(&s.ID, &s.FullName, &s.RutPassport, &s.CourseID, &s.Status, &s.CourseName); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func CreateStudent(ctx context.Context, database *sql.DB, fullName, rut, courseID string) (*models.Student, error) {
	s := models.Student{
		ID:          uuid.NewString(),
		FullName:    fullName,
		RutPassport: rut,
		CourseID:    courseID,
		Status:      models.Presente,
	}
	_, err := database.ExecContext(ctx, `
		INSERT INTO students (id, full_name, rut_passport, course_id, status)
		VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.FullName, s.RutPassport, s.CourseID, s.Status)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func UpdateStudent(ctx context.Context, database *sql.DB, id, fullName, rut, courseID string) error {
	res, err := database.ExecContext(ctx, `
		UPDATE students SET full_name = $1, rut_passport = $2, course_id = $3
		WHERE id = $4
	`, fullName, rut, courseID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func SetStudentStatus(ctx context.Context, database *sql.DB, id string, status models.StudentStatus) error {
	res, err := database.ExecContext(ctx,
		`UPDATE students SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ResetAllStatuses vuelve todos los alumnos a Presente. Acción manual del
// administrador; no hay reset automático diario.
func ResetAllStatuses(ctx context.Context, database *sql.DB) (int64, error) {
	res, err := database.ExecContext(ctx,
		`UPDATE students SET status = $1 WHERE status <> $1`, models.Presente)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func DeleteStudent(ctx context.Context, database *sql.DB, id string) error {
	res, err := database.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
