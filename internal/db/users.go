package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/francisquitu91/retiro-escolar/internal/models"
)

const userCols = `id, email, password_hash, name, role, subject, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *models.User) error {
	return row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Subject, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}

func GetUserByEmail(ctx context.Context, database *sql.DB, email string) (*models.User, error) {
	row := database.QueryRowContext(ctx, `
		SELECT `+userCols+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	var u models.User
	if err := scanUser(row, &u); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func GetUserByID(ctx context.Context, database *sql.DB, id string) (*models.User, error) {
	row := database.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id)
	var u models.User
	if err := scanUser(row, &u); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func ListUsers(ctx context.Context, database *sql.DB) ([]models.User, error) {
	rows, err := database.QueryContext(ctx, `SELECT `+userCols+` FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func CreateUser(ctx context.Context, database *sql.DB, email, passwordHash, name string, role models.Role, subject *string) (*models.User, error) {
	u := models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		Subject:      subject,
		IsActive:     true,
	}
	_, err := database.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, subject)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.Subject)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func UpdateUser(ctx context.Context, database *sql.DB, id, email, name string, role models.Role, subject *string, isActive bool) error {
	res, err := database.ExecContext(ctx, `
		UPDATE users
		SET email = $1, name = $2, role = $3, subject = $4, is_active = $5, updated_at = now()
		WHERE id = $6
	`, strings.ToLower(strings.TrimSpace(email)), name, role, subject, isActive, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func SetUserPassword(ctx context.Context, database *sql.DB, id, passwordHash string) error {
	res, err := database.ExecContext(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		passwordHash, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func DeactivateUser(ctx context.Context, database *sql.DB, id string) error {
	res, err := database.ExecContext(ctx, `
		UPDATE users SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func DeleteUser(ctx context.Context, database *sql.DB, id string) error {
	res, err := database.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CountPickupsRecordedBy — cuántas filas del log referencian el nombre del
// usuario. Si hay alguna, preferimos desactivar en vez de borrar, para no
// dejar al log apuntando a un operador inexistente.
func CountPickupsRecordedBy(ctx context.Context, database *sql.DB, name string) (int64, error) {
	var n int64
	err := database.QueryRowContext(ctx,
		`SELECT count(*) FROM pickup_logs WHERE recorded_by_user = $1`, name).Scan(&n)
	return n, err
}
