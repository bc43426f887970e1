package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/francisquitu91/retiro-escolar/internal/models"
)

// Seed deja el sistema utilizable en una instalación nueva: un administrador
// inicial si no hay usuarios, y los cursos típicos si la tabla está vacía.
func Seed(ctx context.Context, database *sql.DB, adminEmail, adminPasswordHash string) error {
	var users int
	if err := database.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&users); err != nil {
		return fmt.Errorf("seed: contar usuarios: %w", err)
	}
	if users == 0 {
		_, err := database.ExecContext(ctx, `
			INSERT INTO users (id, email, password_hash, name, role)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.NewString(), adminEmail, adminPasswordHash, "Administrador", models.Admin)
		if err != nil {
			return fmt.Errorf("seed: admin inicial: %w", err)
		}
	}

	var courses int
	if err := database.QueryRowContext(ctx, `SELECT count(*) FROM courses`).Scan(&courses); err != nil {
		return fmt.Errorf("seed: contar cursos: %w", err)
	}
	if courses == 0 {
		letters := []string{"A", "B"}
		for grade := 1; grade <= 8; grade++ {
			for _, letter := range letters {
				name := fmt.Sprintf("%d° BÁSICO %s", grade, letter)
				if _, err := database.ExecContext(ctx,
					`INSERT INTO courses (id, name) VALUES ($1, $2)`, uuid.NewString(), name); err != nil {
					return fmt.Errorf("seed: curso %s: %w", name, err)
				}
			}
		}
	}
	return nil
}
