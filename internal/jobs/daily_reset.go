package jobs

import (
	"context"
	"database/sql"
)

// DailyReset — DESHABILITADO.
//
// El reset automático provocaba vueltas a Presente no deseadas, así que el
// estado se resetea solo con el botón manual del administrador
// (POST /students/reset-status). El job queda aquí documentado pero no se
// registra en el Runner.
//
// La versión automática era:
//
//	r.Every(time.Hour, "daily_reset", func(ctx context.Context) error {
//		_, err := db.ResetAllStatuses(ctx, database)
//		return err
//	})
func DailyReset(_ *sql.DB) Job {
	return func(context.Context) error { return nil }
}
