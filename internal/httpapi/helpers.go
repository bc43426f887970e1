package httpapi

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/francisquitu91/retiro-escolar/internal/ctxutil"
	"github.com/francisquitu91/retiro-escolar/internal/db"
	"github.com/francisquitu91/retiro-escolar/internal/metrics"
	"github.com/francisquitu91/retiro-escolar/internal/observability"
	"github.com/francisquitu91/retiro-escolar/internal/realtime"
)

func jsonError(c echo.Context, status int, code string) error {
	metrics.HandlerErrors.Inc()
	return c.JSON(status, map[string]any{"error": code})
}

// dbError traduce errores del data layer a HTTP; lo inesperado va a Sentry.
func (s *Server) dbError(c echo.Context, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND")
	}
	s.log.Error("db", zap.Error(err))
	observability.CaptureErr(err)
	return jsonError(c, http.StatusInternalServerError, "INTERNAL")
}

// broadcastCollection relee la colección completa y la publica. Es posterior
// a la escritura y best-effort: si falla, los clientes la recogen en el
// siguiente poll o refresco.
func (s *Server) broadcastCollection(c echo.Context, col realtime.Collection) {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	var data any
	var err error
	switch col {
	case realtime.Students:
		data, err = db.ListStudents(ctx, s.db)
	case realtime.Courses:
		data, err = db.ListCourses(ctx, s.db)
	case realtime.PickupLogs:
		data, err = db.ListPickupLogs(ctx, s.db)
	case realtime.AuthorizedPersons:
		data, err = db.ListAuthorizedPersons(ctx, s.db)
	default:
		return
	}
	if err != nil {
		s.log.Warn("broadcast: recargar colección", zap.String("collection", string(col)), zap.Error(err))
		return
	}
	if err := s.bc.Broadcast(ctx, col, data); err != nil {
		s.log.Warn("broadcast", zap.String("collection", string(col)), zap.Error(err))
	}
}
