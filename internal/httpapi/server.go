package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/francisquitu91/retiro-escolar/internal/auth"
	"github.com/francisquitu91/retiro-escolar/internal/config"
	"github.com/francisquitu91/retiro-escolar/internal/metrics"
	"github.com/francisquitu91/retiro-escolar/internal/models"
	"github.com/francisquitu91/retiro-escolar/internal/notify"
	"github.com/francisquitu91/retiro-escolar/internal/realtime"
)

type Server struct {
	cfg      *config.Config
	db       *sql.DB
	log      *zap.Logger
	bc       *realtime.Broadcaster
	notifier notify.Notifier
}

func NewServer(cfg *config.Config, database *sql.DB, log *zap.Logger, bc *realtime.Broadcaster, notifier notify.Notifier) *Server {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Server{cfg: cfg, db: database, log: log, bc: bc, notifier: notifier}
}

func (s *Server) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = newValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(s.requestLogger())

	// públicas
	e.POST("/auth/login", s.StaffLogin)
	e.POST("/auth/parent/login", s.ParentLogin)
	e.GET("/healthz", s.Healthz)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	// endpoint inerte del reset diario; se conserva la forma de respuesta
	e.GET("/api/reset-daily", s.ResetDailyInfo)
	e.POST("/api/reset-daily", s.ResetDailyAck)

	secret := s.cfg.JWTSecret
	staff := e.Group("", auth.RequireAuth(secret), auth.RequireRole(models.Admin, models.Teacher, models.Inspector))
	admin := e.Group("", auth.RequireAuth(secret), auth.RequireRole(models.Admin))
	parent := e.Group("/parent", auth.RequireAuth(secret), auth.RequireRole(models.Parent))

	// personal (admin, profesores, inspectores)
	staff.GET("/me", s.Me)
	staff.GET("/courses", s.ListCourses)
	staff.GET("/students", s.ListStudents)
	staff.GET("/students/search", s.SearchStudents)
	staff.GET("/students/:id", s.GetStudent)
	staff.GET("/students/:id/authorized-persons", s.ListAuthorizedByStudent)
	staff.GET("/authorized-persons", s.ListAuthorizedPersons)
	staff.GET("/schedules", s.ListSchedules)
	staff.GET("/pickups", s.ListPickups)
	staff.POST("/pickups", s.RegisterPickup)

	// solo administrador
	admin.POST("/courses", s.CreateCourse)
	admin.PUT("/courses/:id", s.UpdateCourse)
	admin.DELETE("/courses/:id", s.DeleteCourse)
	admin.POST("/students", s.CreateStudent)
	admin.PUT("/students/:id", s.UpdateStudent)
	admin.DELETE("/students/:id", s.DeleteStudent)
	admin.POST("/students/reset-status", s.ResetStatuses)
	admin.POST("/authorized-persons", s.CreateAuthorizedPerson)
	admin.PUT("/authorized-persons/:id", s.UpdateAuthorizedPerson)
	admin.DELETE("/authorized-persons/:id", s.DeleteAuthorizedPerson)
	admin.POST("/schedules", s.CreateSchedule)
	admin.PUT("/schedules/:id", s.UpdateSchedule)
	admin.DELETE("/schedules/:id", s.DeleteSchedule)
	admin.GET("/users", s.ListUsers)
	admin.POST("/users", s.CreateUser)
	admin.PUT("/users/:id", s.UpdateUser)
	admin.DELETE("/users/:id", s.DeleteUser)
	admin.GET("/reports/stats", s.ReportStats)
	admin.GET("/reports/export.csv", s.ExportCSV)
	admin.GET("/reports/export.xlsx", s.ExportExcel)

	// apoderados
	parent.GET("/dashboard", s.ParentDashboard)

	return e
}

func (s *Server) Healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := s.db.PingContext(ctx); err != nil {
		return c.String(http.StatusServiceUnavailable, "db not ok: "+err.Error())
	}
	metrics.ObserveDBPing(time.Since(t0))
	return c.String(http.StatusOK, "ok")
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			metrics.HTTPRequests.WithLabelValues(v.Method, strconv.Itoa(v.Status)).Inc()
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				s.log.Warn("request", fields...)
				return nil
			}
			s.log.Info("request", fields...)
			return nil
		},
	})
}
