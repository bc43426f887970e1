package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/francisquitu91/retiro-escolar/internal/auth"
	"github.com/francisquitu91/retiro-escolar/internal/ctxutil"
	"github.com/francisquitu91/retiro-escolar/internal/db"
	"github.com/francisquitu91/retiro-escolar/internal/models"
	"github.com/francisquitu91/retiro-escolar/internal/schedule"
)

type parentDashboard struct {
	Student           models.Student            `json:"student"`
	Course            *models.Course            `json:"course,omitempty"`
	AuthorizedPersons []models.AuthorizedPerson `json:"authorized_persons"`
	PickupHistory     []models.PickupLog        `json:"pickup_history"`
	CurrentActivity   schedule.Activity         `json:"current_activity"`
}

// GET /parent/dashboard — todo lo que ve el apoderado: su alumno, el curso,
// las personas autorizadas, el historial de retiros y la actividad actual
// según el horario y la hora del colegio.
func (s *Server) ParentDashboard(c echo.Context) error {
	id := auth.IdentityFrom(c)
	if id.StudentID == "" {
		return jsonError(c, http.StatusForbidden, "FORBIDDEN")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	student, err := db.GetStudentByID(ctx, s.db, id.StudentID)
	if err != nil {
		return s.dbError(c, err)
	}
	if student == nil {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND")
	}
	course, err := db.GetCourseByID(ctx, s.db, student.CourseID)
	if err != nil {
		return s.dbError(c, err)
	}
	persons, err := db.ListAuthorizedByStudent(ctx, s.db, student.ID)
	if err != nil {
		return s.dbError(c, err)
	}
	history, err := db.ListPickupsByStudent(ctx, s.db, student.ID)
	if err != nil {
		return s.dbError(c, err)
	}
	schedules, err := db.ListSchedulesByCourse(ctx, s.db, student.CourseID)
	if err != nil {
		return s.dbError(c, err)
	}

	activity := schedule.Current(student.CourseID, schedules, time.Now().In(s.cfg.Location))
	return c.JSON(http.StatusOK, parentDashboard{
		Student:           *student,
		Course:            course,
		AuthorizedPersons: persons,
		PickupHistory:     history,
		CurrentActivity:   activity,
	})
}
