package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/francisquitu91/retiro-escolar/internal/auth"
	"github.com/francisquitu91/retiro-escolar/internal/ctxutil"
	"github.com/francisquitu91/retiro-escolar/internal/db"
	"github.com/francisquitu91/retiro-escolar/internal/models"
	"github.com/francisquitu91/retiro-escolar/internal/realtime"
)

type studentReq struct {
	FullName    string `json:"full_name" validate:"required"`
	RutPassport string `json:"rut_passport" validate:"required"`
	CourseID    string `json:"course_id" validate:"required,uuid4"`
}

// GET /students
func (s *Server) ListStudents(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	out, err := db.ListStudents(ctx, s.db)
	if err != nil {
		return s.dbError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /students/search?q=
func (s *Server) SearchStudents(c echo.Context) error {
	q := c.QueryParam("q")
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	out, err := db.SearchStudents(ctx, s.db, q)
	if err != nil {
		return s.dbError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type studentDetail struct {
	models.Student
	Course            *models.Course            `json:"course,omitempty"`
	AuthorizedPersons []models.AuthorizedPerson `json:"authorized_persons"`
}

// GET /students/:id — alumno con curso y personas autorizadas.
func (s *Server) GetStudent(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	student, err := db.GetStudentByID(ctx, s.db, c.Param("id"))
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
	return c.JSON(http.StatusOK, studentDetail{Student: *student, Course: course, AuthorizedPersons: persons})
}

// POST /students
func (s *Server) CreateStudent(c echo.Context) error {
	var req studentReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	student, err := db.CreateStudent(ctx, s.db, req.FullName, req.RutPassport, req.CourseID)
	if err != nil {
		return s.dbError(c, err)
	}
	s.broadcastCollection(c, realtime.Students)
	return c.JSON(http.StatusCreated, student)
}

// PUT /students/:id
func (s *Server) UpdateStudent(c echo.Context) error {
	var req studentReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	if err := db.UpdateStudent(ctx, s.db, c.Param("id"), req.FullName, req.RutPassport, req.CourseID); err != nil {
		return s.dbError(c, err)
	}
	s.broadcastCollection(c, realtime.Students)
	return c.NoContent(http.StatusNoContent)
}

// DELETE /students/:id
func (s *Server) DeleteStudent(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	if err := db.DeleteStudent(ctx, s.db, c.Param("id")); err != nil {
		return s.dbError(c, err)
	}
	s.broadcastCollection(c, realtime.Students)
	return c.NoContent(http.StatusNoContent)
}

// POST /students/reset-status — acción manual del administrador que vuelve
// a todos a Presente. No existe variante automática.
func (s *Server) ResetStatuses(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	n, err := db.ResetAllStatuses(ctx, s.db)
	if err != nil {
		return s.dbError(c, err)
	}
	if op := auth.IdentityFrom(c); op != nil {
		s.log.Info("reset de estados", zap.String("by", op.Name), zap.Int64("students", n))
	}
	s.broadcastCollection(c, realtime.Students)
	return c.JSON(http.StatusOK, map[string]any{"reset": n})
}
