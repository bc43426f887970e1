package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/francisquitu91/retiro-escolar/internal/ctxutil"
	"github.com/francisquitu91/retiro-escolar/internal/db"
	"github.com/francisquitu91/retiro-escolar/internal/realtime"
)

type courseReq struct {
	Name string `json:"name" validate:"required"`
}

// GET /courses
func (s *Server) ListCourses(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	out, err := db.ListCourses(ctx, s.db)
	if err != nil {
		return s.dbError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /courses
func (s *Server) CreateCourse(c echo.Context) error {
	var req courseReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	course, err := db.CreateCourse(ctx, s.db, req.Name)
	if err != nil {
		return s.dbError(c, err)
	}
	s.broadcastCollection(c, realtime.Courses)
	return c.JSON(http.StatusCreated, course)
}

// PUT /courses/:id
func (s *Server) UpdateCourse(c echo.Context) error {
	var req courseReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	if err := db.UpdateCourse(ctx, s.db, c.Param("id"), req.Name); err != nil {
		return s.dbError(c, err)
	}
	s.broadcastCollection(c, realtime.Courses)
	return c.NoContent(http.StatusNoContent)
}

// DELETE /courses/:id
func (s *Server) DeleteCourse(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	if err := db.DeleteCourse(ctx, s.db, c.Param("id")); err != nil {
		return s.dbError(c, err)
	}
	s.broadcastCollection(c, realtime.Courses)
	return c.NoContent(http.StatusNoContent)
}
