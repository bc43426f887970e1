package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/francisquitu91/retiro-escolar/internal/ctxutil"
	"github.com/francisquitu91/retiro-escolar/internal/db"
	"github.com/francisquitu91/retiro-escolar/internal/realtime"
)

type authorizedPersonReq struct {
	FullName     string `json:"full_name" validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
	StudentID    string `json:"student_id" validate:"required,uuid4"`
}

type authorizedPersonUpdateReq struct {
	FullName     string `json:"full_name" validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
}

// GET /authorized-persons
func (s *Server) ListAuthorizedPersons(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	out, err := db.ListAuthorizedPersons(ctx, s.db)
	if err != nil {
		return s.dbError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /students/:id/authorized-persons
func (s *Server) ListAuthorizedByStudent(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	out, err := db.ListAuthorizedByStudent(ctx, s.db, c.Param("id"))
	if err != nil {
		return s.dbError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /authorized-persons
func (s *Server) CreateAuthorizedPerson(c echo.Context) error {
	var req authorizedPersonReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	student, err := db.GetStudentByID(ctx, s.db, req.StudentID)
	if err != nil {
		return s.dbError(c, err)
	}
	if student == nil {
		return jsonError(c, http.StatusNotFound, "STUDENT_NOT_FOUND")
	}

	person, err := db.CreateAuthorizedPerson(ctx, s.db, req.FullName, req.Relationship, req.StudentID)
	if err != nil {
		return s.dbError(c, err)
	}
	s.broadcastCollection(c, realtime.AuthorizedPersons)
	return c.JSON(http.StatusCreated, person)
}

// PUT /authorized-persons/:id
func (s *Server) UpdateAuthorizedPerson(c echo.Context) error {
	var req authorizedPersonUpdateReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	if err := db.UpdateAuthorizedPerson(ctx, s.db, c.Param("id"), req.FullName, req.Relationship); err != nil {
		return s.dbError(c, err)
	}
	s.broadcastCollection(c, realtime.AuthorizedPersons)
	return c.NoContent(http.StatusNoContent)
}

// DELETE /authorized-persons/:id
func (s *Server) DeleteAuthorizedPerson(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	if err := db.DeleteAuthorizedPerson(ctx, s.db, c.Param("id")); err != nil {
		return s.dbError(c, err)
	}
	s.broadcastCollection(c, realtime.AuthorizedPersons)
	return c.NoContent(http.StatusNoContent)
}
