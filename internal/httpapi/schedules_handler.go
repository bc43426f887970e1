package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/francisquitu91/retiro-escolar/internal/ctxutil"
	"github.com/francisquitu91/retiro-escolar/internal/db"
	"github.com/francisquitu91/retiro-escolar/internal/models"
)

type scheduleReq struct {
	CourseID  string `json:"course_id" validate:"required,uuid4"`
	DayOfWeek int    `json:"day_of_week" validate:"required,min=1,max=5"`
	StartTime string `json:"start_time" validate:"required,len=5"`
	EndTime   string `json:"end_time" validate:"required,len=5"`
	Subject   string `json:"subject" validate:"required"`
}

// GET /schedules?course_id=&day=
func (s *Server) ListSchedules(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	if courseID := c.QueryParam("course_id"); courseID != "" {
		out, err := db.ListSchedulesByCourse(ctx, s.db, courseID)
		if err != nil {
			return s.dbError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
	if day := c.QueryParam("day"); day != "" {
		d, err := strconv.Atoi(day)
		if err != nil || d < 1 || d > 7 {
			return jsonError(c, http.StatusBadRequest, "INVALID_DAY")
		}
		out, err := db.ListSchedulesByDay(ctx, s.db, d)
		if err != nil {
			return s.dbError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
	out, err := db.ListSchedules(ctx, s.db)
	if err != nil {
		return s.dbError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /schedules
func (s *Server) CreateSchedule(c echo.Context) error {
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	sched, err := db.CreateSchedule(ctx, s.db, models.Schedule{
		CourseID:  req.CourseID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Subject:   req.Subject,
	})
	if err != nil {
		return s.dbError(c, err)
	}
	return c.JSON(http.StatusCreated, sched)
}

// PUT /schedules/:id
func (s *Server) UpdateSchedule(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_ID")
	}
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	if err := db.UpdateSchedule(ctx, s.db, models.Schedule{
		ID:        id,
		CourseID:  req.CourseID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Subject:   req.Subject,
	}); err != nil {
		return s.dbError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DELETE /schedules/:id
func (s *Server) DeleteSchedule(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_ID")
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	if err := db.DeleteSchedule(ctx, s.db, id); err != nil {
		return s.dbError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
