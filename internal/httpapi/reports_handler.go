package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/francisquitu91/retiro-escolar/internal/ctxutil"
	"github.com/francisquitu91/retiro-escolar/internal/db"
	"github.com/francisquitu91/retiro-escolar/internal/export"
)

// GET /reports/stats
func (s *Server) ReportStats(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	totals, err := db.GetPickupStats(ctx, s.db)
	if err != nil {
		return s.dbError(c, err)
	}
	byCourse, err := db.GetCourseStats(ctx, s.db)
	if err != nil {
		return s.dbError(c, err)
	}
	byPerson, err := db.GetPersonStats(ctx, s.db)
	if err != nil {
		return s.dbError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"totals":    totals,
		"by_course": byCourse,
		"by_person": byPerson,
	})
}

// GET /reports/export.csv
func (s *Server) ExportCSV(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	details, err := db.ListPickupDetails(ctx, s.db)
	if err != nil {
		return s.dbError(c, err)
	}
	data, err := export.PickupsCSV(details, s.cfg.Location)
	if err != nil {
		return s.dbError(c, err)
	}
	name := export.CSVFilename(time.Now().In(s.cfg.Location))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}

// GET /reports/export.xlsx
func (s *Server) ExportExcel(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	details, err := db.ListPickupDetails(ctx, s.db)
	if err != nil {
		return s.dbError(c, err)
	}
	data, err := export.PickupsWorkbook(details, s.cfg.Location)
	if err != nil {
		return s.dbError(c, err)
	}
	name := "retiros_" + time.Now().In(s.cfg.Location).Format("2006-01-02") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
