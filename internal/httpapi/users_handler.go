package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/francisquitu91/retiro-escolar/internal/auth"
	"github.com/francisquitu91/retiro-escolar/internal/ctxutil"
	"github.com/francisquitu91/retiro-escolar/internal/db"
	"github.com/francisquitu91/retiro-escolar/internal/models"
)

type createUserReq struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     string  `json:"name" validate:"required"`
	Role     string  `json:"role" validate:"required,oneof=admin teacher inspector"`
	Subject  *string `json:"subject"`
}

type updateUserReq struct {
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required"`
	Role     string  `json:"role" validate:"required,oneof=admin teacher inspector"`
	Subject  *string `json:"subject"`
	IsActive bool    `json:"is_active"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

// GET /users
func (s *Server) ListUsers(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	out, err := db.ListUsers(ctx, s.db)
	if err != nil {
		return s.dbError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /users
func (s *Server) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return s.dbError(c, err)
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	user, err := db.CreateUser(ctx, s.db, req.Email, hash, req.Name, models.Role(req.Role), req.Subject)
	if err != nil {
		return s.dbError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// PUT /users/:id
func (s *Server) UpdateUser(c echo.Context) error {
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	id := c.Param("id")
	if err := db.UpdateUser(ctx, s.db, id, req.Email, req.Name, models.Role(req.Role), req.Subject, req.IsActive); err != nil {
		return s.dbError(c, err)
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return s.dbError(c, err)
		}
		if err := db.SetUserPassword(ctx, s.db, id, hash); err != nil {
			return s.dbError(c, err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// DELETE /users/:id — si el log de retiros referencia el nombre del usuario,
// se desactiva en vez de borrar para no dejar operadores colgando.
func (s *Server) DeleteUser(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	user, err := db.GetUserByID(ctx, s.db, c.Param("id"))
	if err != nil {
		return s.dbError(c, err)
	}
	if user == nil {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND")
	}
	n, err := db.CountPickupsRecordedBy(ctx, s.db, user.Name)
	if err != nil {
		return s.dbError(c, err)
	}
	if n > 0 {
		if err := db.DeactivateUser(ctx, s.db, user.ID); err != nil {
			return s.dbError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"deactivated": true, "pickups_recorded": n})
	}
	if err := db.DeleteUser(ctx, s.db, user.ID); err != nil {
		return s.dbError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
