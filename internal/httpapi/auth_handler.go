package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/francisquitu91/retiro-escolar/internal/auth"
	"github.com/francisquitu91/retiro-escolar/internal/ctxutil"
	"github.com/francisquitu91/retiro-escolar/internal/db"
	"github.com/francisquitu91/retiro-escolar/internal/models"
)

// Un solo mensaje para credencial mala, cuenta inexistente o desactivada:
// no se distingue el motivo a propósito.
const badCredentials = "Credenciales incorrectas"

type staffLoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type parentLoginReq struct {
	Rut      string `json:"rut" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResp struct {
	Token string          `json:"token"`
	User  models.Identity `json:"user"`
}

// POST /auth/login
func (s *Server) StaffLogin(c echo.Context) error {
	var req staffLoginReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	user, err := db.GetUserByEmail(ctx, s.db, req.Email)
	if err != nil {
		return s.dbError(c, err)
	}
	if user == nil || !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": badCredentials})
	}

	id := models.Identity{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
	token, err := auth.SignToken(id, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return s.dbError(c, err)
	}
	return c.JSON(http.StatusOK, loginResp{Token: token, User: id})
}

// POST /auth/parent/login — el apoderado entra con el RUT del alumno; la
// identidad es virtual (parent_<student_id>) y nunca se persiste.
func (s *Server) ParentLogin(c echo.Context) error {
	var req parentLoginReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	student, err := db.GetStudentByRUT(ctx, s.db, req.Rut)
	if err != nil {
		return s.dbError(c, err)
	}
	expected := auth.ParentPasswordFromRUT(req.Rut)
	if student == nil || expected == "" || !auth.EqualConstantTime(expected, req.Password) {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": badCredentials})
	}

	id := models.Identity{
		ID:        "parent_" + student.ID,
		Email:     student.RutPassport,
		Name:      "Apoderado de " + student.FullName,
		Role:      models.Parent,
		StudentID: student.ID,
	}
	token, err := auth.SignToken(id, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return s.dbError(c, err)
	}
	return c.JSON(http.StatusOK, loginResp{Token: token, User: id})
}

// GET /me
func (s *Server) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, auth.IdentityFrom(c))
}
