package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"craftstore/internal/entity"
	"craftstore/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates a customer account --> POST /register
func (h *AuthHandler) Register(c echo.Context) error {
	req := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	user, err := h.auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login issues a session token --> POST /login
func (h *AuthHandler) Login(c echo.Context) error {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

// Logout revokes the current session --> POST /logout
func (h *AuthHandler) Logout(c echo.Context) error {
	claims := sessionClaims(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing session"})
	}
	if err := h.auth.Logout(c.Request().Context(), claims.SessionID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// CreateStaff creates a staff account --> POST /admin/staff
func (h *AuthHandler) CreateStaff(c echo.Context) error {
	req := struct {
		Name     string      `json:"name"`
		Email    string      `json:"email"`
		Password string      `json:"password"`
		Role     entity.Role `json:"role"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	user, err := h.auth.CreateStaff(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// SetUserActive toggles an account --> PUT /admin/users/:id/active
func (h *AuthHandler) SetUserActive(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	req := struct {
		Active bool `json:"active"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if err := h.auth.SetUserActive(c.Request().Context(), id, req.Active); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Account updated"})
}
