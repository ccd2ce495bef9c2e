package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scaninstead/api/internal/dto"
	"github.com/scaninstead/api/internal/service"
)

// AuthHandler exposes homeowner account endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler wires a handler backed by the auth service.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup handles POST /api/auth/signup requests.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request body")
	}

	owner, token, err := h.authService.Signup(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyRegistered) {
			return Error(c, http.StatusConflict, "email already registered")
		}
		if errors.Is(err, service.ErrInvalidPhone) {
			return Error(c, http.StatusBadRequest, "invalid phone number")
		}
		if req.FullName == "" || req.Email == "" || req.Password == "" {
			return Error(c, http.StatusBadRequest, "full name, email and password are required")
		}
		return Error(c, http.StatusInternalServerError, "failed to create account")
	}

	return c.JSON(http.StatusCreated, dto.AuthResponse{
		Success:     true,
		AccessToken: token,
		HomeownerID: owner.ID.String(),
		Message:     "account created",
	})
}

// Signin handles POST /api/auth/signin requests.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req dto.SigninRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request body")
	}

	owner, token, err := h.authService.Signin(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		return Error(c, http.StatusInternalServerError, "failed to sign in")
	}

	return c.JSON(http.StatusOK, dto.AuthResponse{
		Success:     true,
		AccessToken: token,
		HomeownerID: owner.ID.String(),
	})
}
