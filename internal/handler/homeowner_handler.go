package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/scaninstead/api/internal/dto"
	"github.com/scaninstead/api/internal/repository"
	"github.com/scaninstead/api/internal/service"
)

// HomeownerHandler manages pitch page provisioning and lookups.
type HomeownerHandler struct {
	homeownerService *service.HomeownerService
}

// NewHomeownerHandler wires a handler backed by the homeowner service.
func NewHomeownerHandler(homeownerService *service.HomeownerService) *HomeownerHandler {
	return &HomeownerHandler{homeownerService: homeownerService}
}

// Create handles POST /api/create requests.
func (h *HomeownerHandler) Create(c echo.Context) error {
	var req dto.CreateHomeownerRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request body")
	}

	owner, err := h.homeownerService.Create(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrEmailDuplicate) {
			return Error(c, http.StatusConflict, "email already exists")
		}
		if errors.Is(err, service.ErrMissingFields) {
			return Error(c, http.StatusBadRequest, err.Error())
		}
		return Error(c, http.StatusInternalServerError, "failed to create homeowner")
	}

	return c.JSON(http.StatusCreated, dto.HomeownerResponse{
		Success:   true,
		Message:   "pitch page created",
		Homeowner: owner,
	})
}

// Register handles POST /api/homeowner/:id/register requests, completing a
// profile created earlier with just a name and email.
func (h *HomeownerHandler) Register(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusNotFound, "homeowner not found")
	}

	var req dto.RegisterHomeownerRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request body")
	}

	owner, err := h.homeownerService.Register(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, repository.ErrHomeownerNotFound) {
			return Error(c, http.StatusNotFound, "homeowner not found")
		}
		if errors.Is(err, service.ErrMissingFields) || errors.Is(err, service.ErrInvalidPhone) {
			return Error(c, http.StatusBadRequest, err.Error())
		}
		return Error(c, http.StatusInternalServerError, "failed to register homeowner")
	}

	return c.JSON(http.StatusOK, dto.HomeownerResponse{
		Success:   true,
		Message:   "registration complete",
		Homeowner: owner,
	})
}

// Get handles GET /api/homeowner/:id requests. The pitch form loads this to
// show who the visitor is pitching.
func (h *HomeownerHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusNotFound, "homeowner not found")
	}

	owner, err := h.homeownerService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrHomeownerNotFound) {
			return Error(c, http.StatusNotFound, "homeowner not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load homeowner")
	}

	return c.JSON(http.StatusOK, dto.HomeownerResponse{
		Success:   true,
		Homeowner: owner,
	})
}
