package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scaninstead/api/internal/service"
)

// APIError is the envelope returned for every failed request.
type APIError struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Errors  []service.FieldViolation `json:"errors,omitempty"`
}

// Error sends a failure response.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, APIError{Message: message})
}

// ValidationError sends a 400 carrying every field violation.
func ValidationError(c echo.Context, violations []service.FieldViolation) error {
	return c.JSON(http.StatusBadRequest, APIError{
		Message: "validation failed",
		Errors:  violations,
	})
}
