package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole enforces that the authenticated request carries the expected role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			value, ok := c.Get(ContextKeyUserRole).(string)
			if !ok || value == "" {
				return c.JSON(http.StatusForbidden, map[string]any{"success": false, "message": "missing role"})
			}
			if value != role {
				return c.JSON(http.StatusForbidden, map[string]any{"success": false, "message": "insufficient permissions"})
			}
			return next(c)
		}
	}
}

// RequireSelfOrRole allows the request when the path parameter matches the
// authenticated subject, or when the subject carries the given role.
// Homeowners read their own pitch history this way while admins read any.
func RequireSelfOrRole(param, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject, _ := c.Get(ContextKeyUserID).(string)
			if subject != "" && subject == c.Param(param) {
				return next(c)
			}
			value, _ := c.Get(ContextKeyUserRole).(string)
			if value == role {
				return next(c)
			}
			return c.JSON(http.StatusForbidden, map[string]any{"success": false, "message": "insufficient permissions"})
		}
	}
}
