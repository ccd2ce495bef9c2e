package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scaninstead/api/internal/auth"
	"github.com/scaninstead/api/internal/config"
	"github.com/scaninstead/api/internal/handler"
	middlewarepkg "github.com/scaninstead/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	Homeowner *handler.HomeownerHandler
	Pitch     *handler.PitchHandler
	Monitor   *handler.MonitorHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"success": true, "status": "ok"})
	})

	api := e.Group("/api")

	// Public endpoints reached from the printed QR code.
	api.POST("/create", handlers.Homeowner.Create)
	api.GET("/homeowner/:id", handlers.Homeowner.Get)
	api.POST("/homeowner/:id/register", handlers.Homeowner.Register)
	api.POST("/pitch/:id", handlers.Pitch.Submit, middlewarepkg.RateLimiter(cfg.RateLimitPitch))

	api.POST("/auth/signup", handlers.Auth.Signup)
	api.POST("/auth/signin", handlers.Auth.Signin)

	secured := api.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))
	secured.GET("/homeowner/:id/pitches", handlers.Pitch.List, middlewarepkg.RequireSelfOrRole("id", auth.RoleAdmin))

	admin := secured.Group("/admin", middlewarepkg.RequireRole(auth.RoleAdmin))
	admin.GET("/monitor", handlers.Monitor.Stats)
}
