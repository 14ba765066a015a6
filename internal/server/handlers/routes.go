// Package handlers implements the registry HTTP surface.
package handlers

import (
	"github.com/kitreg/kitreg/internal/auth"
	"github.com/kitreg/kitreg/internal/server"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the API on e. Publishing requires a verified
// identity; catalog reads are open.
func RegisterRoutes(e *echo.Echo, a *server.App) {
	api := e.Group("/api/v1")

	api.GET("/health", func(c echo.Context) error {
		return GetHealth(c, a)
	})
	api.GET("/kits", func(c echo.Context) error {
		return GetKits(c, a)
	})
	api.GET("/kits/entry", func(c echo.Context) error {
		return GetArchiveEntry(c, a)
	})
	api.POST("/kits", func(c echo.Context) error {
		return PostPublish(c, a)
	}, auth.Middleware(a.Verifier))
}
