package handlers

import (
	"net/http"
	"time"

	"github.com/kitreg/kitreg/internal/server"
	"github.com/kitreg/kitreg/pkg/version"
	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// GetHealth reports liveness, build version and uptime.
func GetHealth(c echo.Context, a *server.App) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:  "ok",
		Version: version.Version(),
		Uptime:  time.Since(a.Start).Round(time.Second).String(),
	})
}
