package handlers

import (
	"net/http"
	"strconv"

	"github.com/kitreg/kitreg/internal/catalog"
	"github.com/kitreg/kitreg/internal/server"
	"github.com/labstack/echo/v4"
)

// GetKits returns one catalog page: ?owner= filters by manifest owner,
// ?limit= caps the page (default 50), ?skip= passes over leading records.
func GetKits(c echo.Context, a *server.App) error {
	req := catalog.ListRequest{Owner: c.QueryParam("owner")}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		req.Limit = limit
	}
	if raw := c.QueryParam("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "skip must be a non-negative integer")
		}
		req.Skip = skip
	}

	page, err := a.Engine.List(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "catalog query failed")
	}

	return c.JSON(http.StatusOK, page)
}
