package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/kitreg/kitreg/internal/archive"
	"github.com/kitreg/kitreg/internal/blob"
	"github.com/kitreg/kitreg/internal/domain"
	"github.com/kitreg/kitreg/internal/server"
	"github.com/kitreg/kitreg/pkg/checksum"
	"github.com/labstack/echo/v4"
)

// GetArchiveEntry streams one entry out of a stored archive: ?locator=
// names the archive, ?path= the entry inside it. An optional ?checksum=
// asserts the archive's digest before the entry is read. A thin
// pass-through over the same archive primitive ingestion uses.
func GetArchiveEntry(c echo.Context, a *server.App) error {
	locator := c.QueryParam("locator")
	entryPath := c.QueryParam("path")
	if locator == "" || entryPath == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "locator and path are required")
	}

	data, err := readArchive(c, a, locator)
	if err != nil {
		if errors.Is(err, domain.ErrBlobNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "archive not found")
		}
		return echo.NewHTTPError(http.StatusBadGateway, "failed to fetch archive")
	}

	if want := c.QueryParam("checksum"); want != "" {
		if err := checksum.Verify(data, want); err != nil {
			return echo.NewHTTPError(http.StatusConflict, domain.ErrChecksumMismatch.Error())
		}
	}

	content, err := archive.ReadEntry(bytes.NewReader(data), entryPath)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "entry not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read archive")
	}

	return c.Blob(http.StatusOK, echo.MIMEOctetStream, content)
}

// readArchive resolves local locators through blob storage and everything
// else through the fetcher.
func readArchive(c echo.Context, a *server.App, locator string) ([]byte, error) {
	if blob.IsLocal(locator) {
		rc, err := a.Blobs.Open(locator)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return a.Fetcher.Fetch(c.Request().Context(), locator)
}
