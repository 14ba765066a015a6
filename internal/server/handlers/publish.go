package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/kitreg/kitreg/internal/auth"
	"github.com/kitreg/kitreg/internal/domain"
	"github.com/kitreg/kitreg/internal/ingest"
	"github.com/kitreg/kitreg/internal/server"
	"github.com/labstack/echo/v4"
)

// PublishRequest publishes an archive the server can fetch itself. Raw
// archive uploads use the request body instead (see PostPublish).
type PublishRequest struct {
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	Locator  string `json:"locator"`
}

// PublishResponse reports the outcome of a publish. Error carries a stable
// kind so clients can react per failure class.
type PublishResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Error   string                `json:"error,omitempty"`
	Record  *domain.CatalogRecord `json:"record,omitempty"`
}

// PostPublish handles the kit publish request. Two body shapes are
// accepted: a JSON locator payload, or the raw archive bytes (any other
// content type) which are first stored into blob storage to produce the
// locator. Either way the ingestion pipeline does the rest.
func PostPublish(c echo.Context, a *server.App) error {
	identity := auth.IdentityFrom(c)
	if identity == nil {
		// The auth middleware rejects unauthenticated requests before the
		// handler runs; this guards direct invocation.
		return sendJSONResponse(c, http.StatusUnauthorized, PublishResponse{
			Success: false,
			Message: "missing verified identity",
			Error:   "auth_error",
		})
	}

	req, err := decodePublishRequest(c, a)
	if err != nil {
		status, kind := http.StatusBadRequest, "bad_request"
		if errors.Is(err, domain.ErrPersistFailed) {
			status, kind = http.StatusInternalServerError, "persistence_error"
		}
		return sendJSONResponse(c, status, PublishResponse{
			Success: false,
			Message: err.Error(),
			Error:   kind,
		})
	}

	result := a.Pipeline.Run(c.Request().Context(), ingest.Request{
		Identity: identity,
		FileName: req.FileName,
		FileSize: req.FileSize,
		Locator:  req.Locator,
	})
	if result.Failed() {
		status, kind := classifyFailure(result)
		log.Error("Publish failed",
			"state", string(result.State),
			"kind", kind,
			"user", identity.ID,
			"error", result.Err)
		return sendJSONResponse(c, status, PublishResponse{
			Success: false,
			Message: result.Err.Error(),
			Error:   kind,
		})
	}

	return sendJSONResponse(c, http.StatusOK, PublishResponse{
		Success: true,
		Message: "kit published",
		Record:  result.Record,
	})
}

func decodePublishRequest(c echo.Context, a *server.App) (PublishRequest, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		var req PublishRequest
		if err := c.Bind(&req); err != nil {
			return PublishRequest{}, errors.New("invalid publish payload")
		}
		if req.Locator == "" {
			return PublishRequest{}, errors.New("locator is required")
		}
		return req, nil
	}

	// Raw archive upload: body bytes go into blob storage first, and the
	// resulting locator feeds the pipeline like any other.
	data, err := io.ReadAll(c.Request().Body)
	if err != nil || len(data) == 0 {
		return PublishRequest{}, errors.New("empty archive body")
	}
	locator, err := a.Blobs.Put(data)
	if err != nil {
		return PublishRequest{}, fmt.Errorf("%w: %v", domain.ErrPersistFailed, err)
	}
	return PublishRequest{
		FileName: c.Request().Header.Get("X-File-Name"),
		FileSize: int64(len(data)),
		Locator:  locator,
	}, nil
}

// classifyFailure maps a pipeline failure to an HTTP status and a stable
// error kind, per state and error type.
func classifyFailure(result ingest.Result) (int, string) {
	if verr, ok := domain.AsValidationError(result.Err); ok {
		return http.StatusUnprocessableEntity, string(verr.Kind)
	}
	switch {
	case errors.Is(result.Err, domain.ErrManifestNotFound):
		return http.StatusUnprocessableEntity, "manifest_not_found"
	case errors.Is(result.Err, domain.ErrDownloadFailed),
		errors.Is(result.Err, domain.ErrInvalidLocator),
		errors.Is(result.Err, domain.ErrUnsupportedScheme):
		return http.StatusBadGateway, "download_error"
	case errors.Is(result.Err, domain.ErrPersistFailed):
		return http.StatusInternalServerError, "persistence_error"
	case errors.Is(result.Err, domain.ErrMissingIdentity):
		return http.StatusUnauthorized, "auth_error"
	}
	return http.StatusInternalServerError, "internal_error"
}

func sendJSONResponse(c echo.Context, status int, response any) error {
	return c.JSON(status, response)
}
