package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kitreg/kitreg/internal/auth"
	"github.com/kitreg/kitreg/internal/blob"
	"github.com/kitreg/kitreg/internal/catalog"
	"github.com/kitreg/kitreg/internal/config"
	"github.com/kitreg/kitreg/internal/ingest"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// App bundles everything the HTTP handlers need.
type App struct {
	Config   *config.Config
	Store    catalog.Store
	Engine   *catalog.Engine
	Pipeline *ingest.Pipeline
	Blobs    blob.Store
	Fetcher  blob.Fetcher
	Verifier auth.Verifier
	Start    time.Time
}

// NewApp wires the registry core from configuration: blob storage and
// fetcher, the sqlite catalog store, the query engine, the ingestion
// pipeline and the token verifier.
func NewApp(cfg *config.Config) (*App, error) {
	blobs, err := blob.NewFilesystemStore(cfg.Server.DataDir + "/blobs")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob storage: %w", err)
	}

	store, err := catalog.OpenSQLite(cfg.Server.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog store: %w", err)
	}

	verifier, err := buildVerifier(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	fetcher := blob.NewLocatorFetcher()

	return &App{
		Config:   cfg,
		Store:    store,
		Engine:   catalog.NewEngine(store),
		Pipeline: ingest.New(fetcher, store),
		Blobs:    blobs,
		Fetcher:  fetcher,
		Verifier: verifier,
		Start:    time.Now(),
	}, nil
}

// buildVerifier assembles the credential verifier: the static token table,
// extended with an HS256 verifier when a signing secret is configured.
func buildVerifier(cfg *config.Config) (auth.Verifier, error) {
	static, err := auth.NewStaticVerifier(cfg.Auth.Tokens)
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return static, nil
	}
	jwtVerifier, err := auth.NewJWTVerifier(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}
	return auth.Chain(static, jwtVerifier), nil
}

// Close releases the app's resources.
func (a *App) Close() error {
	return a.Store.Close()
}

// NewEcho returns an echo instance with the baseline middleware chain.
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	return e
}

// Run serves e until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, e *echo.Echo, port int) error {
	addr := ":" + strconv.Itoa(port)
	log.Info("Registry server starting", "address", addr)

	errChan := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Info("Registry server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}
