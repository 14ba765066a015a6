// Package ingest turns an uploaded archive into a verified, validated
// catalog record. The pipeline is an explicit state machine so every
// transition can be exercised independently.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kitreg/kitreg/internal/archive"
	"github.com/kitreg/kitreg/internal/auth"
	"github.com/kitreg/kitreg/internal/blob"
	"github.com/kitreg/kitreg/internal/catalog"
	"github.com/kitreg/kitreg/internal/domain"
	"github.com/kitreg/kitreg/pkg/checksum"
	"github.com/kitreg/kitreg/pkg/manifest"
)

// State identifies where in the pipeline a run is, or where it stopped.
type State string

const (
	StateFetching   State = "fetching"
	StateVerifying  State = "verifying"
	StateExtracting State = "extracting_manifest"
	StateValidating State = "validating"
	StatePersisting State = "persisting"
	StateDone       State = "done"
)

// Request describes one publish. Identity must already be verified by the
// auth layer; the pipeline performs no authorization decision of its own.
type Request struct {
	Identity *auth.Identity
	FileName string
	FileSize int64
	Locator  string
}

// Result is the tagged outcome of a run. On failure, State names the stage
// that failed and Err carries the reason; on success State is StateDone and
// Record is the appended catalog record.
type Result struct {
	State  State
	Record *domain.CatalogRecord
	Err    error
}

// Failed reports whether the run stopped before completion.
func (r Result) Failed() bool { return r.Err != nil }

// Pipeline orchestrates fetch, verify, extract, validate and persist. The
// append to the catalog store is the single observable side effect;
// everything before it is pure computation over the fetched bytes.
type Pipeline struct {
	fetcher blob.Fetcher
	store   catalog.Store
}

// New builds a pipeline over a blob fetcher and a catalog store.
func New(fetcher blob.Fetcher, store catalog.Store) *Pipeline {
	return &Pipeline{fetcher: fetcher, store: store}
}

// Run executes the pipeline for one publish. No stage retries internally; a
// failed run leaves the catalog untouched and the caller re-invokes.
func (p *Pipeline) Run(ctx context.Context, req Request) Result {
	startedAt := time.Now().UTC()

	if req.Identity == nil {
		return Result{State: StateFetching, Err: domain.ErrMissingIdentity}
	}

	data, err := p.fetcher.Fetch(ctx, req.Locator)
	if err != nil {
		return Result{State: StateFetching, Err: fmt.Errorf("fetch %s: %w", req.Locator, err)}
	}

	if len(data) == 0 {
		return Result{State: StateVerifying, Err: fmt.Errorf("%w: empty archive", domain.ErrDownloadFailed)}
	}
	sum := checksum.Sum(data)

	manifestBytes, err := archive.ReadManifest(bytes.NewReader(data))
	if err != nil {
		return Result{State: StateExtracting, Err: err}
	}

	m, err := manifest.Parse(manifestBytes)
	if err != nil {
		return Result{State: StateValidating, Err: err}
	}

	fileSize := req.FileSize
	if fileSize <= 0 {
		fileSize = int64(len(data))
	}

	record := &domain.CatalogRecord{
		FileName:    req.FileName,
		FileSize:    fileSize,
		DownloadURL: req.Locator,
		Checksum:    sum,
		Manifest:    *m,
		UploadedAt:  startedAt,
		UserID:      req.Identity.ID,
		UserEmail:   req.Identity.Email,
	}
	if _, err := p.store.Append(ctx, record); err != nil {
		return Result{State: StatePersisting, Err: err}
	}

	log.Info("Kit published",
		"owner", m.Owner,
		"id", m.ID,
		"version", m.Version,
		"checksum", sum,
		"user", req.Identity.ID)

	return Result{State: StateDone, Record: record}
}
