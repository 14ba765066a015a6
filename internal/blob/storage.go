package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/kitreg/kitreg/internal/domain"
	"github.com/kitreg/kitreg/pkg/checksum"
)

// Store holds raw archive bytes outside the catalog. The catalog only keeps
// an opaque locator into it.
type Store interface {
	// Put stores data content-addressed and returns its locator.
	Put(data []byte) (locator string, err error)
	// Open returns a reader over the blob behind a locator produced by Put.
	Open(locator string) (io.ReadCloser, error)
}

// FilesystemStore is a content-addressed archive store on the local
// filesystem. Blobs land under <root>/sha256/<aa>/<digest> and are written
// through a temp file plus rename so a partially written blob is never
// visible under its final name.
type FilesystemStore struct {
	rootDir string
}

// NewFilesystemStore creates the storage layout under rootDir.
func NewFilesystemStore(rootDir string) (*FilesystemStore, error) {
	if err := os.MkdirAll(filepath.Join(rootDir, "sha256"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	log.Debug("Blob storage initialized", "root", rootDir)
	return &FilesystemStore{rootDir: rootDir}, nil
}

func (s *FilesystemStore) Put(data []byte) (string, error) {
	digest := checksum.Sum(data)
	blobPath := s.blobPath(digest)

	if err := os.MkdirAll(filepath.Dir(blobPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}

	// Already stored; content addressing makes this a no-op.
	if _, err := os.Stat(blobPath); err == nil {
		return "file://" + blobPath, nil
	}

	tmpPath := blobPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := os.Rename(tmpPath, blobPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to finalize blob: %w", err)
	}

	log.Debug("Blob stored", "digest", digest, "size", len(data))
	return "file://" + blobPath, nil
}

func (s *FilesystemStore) Open(locator string) (io.ReadCloser, error) {
	p := strings.TrimPrefix(locator, "file://")
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBlobNotFound, locator)
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return f, nil
}

// blobPath fans blobs out over a two-level directory structure keyed by the
// first two digest characters.
func (s *FilesystemStore) blobPath(digest string) string {
	if len(digest) < 2 {
		return filepath.Join(s.rootDir, "sha256", digest)
	}
	return filepath.Join(s.rootDir, "sha256", digest[:2], digest)
}
