package ingest

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitreg/kitreg/internal/auth"
	"github.com/kitreg/kitreg/internal/catalog"
	"github.com/kitreg/kitreg/internal/domain"
	"github.com/kitreg/kitreg/pkg/checksum"
)

// fakeFetcher serves archives from memory, or fails for unknown locators.
type fakeFetcher struct {
	archives map[string][]byte
}

func (f *fakeFetcher) Fetch(_ context.Context, locator string) ([]byte, error) {
	data, ok := f.archives[locator]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDownloadFailed, locator)
	}
	return data, nil
}

// failingStore rejects every append.
type failingStore struct {
	catalog.Store
}

func (s *failingStore) Append(context.Context, *domain.CatalogRecord) (string, error) {
	return "", fmt.Errorf("%w: disk full", domain.ErrPersistFailed)
}

func buildArchive(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func newTestStore(t *testing.T) *catalog.SQLiteStore {
	t.Helper()
	store, err := catalog.OpenSQLite(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func storeCount(t *testing.T, store catalog.Store) int {
	t.Helper()
	count, err := store.Count(context.Background(), catalog.Filter{})
	require.NoError(t, err)
	return count
}

var testIdentity = &auth.Identity{ID: "u1", Email: "u1@example.com"}

const validManifest = "id: forge\nname: Forge\nversion: 1.0.0\nowner: acme\n"

func TestPipeline_Success(t *testing.T) {
	archiveBytes := buildArchive(t, map[string]string{"kit.yml": validManifest})
	fetcher := &fakeFetcher{archives: map[string][]byte{"mem://forge": archiveBytes}}
	store := newTestStore(t)

	p := New(fetcher, store)
	result := p.Run(context.Background(), Request{
		Identity: testIdentity,
		FileName: "forge-1.0.0.tar.gz",
		FileSize: int64(len(archiveBytes)),
		Locator:  "mem://forge",
	})

	require.False(t, result.Failed(), "pipeline failed: %v", result.Err)
	assert.Equal(t, StateDone, result.State)

	record := result.Record
	require.NotNil(t, record)
	assert.Equal(t, checksum.Sum(archiveBytes), record.Checksum)
	assert.Equal(t, "forge", record.Manifest.ID)
	assert.Equal(t, "acme", record.Manifest.Owner)
	assert.Equal(t, "mem://forge", record.DownloadURL)
	assert.Equal(t, "u1", record.UserID)
	assert.False(t, record.UploadedAt.IsZero())

	assert.Equal(t, 1, storeCount(t, store))
}

func TestPipeline_FileSizeDefaultsToFetchedLength(t *testing.T) {
	archiveBytes := buildArchive(t, map[string]string{"kit.yml": validManifest})
	fetcher := &fakeFetcher{archives: map[string][]byte{"mem://forge": archiveBytes}}
	store := newTestStore(t)

	result := New(fetcher, store).Run(context.Background(), Request{
		Identity: testIdentity,
		Locator:  "mem://forge",
	})

	require.False(t, result.Failed())
	assert.Equal(t, int64(len(archiveBytes)), result.Record.FileSize)
}

func TestPipeline_MissingIdentity(t *testing.T) {
	store := newTestStore(t)
	p := New(&fakeFetcher{}, store)

	result := p.Run(context.Background(), Request{Locator: "mem://forge"})

	require.True(t, result.Failed())
	assert.ErrorIs(t, result.Err, domain.ErrMissingIdentity)
	assert.Equal(t, 0, storeCount(t, store))
}

func TestPipeline_DownloadError(t *testing.T) {
	store := newTestStore(t)
	p := New(&fakeFetcher{}, store)

	result := p.Run(context.Background(), Request{
		Identity: testIdentity,
		Locator:  "mem://unknown",
	})

	require.True(t, result.Failed())
	assert.Equal(t, StateFetching, result.State)
	assert.ErrorIs(t, result.Err, domain.ErrDownloadFailed)
	assert.Equal(t, 0, storeCount(t, store))
}

func TestPipeline_ManifestNotFound(t *testing.T) {
	archiveBytes := buildArchive(t, map[string]string{"main.sh": "#!/bin/sh\n"})
	fetcher := &fakeFetcher{archives: map[string][]byte{"mem://forge": archiveBytes}}
	store := newTestStore(t)

	result := New(fetcher, store).Run(context.Background(), Request{
		Identity: testIdentity,
		Locator:  "mem://forge",
	})

	require.True(t, result.Failed())
	assert.Equal(t, StateExtracting, result.State)
	assert.ErrorIs(t, result.Err, domain.ErrManifestNotFound)
	assert.Equal(t, 0, storeCount(t, store))
}

func TestPipeline_ValidationFailureIsAtomic(t *testing.T) {
	// Manifest without an owner: validation fails and nothing may be
	// persisted afterwards.
	archiveBytes := buildArchive(t, map[string]string{
		"kit.yml": "id: forge\nname: Forge\nversion: 1.0.0\n",
	})
	fetcher := &fakeFetcher{archives: map[string][]byte{"mem://forge": archiveBytes}}
	store := newTestStore(t)

	result := New(fetcher, store).Run(context.Background(), Request{
		Identity: testIdentity,
		Locator:  "mem://forge",
	})

	require.True(t, result.Failed())
	assert.Equal(t, StateValidating, result.State)

	verr, ok := domain.AsValidationError(result.Err)
	require.True(t, ok)
	assert.Equal(t, domain.KindMissingField, verr.Kind)
	assert.Equal(t, "owner", verr.Field)

	assert.Equal(t, 0, storeCount(t, store))
}

func TestPipeline_MalformedManifest(t *testing.T) {
	archiveBytes := buildArchive(t, map[string]string{"kit.yml": "id: [broken"})
	fetcher := &fakeFetcher{archives: map[string][]byte{"mem://forge": archiveBytes}}
	store := newTestStore(t)

	result := New(fetcher, store).Run(context.Background(), Request{
		Identity: testIdentity,
		Locator:  "mem://forge",
	})

	require.True(t, result.Failed())
	assert.Equal(t, StateValidating, result.State)

	verr, ok := domain.AsValidationError(result.Err)
	require.True(t, ok)
	assert.Equal(t, domain.KindMalformed, verr.Kind)
}

func TestPipeline_PersistenceError(t *testing.T) {
	archiveBytes := buildArchive(t, map[string]string{"kit.yml": validManifest})
	fetcher := &fakeFetcher{archives: map[string][]byte{"mem://forge": archiveBytes}}

	result := New(fetcher, &failingStore{}).Run(context.Background(), Request{
		Identity: testIdentity,
		Locator:  "mem://forge",
	})

	require.True(t, result.Failed())
	assert.Equal(t, StatePersisting, result.State)
	assert.ErrorIs(t, result.Err, domain.ErrPersistFailed)
}
