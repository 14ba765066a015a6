package blob

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitreg/kitreg/internal/domain"
)

func TestLocatorFetcher_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kit.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("archive bytes"), 0o644))

	f := NewLocatorFetcher()

	data, err := f.Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, []byte("archive bytes"), data)

	// A bare path works too.
	data, err = f.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []byte("archive bytes"), data)
}

func TestLocatorFetcher_FileMissing(t *testing.T) {
	f := NewLocatorFetcher()

	_, err := f.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.tar.gz"))
	assert.ErrorIs(t, err, domain.ErrDownloadFailed)
}

func TestLocatorFetcher_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("served bytes"))
	}))
	defer srv.Close()

	f := NewLocatorFetcher()

	data, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("served bytes"), data)
}

func TestLocatorFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewLocatorFetcher()

	_, err := f.Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, domain.ErrDownloadFailed)
}

func TestLocatorFetcher_UnsupportedScheme(t *testing.T) {
	f := NewLocatorFetcher()

	_, err := f.Fetch(context.Background(), "ftp://example.com/kit.tar.gz")
	assert.ErrorIs(t, err, domain.ErrUnsupportedScheme)
}
