package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitreg/kitreg/internal/catalog"
	"github.com/kitreg/kitreg/internal/domain"
	"github.com/kitreg/kitreg/pkg/checksum"
)

func TestClient_Publish(t *testing.T) {
	var gotAuth, gotFileName string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/kits", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotFileName = r.Header.Get("X-File-Name")
		gotBody, _ = io.ReadAll(r.Body)

		json.NewEncoder(w).Encode(PublishResult{
			Success: true,
			Message: "kit published",
			Record:  &domain.CatalogRecord{Checksum: checksum.Sum(gotBody)},
		})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "forge-1.0.0.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("archive bytes"), 0o644))

	client := NewClient(srv.URL, "tok")
	result, err := client.Publish(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "forge-1.0.0.tar.gz", gotFileName)
	assert.Equal(t, []byte("archive bytes"), gotBody)
}

func TestClient_PublishRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(PublishResult{
			Success: false,
			Message: "invalid manifest",
			Error:   "missing_field",
		})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "bad.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("bytes"), 0o644))

	client := NewClient(srv.URL, "tok")
	result, err := client.Publish(context.Background(), path)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "missing_field", result.Error)
}

func TestClient_PublishChecksumMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		json.NewEncoder(w).Encode(PublishResult{
			Success: true,
			Message: "kit published",
			Record:  &domain.CatalogRecord{Checksum: checksum.Sum([]byte("something else"))},
		})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "forge-1.0.0.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("archive bytes"), 0o644))

	client := NewClient(srv.URL, "tok")
	_, err := client.Publish(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrChecksumMismatch)
}

func TestClient_PublishUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "forge-1.0.0.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("archive bytes"), 0o644))

	client := NewClient(srv.URL, "bad-token")
	_, err := client.Publish(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/kits", r.URL.Path)
		assert.Equal(t, "acme", r.URL.Query().Get("owner"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "5", r.URL.Query().Get("skip"))

		json.NewEncoder(w).Encode(catalog.Page{
			Total:    1,
			Returned: 1,
			Records: []domain.CatalogRecord{
				{Manifest: domain.Manifest{ID: "forge", Owner: "acme", Version: "1.0.0"}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	page, err := client.List(context.Background(), "acme", 10, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "forge", page.Records[0].Manifest.ID)
}

func TestClient_ListServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.List(context.Background(), "", 0, 0)
	assert.Error(t, err)
}
