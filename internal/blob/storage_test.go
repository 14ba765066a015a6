package blob

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitreg/kitreg/internal/domain"
	"github.com/kitreg/kitreg/pkg/checksum"
)

func TestFilesystemStore_PutOpen(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	data := []byte("archive content")
	locator, err := store.Put(data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(locator, "file://"))
	assert.Contains(t, locator, checksum.Sum(data))

	r, err := store.Open(locator)
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestFilesystemStore_ContentAddressed(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Put([]byte("same bytes"))
	require.NoError(t, err)
	second, err := store.Put([]byte("same bytes"))
	require.NoError(t, err)

	// Identical content lands at the identical locator.
	assert.Equal(t, first, second)

	other, err := store.Put([]byte("other bytes"))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestFilesystemStore_OpenMissing(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("file:///nonexistent/blob")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
}
