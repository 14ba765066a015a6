// Package archive reads entries out of gzip-compressed tar archives, the
// container format for published kits.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/kitreg/kitreg/internal/domain"
	"github.com/kitreg/kitreg/pkg/manifest"
)

// ReadEntry streams the archive from r and returns the content of the named
// entry. Entry names are compared after stripping any leading "./"; only
// regular files match. Returns domain.ErrEntryNotFound when the archive has
// no such entry.
func ReadEntry(r io.Reader, entryPath string) ([]byte, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gz.Close()

	want := normalize(entryPath)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if normalize(hdr.Name) != want {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("failed to read entry %s: %w", entryPath, err)
		}
		return content, nil
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, entryPath)
}

// ReadManifest returns the raw bytes of the kit.yml entry at the archive
// root. Absence is domain.ErrManifestNotFound.
func ReadManifest(r io.Reader) ([]byte, error) {
	data, err := ReadEntry(r, manifest.FileName)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return nil, domain.ErrManifestNotFound
		}
		return nil, err
	}
	return data, nil
}

func normalize(p string) string {
	return path.Clean(strings.TrimPrefix(p, "./"))
}
