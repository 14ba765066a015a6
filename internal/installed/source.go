// Package installed supplies the list of kits present in the local
// environment. The resolution engine treats this as read-only input.
package installed

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/kitreg/kitreg/internal/domain"
	"gopkg.in/yaml.v3"
)

// Source yields the current installed set.
type Source interface {
	List() ([]domain.InstalledKit, error)
}

// FileSource reads the installed set from a YAML state file. A missing file
// means nothing is installed, not an error.
type FileSource struct {
	Path string
}

type stateFile struct {
	Kits []domain.InstalledKit `yaml:"kits"`
}

func (s *FileSource) List() ([]domain.InstalledKit, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("No installed state file", "path", s.Path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read installed state: %w", err)
	}

	var state stateFile
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse installed state: %w", err)
	}
	return state.Kits, nil
}

// Static wraps a fixed in-memory installed set. It stands in for FileSource
// when no state file is configured.
type Static []domain.InstalledKit

func (s Static) List() ([]domain.InstalledKit, error) {
	return s, nil
}

// Open picks the source for a configured state file path. An empty path
// means install tracking is off and nothing is ever reported installed.
func Open(path string) Source {
	if path == "" {
		return Static(nil)
	}
	return &FileSource{Path: path}
}
