// Package manifest parses and validates the kit.yml document bundled inside
// a published archive.
package manifest

import (
	"github.com/kitreg/kitreg/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the well-known manifest entry at the root of every kit archive.
const FileName = "kit.yml"

// requiredFields are checked in order so a manifest missing several fields
// reports the first one deterministically.
var requiredFields = []string{"id", "name", "version", "owner"}

// Parse decodes raw manifest bytes into a validated Manifest. It returns a
// *domain.ValidationError for every failure mode: malformed YAML, a document
// whose root is not a mapping, or a missing required field. A manifest that
// fails validation is fatal to ingestion; no partial result is returned.
func Parse(data []byte) (*domain.Manifest, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &domain.ValidationError{Kind: domain.KindMalformed, Err: err}
	}

	// An empty document unmarshals to a zero node with no content.
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, &domain.ValidationError{Kind: domain.KindNotAnObject}
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, &domain.ValidationError{Kind: domain.KindNotAnObject}
	}

	var m domain.Manifest
	if err := doc.Decode(&m); err != nil {
		return nil, &domain.ValidationError{Kind: domain.KindMalformed, Err: err}
	}

	for _, field := range requiredFields {
		if fieldValue(&m, field) == "" {
			return nil, &domain.ValidationError{Kind: domain.KindMissingField, Field: field}
		}
	}

	return &m, nil
}

func fieldValue(m *domain.Manifest, field string) string {
	switch field {
	case "id":
		return m.ID
	case "name":
		return m.Name
	case "version":
		return m.Version
	case "owner":
		return m.Owner
	}
	return ""
}
