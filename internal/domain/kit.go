package domain

import "time"

// Manifest is the declared identity of a kit, parsed from the kit.yml
// document at the root of a published archive. Instances are produced only
// by the manifest codec's successful path; an unvalidated document never
// travels past the codec.
type Manifest struct {
	ID           string              `yaml:"id" json:"id"`
	Name         string              `yaml:"name" json:"name"`
	Version      string              `yaml:"version" json:"version"`
	Owner        string              `yaml:"owner" json:"owner"`
	Description  string              `yaml:"description,omitempty" json:"description,omitempty"`
	Workflows    map[string]Workflow `yaml:"workflows,omitempty" json:"workflows,omitempty"`
	Dependencies []string            `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Environment  []EnvVar            `yaml:"environment,omitempty" json:"environment,omitempty"`
}

// Workflow is a named command definition declared by a kit.
type Workflow struct {
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Run         string `yaml:"run" json:"run"`
}

// EnvVar declares an environment variable a kit expects at runtime.
type EnvVar struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Default     string `yaml:"default,omitempty" json:"default,omitempty"`
}

// CatalogRecord is one persisted publish event. Records are immutable once
// appended; there is no update or delete operation.
type CatalogRecord struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	FileSize    int64     `json:"fileSize"`
	DownloadURL string    `json:"downloadUrl"`
	Checksum    string    `json:"checksum"`
	Manifest    Manifest  `json:"manifest"`
	UploadedAt  time.Time `json:"uploadedAt"`
	UserID      string    `json:"userId"`
	UserEmail   string    `json:"userEmail"`
}

// GroupKey returns the logical package identity of a record, independent of
// version. Records with an empty manifest id fall back to the manifest name.
func (r CatalogRecord) GroupKey() (owner, id string) {
	id = r.Manifest.ID
	if id == "" {
		id = r.Manifest.Name
	}
	return r.Manifest.Owner, id
}

// InstalledKit describes a kit present in a local environment. It is
// supplied wholesale by an external source; the resolution engine only
// reads it.
type InstalledKit struct {
	Owner       string    `yaml:"owner" json:"owner"`
	KitID       string    `yaml:"kit_id" json:"kit_id"`
	Version     string    `yaml:"version" json:"version"`
	Name        string    `yaml:"name" json:"name"`
	Size        int64     `yaml:"size,omitempty" json:"size,omitempty"`
	InstalledAt time.Time `yaml:"installed_at,omitempty" json:"installed_at,omitempty"`
	UpdatedAt   time.Time `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`
	Environment []EnvVar  `yaml:"environment,omitempty" json:"environment,omitempty"`
}
