package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business-level errors that can occur in the system.
// These errors are used across layers to communicate specific failure conditions.
var (
	// Ingestion errors
	ErrDownloadFailed   = errors.New("archive download failed")
	ErrManifestNotFound = errors.New("manifest not found in archive")
	ErrEntryNotFound    = errors.New("entry not found in archive")
	ErrPersistFailed    = errors.New("failed to persist catalog record")
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// Auth errors
	ErrUnauthorized    = errors.New("unauthorized")
	ErrMissingToken    = errors.New("missing bearer token")
	ErrUnknownToken    = errors.New("unknown bearer token")
	ErrMissingIdentity = errors.New("no verified identity")

	// Blob errors
	ErrBlobNotFound      = errors.New("blob not found")
	ErrInvalidLocator    = errors.New("invalid archive locator")
	ErrUnsupportedScheme = errors.New("unsupported locator scheme")

	// Config errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationKind distinguishes manifest validation failures so callers can
// react to each kind differently.
type ValidationKind string

const (
	KindMalformed    ValidationKind = "malformed_manifest"
	KindNotAnObject  ValidationKind = "not_an_object"
	KindMissingField ValidationKind = "missing_field"
)

// ValidationError is a fatal manifest validation failure. Any validation
// error aborts ingestion; no partial catalog record is ever written.
type ValidationError struct {
	Kind  ValidationKind
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("invalid manifest: missing required field %q", e.Field)
	case KindNotAnObject:
		return "invalid manifest: document is not a mapping"
	default:
		if e.Err != nil {
			return fmt.Sprintf("invalid manifest: %v", e.Err)
		}
		return "invalid manifest"
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }

// AsValidationError unwraps err into a *ValidationError if one is present
// anywhere in its chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
