// Package auth verifies bearer credentials into opaque identities. The
// ingestion pipeline trusts whatever identity it is handed; all
// authorization happens here, in front of it.
package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/kitreg/kitreg/internal/domain"
)

// Identity is a verified uploader identity supplied to ingestion.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Verifier exchanges an opaque bearer credential for a verified identity.
type Verifier interface {
	Verify(token string) (*Identity, error)
}

// StaticVerifier verifies tokens against a fixed table loaded from
// configuration. Comparison is constant-time per candidate token.
type StaticVerifier struct {
	tokens []staticToken
}

type staticToken struct {
	token    string
	identity Identity
}

// TokenEntry is one configured credential.
type TokenEntry struct {
	Token string `mapstructure:"token" yaml:"token"`
	ID    string `mapstructure:"id" yaml:"id"`
	Email string `mapstructure:"email" yaml:"email"`
}

// NewStaticVerifier builds a verifier from configured token entries.
func NewStaticVerifier(entries []TokenEntry) (*StaticVerifier, error) {
	v := &StaticVerifier{}
	for _, e := range entries {
		if e.Token == "" || e.ID == "" {
			return nil, fmt.Errorf("%w: auth token entries need token and id", domain.ErrInvalidConfig)
		}
		v.tokens = append(v.tokens, staticToken{
			token:    e.Token,
			identity: Identity{ID: e.ID, Email: e.Email},
		})
	}
	return v, nil
}

func (v *StaticVerifier) Verify(token string) (*Identity, error) {
	if token == "" {
		return nil, domain.ErrMissingToken
	}
	for _, t := range v.tokens {
		if subtle.ConstantTimeCompare([]byte(token), []byte(t.token)) == 1 {
			id := t.identity
			return &id, nil
		}
	}
	return nil, domain.ErrUnknownToken
}

// FromHeader extracts the bearer token from an Authorization header value.
func FromHeader(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
