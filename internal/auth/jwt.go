package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kitreg/kitreg/internal/domain"
)

// TokenIssuer is the issuer claim on tokens this registry signs and accepts.
const TokenIssuer = "kitreg"

// JWTVerifier verifies HS256 tokens carrying the uploader identity in their
// claims (sub for the id, email for the address).
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier builds a verifier over a shared signing secret.
func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: jwt secret must not be empty", domain.ErrInvalidConfig)
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

func (v *JWTVerifier) Verify(token string) (*Identity, error) {
	if token == "" {
		return nil, domain.ErrMissingToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(TokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	email, _ := claims["email"].(string)
	return &Identity{ID: sub, Email: email}, nil
}

// SignIdentity mints a token the verifier accepts. A zero expiry produces a
// token with no exp claim.
func SignIdentity(secret string, id Identity, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   id.ID,
		"email": id.Email,
		"iss":   TokenIssuer,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
	}
	if expiry > 0 {
		claims["exp"] = now.Add(expiry).Unix()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Chain combines verifiers; the first one to verify the token wins. The
// last verifier's error is returned when none accepts it.
func Chain(verifiers ...Verifier) Verifier {
	return chainVerifier(verifiers)
}

type chainVerifier []Verifier

func (c chainVerifier) Verify(token string) (*Identity, error) {
	err := error(domain.ErrUnknownToken)
	for _, v := range c {
		var id *Identity
		id, err = v.Verify(token)
		if err == nil {
			return id, nil
		}
	}
	return nil, err
}
