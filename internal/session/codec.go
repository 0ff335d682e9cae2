// Package session issues and verifies the signed session artifact carried in the session cookie.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
)

// MinSigningKeyLen is the minimum accepted HMAC key length in bytes.
const MinSigningKeyLen = 32

var (
	errUnexpectedAlg = errors.New("unexpected signing algorithm")
	errMissingClaims = errors.New("session artifact is missing required claims")
)

type sessionClaims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Codec signs and decodes session artifacts as HS256 JWTs carrying sid, sub, email, iat and exp.
// The key is fixed for the life of the process.
type Codec struct {
	key []byte
	now func() time.Time
}

// NewCodec returns a codec for key. now defaults to time.Now.
func NewCodec(key []byte, now func() time.Time) (*Codec, error) {
	if len(key) < MinSigningKeyLen {
		return nil, fmt.Errorf("session signing key must be at least %d bytes", MinSigningKeyLen)
	}
	if now == nil {
		now = time.Now
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Codec{key: k, now: now}, nil
}

// Encode signs s into a compact token.
func (c *Codec) Encode(s domainauth.Session) (string, error) {
	if s.ID == "" || s.UserID == "" {
		return "", errMissingClaims
	}
	claims := sessionClaims{
		SessionID: s.ID,
		Email:     s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Decode verifies raw's signature, algorithm and expiry and returns the session it describes.
func (c *Codec) Decode(raw string) (domainauth.Session, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("%w: %v", errUnexpectedAlg, t.Header["alg"])
		}
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("decode session: %w", err)
	}
	if claims.SessionID == "" || claims.Subject == "" || claims.Email == "" || claims.IssuedAt == nil {
		return domainauth.Session{}, errMissingClaims
	}
	return domainauth.Session{
		ID:        claims.SessionID,
		UserID:    claims.Subject,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
