// Package auth implements the session token lifecycle: issuing and
// validating signed claims, and the per-request gate that classifies a
// credential as valid, refreshable, or expired and rotates it near expiry.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenExpiry is the lifetime of an issued token.
	TokenExpiry = 5 * time.Hour

	// RefreshWindow is how close to expiry (on either side) a token is
	// silently rotated instead of passed through or rejected.
	RefreshWindow = 1 * time.Hour
)

// ErrInvalidToken is returned when a token cannot be decoded or its
// signature does not verify.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed session payload: the subject and its expiry. A
// Claims value is immutable once issued; refreshing produces a new token,
// never a mutation.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry has passed.
func (c Claims) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Refreshable reports whether the token is inside the rotation window:
// nearing expiry or expired for less than the window.
func (c Claims) Refreshable(now time.Time) bool {
	return now.After(c.ExpiresAt.Add(-RefreshWindow)) && now.Before(c.ExpiresAt.Add(RefreshWindow))
}

// Authority issues and validates signed session tokens (HS256 over
// registered sub/exp claims).
type Authority struct {
	secret []byte
	now    func() time.Time
}

// NewAuthority creates a token authority. The signing secret must be at
// least 32 bytes for HMAC-SHA256.
func NewAuthority(secret []byte) (*Authority, error) {
	if len(secret) < 32 {
		return nil, errors.New("signing secret must be at least 32 bytes")
	}
	return &Authority{secret: secret, now: time.Now}, nil
}

// Issue produces a signed token for the subject, expiring TokenExpiry from
// now.
func (a *Authority) Issue(subject string) (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate decodes and signature-checks a token. Expiry is NOT checked
// here: the gate classifies expiry itself so it can distinguish refreshable
// from dead tokens.
func (a *Authority) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("invalid signing method")
		}
		return a.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	return &Claims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
