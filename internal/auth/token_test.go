package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestNewAuthority(t *testing.T) {
	t.Run("accepts a 32 byte secret", func(t *testing.T) {
		_, err := NewAuthority(testSecret)
		require.NoError(t, err)
	})

	t.Run("rejects a short secret", func(t *testing.T) {
		_, err := NewAuthority([]byte("too-short"))
		require.Error(t, err)
	})
}

func TestAuthority_IssueValidate(t *testing.T) {
	authority, err := NewAuthority(testSecret)
	require.NoError(t, err)

	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	authority.now = func() time.Time { return issued }

	t.Run("round trip preserves subject and expiry", func(t *testing.T) {
		token, err := authority.Issue("user-1")
		require.NoError(t, err)

		claims, err := authority.Validate(token)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.Subject)
		require.Equal(t, issued.Add(TokenExpiry), claims.ExpiresAt)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := authority.Validate("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered token", func(t *testing.T) {
		token, err := authority.Issue("user-1")
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig)

		_, err = authority.Validate(tampered)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other, err := NewAuthority([]byte("ffffffffffffffffffffffffffffffff"))
		require.NoError(t, err)
		token, err := other.Issue("user-1")
		require.NoError(t, err)

		_, err = authority.Validate(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token still decodes", func(t *testing.T) {
		token, err := authority.Issue("user-1")
		require.NoError(t, err)

		// Validation skips expiry on purpose: the gate classifies expiry.
		claims, err := authority.Validate(token)
		require.NoError(t, err)
		require.True(t, claims.Expired(issued.Add(TokenExpiry+time.Minute)))
	})
}

func TestClaims_Predicates(t *testing.T) {
	exp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	claims := Claims{Subject: "user-1", ExpiresAt: exp}

	tests := []struct {
		name        string
		now         time.Time
		expired     bool
		refreshable bool
	}{
		{"well before expiry", exp.Add(-2 * time.Hour), false, false},
		{"just inside the window before expiry", exp.Add(-30 * time.Minute), false, true},
		{"just after expiry", exp.Add(30 * time.Minute), true, true},
		{"past the refresh window", exp.Add(2 * time.Hour), true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expired, claims.Expired(tt.now))
			require.Equal(t, tt.refreshable, claims.Refreshable(tt.now))
		})
	}
}
