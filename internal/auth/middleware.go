package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type contextKey int

const claimsContextKey contextKey = iota

// ClaimsFromContext extracts the authenticated claims from the request
// context. Returns nil for unauthenticated requests.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey).(*Claims)
	return claims
}

// Gate is the per-request credential state machine. Every request ends in
// exactly one of: proceed with the original claims, proceed with rotated
// claims and a rewritten Authorization header, or a 4xx/5xx rejection.
//
// Two requests racing near a token's expiry can each mint a refreshed token
// for the same subject; both are valid and there is no server-side
// single-session enforcement. That session fork is a documented property of
// the design, acceptable because there is no revocation list.
type Gate struct {
	authority *Authority
	now       func() time.Time
}

// NewGate creates the auth gate over a token authority.
func NewGate(authority *Authority) *Gate {
	return &Gate{authority: authority, now: time.Now}
}

// Middleware returns an HTTP middleware enforcing the credential lifecycle.
func (g *Gate) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractBearerToken(r)
			if tokenString == "" {
				log.Warn().Msg("Missing Authorization header")
				writeError(w, http.StatusBadRequest, "missing credentials")
				return
			}

			claims, err := g.authority.Validate(tokenString)
			if err != nil {
				log.Warn().Err(err).Msg("Invalid token")
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			now := g.now()
			switch {
			case claims.Refreshable(now):
				// Inside the rotation window, expired or not: mint a
				// replacement for the same subject and serve the request
				// with the rotated claims.
				newToken, err := g.authority.Issue(claims.Subject)
				if err != nil {
					log.Error().Err(err).Msg("Token refresh failed")
					writeError(w, http.StatusInternalServerError, "token issuance failed")
					return
				}
				newClaims, err := g.authority.Validate(newToken)
				if err != nil {
					log.Error().Err(err).Msg("Refreshed token failed validation")
					writeError(w, http.StatusInternalServerError, "token issuance failed")
					return
				}

				w.Header().Set("Authorization", "Bearer "+newToken)
				ctx := context.WithValue(r.Context(), claimsContextKey, newClaims)

				log.Debug().Str("subject", claims.Subject).Msg("Token refreshed")
				next.ServeHTTP(w, r.WithContext(ctx))

			case !claims.Expired(now):
				ctx := context.WithValue(r.Context(), claimsContextKey, claims)
				next.ServeHTTP(w, r.WithContext(ctx))

			default:
				log.Warn().Str("subject", claims.Subject).Msg("Token expired")
				writeError(w, http.StatusUnauthorized, "expired token")
			}
		})
	}
}

// extractBearerToken extracts the token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return parts[1]
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
