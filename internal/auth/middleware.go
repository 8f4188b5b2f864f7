package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/unixplore/apiserver/internal/logutil"
)

// AccountResolver re-checks that a token's subject still exists in the
// credential store. Tokens are stateless, so this is the only guard
// against accounts removed after issuance.
type AccountResolver interface {
	AccountExists(ctx context.Context, identity Identity) (bool, error)
}

type contextKey string

const contextIdentityKey contextKey = "identity"

// IdentityFromContext returns the identity attached by Require.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(contextIdentityKey).(Identity)
	return identity, ok
}

// Require builds middleware gating routes to bearers of a valid token
// with the given role. The resolved identity is attached to the request
// context. Every rejection is a 401; only the missing-header case gets
// its own message, since it reveals nothing about any account.
func Require(secret []byte, role string, resolver AccountResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w, "No token provided")
				return
			}

			identity, err := ParseToken(tokenString, secret)
			if err != nil || identity.Role != role {
				writeUnauthorized(w, "Invalid token")
				return
			}

			exists, err := resolver.AccountExists(r.Context(), identity)
			if err != nil {
				logger := logutil.GetOrDefault(r.Context())
				logger.Error().Err(err).
					Str("role", identity.Role).
					Msg("account re-check failed")
				writeJSONError(w, http.StatusInternalServerError, "Server error")
				return
			}
			if !exists {
				writeUnauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), contextIdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeJSONError(w, http.StatusUnauthorized, message)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{Success: false, Error: message})
}
