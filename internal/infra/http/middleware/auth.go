package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/arpitk/portfolio-backend/internal/entity"
	"github.com/arpitk/portfolio-backend/internal/infra/auth"
)

type ctxKey string

const identityKey ctxKey = "admin_identity"

// RequireAdmin guards admin-only routes behind the authorization gate.
// Credentials are read from the Authorization header (Bearer claims token)
// and from the admin_token / admin_key query parameters kept for legacy
// callers. Authorization runs before any business logic.
func RequireAdmin(gate *auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := gate.Authorize(credentialsFrom(r))
			if err != nil {
				if errors.Is(err, entity.ErrForbidden) {
					RecordAuthFailure("forbidden")
					writeAuthError(w, http.StatusForbidden, "forbidden")
					return
				}
				RecordAuthFailure("unauthorized")
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeAuthError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the identity stored by RequireAdmin.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*auth.Identity)
	return identity, ok
}

func credentialsFrom(r *http.Request) auth.Credentials {
	creds := auth.Credentials{
		Secret:      r.URL.Query().Get("admin_key"),
		LegacyToken: r.URL.Query().Get("admin_token"),
	}

	header := r.Header.Get("Authorization")
	if scheme, token, found := strings.Cut(header, " "); found && strings.EqualFold(scheme, "bearer") {
		creds.BearerToken = strings.TrimSpace(token)
	}

	return creds
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
