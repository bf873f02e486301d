package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/arpitk/portfolio-backend/internal/infra/auth"
	"github.com/arpitk/portfolio-backend/internal/infra/http/middleware"
)

// AuthHandler issues, validates and revokes admin credentials. Two schemes
// are served: signed claims tokens (current) and opaque legacy tokens kept
// for older dashboard builds.
type AuthHandler struct {
	AdminSecret string
	TokenStore  *auth.TokenStore
	Codec       *auth.ClaimsCodec
	Gate        *auth.Gate
}

func NewAuthHandler(adminSecret string, store *auth.TokenStore, codec *auth.ClaimsCodec, gate *auth.Gate) *AuthHandler {
	return &AuthHandler{
		AdminSecret: adminSecret,
		TokenStore:  store,
		Codec:       codec,
		Gate:        gate,
	}
}

// Login authenticates with the admin password and returns a claims token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	password, ok := h.password(w, r)
	if !ok {
		return
	}
	if h.AdminSecret == "" || password != h.AdminSecret {
		middleware.RecordAuthFailure("bad_password")
		writeError(w, http.StatusUnauthorized, "Invalid admin credentials")
		return
	}

	token, expiresIn, err := h.Codec.Issue("admin", auth.RoleAdmin)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(expiresIn / time.Second),
	})
}

// LegacyLogin authenticates with the admin password and returns an opaque
// token. Kept for callers that predate the claims scheme.
func (h *AuthHandler) LegacyLogin(w http.ResponseWriter, r *http.Request) {
	password, ok := h.password(w, r)
	if !ok {
		return
	}
	if h.AdminSecret == "" || password != h.AdminSecret {
		middleware.RecordAuthFailure("bad_password")
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, expiresIn, err := h.TokenStore.Issue()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"is_admin":         true,
		"admin_token":      token,
		"expires_in":       int(expiresIn / time.Second),
		"expiry_timestamp": time.Now().Add(expiresIn).Unix(),
	})
}

// Logout revokes a legacy token. Idempotent: revoking an unknown token still
// reports logged_out. Claims tokens cannot be revoked before expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("admin_token")
	if token == "" {
		var body struct {
			AdminToken string `json:"admin_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			token = body.AdminToken
		}
	}

	h.TokenStore.Revoke(token)
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "logged_out",
		"message": "Legacy token revoked",
	})
}

// Validate probes legacy credentials (admin_key or admin_token query params).
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	creds := auth.Credentials{
		Secret:      r.URL.Query().Get("admin_key"),
		LegacyToken: r.URL.Query().Get("admin_token"),
	}
	if _, err := h.Gate.Authorize(creds); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"is_admin": true, "auth_type": "legacy"})
}

// Me returns the identity behind the current admin credential.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"user":      identity.Subject,
		"role":      identity.Role,
		"auth_type": identity.Scheme,
	})
}

func (h *AuthHandler) password(w http.ResponseWriter, r *http.Request) (string, bool) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var body struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return "", false
		}
		return body.Password, true
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return "", false
	}
	return r.PostForm.Get("password"), true
}
