package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arpitk/portfolio-backend/internal/entity"
)

func newTestGate(t *testing.T) (*Gate, *TokenStore, *ClaimsCodec) {
	t.Helper()
	store := NewTokenStore(time.Hour)
	codec := NewClaimsCodec("jwt-secret", time.Hour)
	gate := NewGate(
		NewSecretVerifier("admin-secret"),
		NewLegacyTokenVerifier(store),
		NewClaimsVerifier(codec),
	)
	return gate, store, codec
}

func TestGateNoCredentials(t *testing.T) {
	gate, _, _ := newTestGate(t)

	_, err := gate.Authorize(Credentials{})
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestGateSecretScheme(t *testing.T) {
	gate, _, _ := newTestGate(t)

	identity, err := gate.Authorize(Credentials{Secret: "admin-secret"})
	assert.NoError(t, err)
	assert.Equal(t, "secret", identity.Scheme)
	assert.Equal(t, RoleAdmin, identity.Role)

	_, err = gate.Authorize(Credentials{Secret: "wrong"})
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestGateUnconfiguredSecretNeverMatches(t *testing.T) {
	gate := NewGate(NewSecretVerifier(""))

	_, err := gate.Authorize(Credentials{Secret: ""})
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
	_, err = gate.Authorize(Credentials{Secret: "anything"})
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestGateLegacyTokenScheme(t *testing.T) {
	gate, store, _ := newTestGate(t)

	token, _, err := store.Issue()
	assert.NoError(t, err)

	identity, err := gate.Authorize(Credentials{LegacyToken: token})
	assert.NoError(t, err)
	assert.Equal(t, "legacy", identity.Scheme)

	store.Revoke(token)
	_, err = gate.Authorize(Credentials{LegacyToken: token})
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestGateClaimsScheme(t *testing.T) {
	gate, _, codec := newTestGate(t)

	token, _, err := codec.Issue("admin", RoleAdmin)
	assert.NoError(t, err)

	identity, err := gate.Authorize(Credentials{BearerToken: token})
	assert.NoError(t, err)
	assert.Equal(t, "jwt", identity.Scheme)
	assert.Equal(t, "admin", identity.Subject)
}

func TestGateValidTokenWrongRoleIsForbidden(t *testing.T) {
	gate, _, codec := newTestGate(t)

	token, _, err := codec.Issue("viewer", "viewer")
	assert.NoError(t, err)

	_, err = gate.Authorize(Credentials{BearerToken: token})
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestGateForbiddenIsTerminal(t *testing.T) {
	// claims verifier first so the forbidden outcome is reached before a
	// later scheme could be consulted
	store := NewTokenStore(time.Hour)
	codec := NewClaimsCodec("jwt-secret", time.Hour)
	gate := NewGate(NewClaimsVerifier(codec), NewLegacyTokenVerifier(store))

	legacy, _, err := store.Issue()
	assert.NoError(t, err)
	bearer, _, err := codec.Issue("viewer", "viewer")
	assert.NoError(t, err)

	_, err = gate.Authorize(Credentials{BearerToken: bearer, LegacyToken: legacy})
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestGateFirstAllowWins(t *testing.T) {
	gate, store, _ := newTestGate(t)

	legacy, _, err := store.Issue()
	assert.NoError(t, err)

	identity, err := gate.Authorize(Credentials{Secret: "admin-secret", LegacyToken: legacy})
	assert.NoError(t, err)
	assert.Equal(t, "secret", identity.Scheme)
}

func TestGateFallsThroughInapplicableSchemes(t *testing.T) {
	gate, _, codec := newTestGate(t)

	token, _, err := codec.Issue("admin", RoleAdmin)
	assert.NoError(t, err)

	// only a bearer token present: secret and legacy verifiers pass it by
	identity, err := gate.Authorize(Credentials{BearerToken: token})
	assert.NoError(t, err)
	assert.Equal(t, "jwt", identity.Scheme)
}
