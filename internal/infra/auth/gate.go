// Package auth decides whether an admin request proceeds. Three verification
// schemes coexist so older callers keep working while newer ones migrate:
// a shared admin secret, server-side opaque tokens with a TTL, and stateless
// signed claims tokens.
package auth

import (
	"errors"

	"github.com/arpitk/portfolio-backend/internal/entity"
)

// RoleAdmin is the role claim required on admin endpoints.
const RoleAdmin = "admin"

// Credentials carries everything a request presented for authorization.
// Fields left empty are simply not applicable to the matching verifier.
type Credentials struct {
	Secret      string // admin_key query parameter
	LegacyToken string // admin_token query parameter
	BearerToken string // Authorization: Bearer value
}

// Identity describes who an allowed request is acting as.
type Identity struct {
	Subject string
	Role    string
	Scheme  string
}

// errNotApplicable signals that a verifier had nothing to check; the gate
// moves on to the next one. It never leaves this package.
var errNotApplicable = errors.New("credential not applicable")

// Verifier checks one credential scheme. It returns an Identity on allow,
// errNotApplicable when the request carries nothing for it to check, and
// entity.ErrUnauthorized or entity.ErrForbidden otherwise.
type Verifier interface {
	Verify(creds Credentials) (*Identity, error)
}

// Gate composes verifiers into a single allow/deny decision. Verifiers are
// tried in order and the first allow wins.
type Gate struct {
	verifiers []Verifier
}

func NewGate(verifiers ...Verifier) *Gate {
	return &Gate{verifiers: verifiers}
}

// Authorize runs the chain. A forbidden outcome is terminal: the credential
// was genuinely valid, so no later scheme may overrule it with a plain deny.
func (g *Gate) Authorize(creds Credentials) (*Identity, error) {
	for _, v := range g.verifiers {
		identity, err := v.Verify(creds)
		if err == nil {
			return identity, nil
		}
		if errors.Is(err, entity.ErrForbidden) {
			return nil, entity.ErrForbidden
		}
	}
	return nil, entity.ErrUnauthorized
}

// SecretVerifier compares a supplied secret against the configured admin
// secret. No lockout or backoff is applied at this layer; request-rate
// control lives in the HTTP surface.
type SecretVerifier struct {
	secret string
}

func NewSecretVerifier(secret string) *SecretVerifier {
	return &SecretVerifier{secret: secret}
}

func (v *SecretVerifier) Verify(creds Credentials) (*Identity, error) {
	if creds.Secret == "" {
		return nil, errNotApplicable
	}
	if v.secret == "" || creds.Secret != v.secret {
		return nil, entity.ErrUnauthorized
	}
	return &Identity{Subject: RoleAdmin, Role: RoleAdmin, Scheme: "secret"}, nil
}

// LegacyTokenVerifier checks opaque tokens against the in-memory store.
type LegacyTokenVerifier struct {
	store *TokenStore
}

func NewLegacyTokenVerifier(store *TokenStore) *LegacyTokenVerifier {
	return &LegacyTokenVerifier{store: store}
}

func (v *LegacyTokenVerifier) Verify(creds Credentials) (*Identity, error) {
	if creds.LegacyToken == "" {
		return nil, errNotApplicable
	}
	if !v.store.Validate(creds.LegacyToken) {
		return nil, entity.ErrUnauthorized
	}
	return &Identity{Subject: RoleAdmin, Role: RoleAdmin, Scheme: "legacy"}, nil
}

// ClaimsVerifier checks signed claims tokens. A validly-signed, non-expired
// token whose role is not admin is forbidden, not unauthorized.
type ClaimsVerifier struct {
	codec *ClaimsCodec
}

func NewClaimsVerifier(codec *ClaimsCodec) *ClaimsVerifier {
	return &ClaimsVerifier{codec: codec}
}

func (v *ClaimsVerifier) Verify(creds Credentials) (*Identity, error) {
	if creds.BearerToken == "" {
		return nil, errNotApplicable
	}
	claims, err := v.codec.Verify(creds.BearerToken)
	if err != nil {
		return nil, entity.ErrUnauthorized
	}
	if claims.Role != RoleAdmin {
		return nil, entity.ErrForbidden
	}
	return &Identity{Subject: claims.Subject, Role: claims.Role, Scheme: "jwt"}, nil
}
