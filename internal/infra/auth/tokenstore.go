package auth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// tokenBytes gives 256 bits of entropy per opaque token.
const tokenBytes = 32

// TokenStore holds legacy opaque admin tokens in process memory. Multiple
// tokens may be valid at once (multi-device admin). Lookups are read-only:
// the TTL is fixed at issuance, never extended by use.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
	ttl    time.Duration

	now func() time.Time
}

func NewTokenStore(ttl time.Duration) *TokenStore {
	return &TokenStore{
		tokens: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a new opaque token and returns it with its lifetime.
func (s *TokenStore) Issue() (token string, expiresIn time.Duration, err error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", 0, err
	}
	token = base64.RawURLEncoding.EncodeToString(raw)

	s.mu.Lock()
	s.tokens[token] = s.now().Add(s.ttl)
	s.mu.Unlock()

	return token, s.ttl, nil
}

// Validate reports whether the token is known and its expiry is strictly in
// the future.
func (s *TokenStore) Validate(token string) bool {
	s.mu.RLock()
	expiry, ok := s.tokens[token]
	s.mu.RUnlock()
	return ok && expiry.After(s.now())
}

// Revoke removes a token. Revoking an absent or already-revoked token is a
// no-op, not an error.
func (s *TokenStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// Cleanup removes expired entries and returns how many were purged. Pure
// memory hygiene: Validate already checks expiry, so running this at any
// cadence, or never, is safe.
func (s *TokenStore) Cleanup() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for token, expiry := range s.tokens {
		if !expiry.After(now) {
			delete(s.tokens, token)
			purged++
		}
	}
	return purged
}
