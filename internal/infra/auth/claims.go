package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "portfolio-backend"

// ErrInvalidToken indicates a claims token failed verification. The cause
// (bad signature, truncation, wrong algorithm, expiry) is deliberately not
// distinguished.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed payload carried by a stateless admin token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ClaimsCodec signs and verifies claims tokens with HS256. Tokens are
// self-contained: no server-side record exists, so they cannot be revoked
// before natural expiry.
type ClaimsCodec struct {
	secret []byte
	ttl    time.Duration

	now func() time.Time
}

func NewClaimsCodec(secret string, ttl time.Duration) *ClaimsCodec {
	return &ClaimsCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for the given subject and role.
func (c *ClaimsCodec) Issue(subject, role string) (token string, expiresIn time.Duration, err error) {
	now := c.now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", 0, err
	}
	return signed, c.ttl, nil
}

// Verify checks signature integrity and expiry and returns the claims.
func (c *ClaimsCodec) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != issuer || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
