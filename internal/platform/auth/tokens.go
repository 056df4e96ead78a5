package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const defaultAdminTokenTTL = 12 * time.Hour

// TokenIssuer mints HS256 bearer tokens accepted by RequireUser/RequireAdmin.
type TokenIssuer struct {
	Secret []byte
	TTL    time.Duration
}

// NewAdminToken issues a token with role=admin. Pass a zero time to use now.
func (s TokenIssuer) NewAdminToken(now time.Time) (string, time.Time, error) {
	if len(s.Secret) == 0 {
		return "", time.Time{}, errors.New("missing jwt secret")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = defaultAdminTokenTTL
	}
	exp := now.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: "admin",
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
