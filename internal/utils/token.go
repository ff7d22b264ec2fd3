package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewAccessToken signs an HS256 access token whose subject is the account ID.
func NewAccessToken(secret string, accountID uint, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": accountID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
		"typ": "access",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
