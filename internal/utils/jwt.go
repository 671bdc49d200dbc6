package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionClaims is carried by the session cookie. The session id is the token id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// GenerateSessionToken signs the session id for use as a cookie value.
func GenerateSessionToken(sid string, ttl time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates a cookie value and returns the session id
func ParseSessionToken(tokenString string, secret string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSessionToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid || claims.ID == "" {
		return "", ErrInvalidSessionToken
	}

	return claims.ID, nil
}
