package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// ValidateToken decodes token without verifying its signature and checks
// that its exp claim lies strictly after now. The server owns the signing
// key; the client only needs to know whether sending the token is useful.
func ValidateToken(token string, now time.Time) error {
	if token == "" {
		return ErrInvalidToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ErrInvalidToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ErrInvalidToken
	}
	if !exp.After(now) {
		return ErrExpiredToken
	}
	return nil
}
