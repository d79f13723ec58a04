package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers every login failure; callers never learn
// which part was wrong.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

type service struct {
	adminEmail   string
	passwordHash []byte
	secret       []byte
}

// NewService builds the admin gate from environment-supplied settings. An
// empty password hash disables login entirely.
func NewService(adminEmail, passwordHash, secret string) Service {
	return &service{
		adminEmail:   adminEmail,
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
	}
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	if len(s.passwordHash) == 0 {
		return "", errors.New("auth: admin login not configured")
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil || !emailOK {
		return "", ErrInvalidCredentials
	}

	claims := jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *service) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", ErrInvalidCredentials
	}
	return claims.Subject, nil
}
