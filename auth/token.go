package auth

import (
	"errors"
	"fmt"
	"time"

	"recipebox/apperr"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the identity of a logged-in user.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Tokens issues and verifies HS256 tokens with a fixed lifetime.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) TTL() time.Duration { return t.ttl }

// Issue signs a token for the user and returns it with its expiry.
func (t *Tokens) Issue(userID, email string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: userID,
		Email:  email,
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies signature and expiry. Every failure wraps apperr.ErrAuth.
func (t *Tokens) Parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperr.New(apperr.ErrAuth, "missing token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.New(apperr.ErrAuth, "token expired")
		}
		return nil, apperr.New(apperr.ErrAuth, "invalid token")
	}
	if !token.Valid || claims.UserID == "" {
		return nil, apperr.New(apperr.ErrAuth, "invalid token")
	}
	return claims, nil
}
