package auth

import (
	"crypto/sha256"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionSubject = "admin"

// SessionIssuer mints and checks short-lived admin session tokens so the
// authentication code does not have to travel with every request.
type SessionIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewSessionIssuer signs tokens with key. An empty key is derived from the
// authentication code.
func NewSessionIssuer(key, authCode string, ttl time.Duration) *SessionIssuer {
	k := []byte(key)
	if len(k) == 0 {
		sum := sha256.Sum256([]byte("session:" + authCode))
		k = sum[:]
	}
	return &SessionIssuer{key: k, ttl: ttl, now: time.Now}
}

// Issue returns a signed token and its expiry.
func (s *SessionIssuer) Issue() (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := &jwt.RegisteredClaims{
		Subject:   sessionSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Valid reports whether tokenString is an unexpired admin session.
func (s *SessionIssuer) Valid(tokenString string) bool {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return false
	}
	return claims.Subject == sessionSubject
}
