// Package auth gates mutating operations behind the shared authentication
// code.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
)

// ErrEmptySecret is returned when the verifier is built without a secret.
var ErrEmptySecret = errors.New("auth: authentication code is not configured")

// Verify reports whether supplied equals expected. The comparison runs in
// time independent of where the first mismatch occurs. An empty supplied
// value never matches.
func Verify(supplied, expected string) bool {
	if supplied == "" || expected == "" {
		return false
	}
	// Hash first so the compared slices always have equal length and the
	// secret's length does not leak through ConstantTimeCompare.
	a := sha256.Sum256([]byte(supplied))
	b := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// Verifier holds the process-wide secret.
type Verifier struct {
	secret   string
	sessions *SessionIssuer
}

// NewVerifier checks credentials against secret, which must not be empty.
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Verifier{secret: secret}, nil
}

// WithSessions returns a copy of v that also accepts tokens minted by issuer.
func (v *Verifier) WithSessions(issuer *SessionIssuer) *Verifier {
	return &Verifier{secret: v.secret, sessions: issuer}
}

// Verify accepts the raw authentication code or, when sessions are enabled,
// a valid session token.
func (v *Verifier) Verify(credential string) bool {
	if Verify(credential, v.secret) {
		return true
	}
	if v.sessions == nil || credential == "" {
		return false
	}
	return v.sessions.Valid(credential)
}
