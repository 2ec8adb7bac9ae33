package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Team-NaBang/Bang-Backend/pkg/core/auth"
	"github.com/Team-NaBang/Bang-Backend/pkg/core/domain"
	"github.com/Team-NaBang/Bang-Backend/pkg/ports"
)

const sessionCookie = "auth_token"

// SessionHandler exchanges the authentication code for a session token.
type SessionHandler struct {
	codes        ports.CredentialVerifier
	sessions     *auth.SessionIssuer
	log          *zap.Logger
	isProduction bool
}

// NewSessionHandler takes a verifier of the raw code only, so a session
// token cannot be used to mint another one.
func NewSessionHandler(codes ports.CredentialVerifier, sessions *auth.SessionIssuer, log *zap.Logger, isProduction bool) *SessionHandler {
	return &SessionHandler{codes: codes, sessions: sessions, log: log, isProduction: isProduction}
}

type SessionRequest struct {
	AuthenticationCode string `json:"authentication_code"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := decodeBody(r, sessionSchema, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if !h.codes.Verify(req.AuthenticationCode) {
		h.log.Warn("session refused", zap.String("client", ClientIP(r)))
		writeError(w, r, h.log, domain.ErrUnauthorized)
		return
	}

	token, expires, err := h.sessions.Issue()
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	h.log.Info("session issued", zap.String("client", ClientIP(r)), zap.Time("expires_at", expires))
	writeJSON(w, http.StatusCreated, SessionResponse{Token: token, ExpiresAt: expires})
}

// Logout clears the session cookie. The token itself stays valid until it expires.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
