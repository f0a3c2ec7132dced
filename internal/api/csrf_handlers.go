package api

import (
	"encoding/base64"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gatehouse-sec/gatehouse/internal/api/presenter"
)

// SessionResponse is returned when a new session secret is registered.
// The secret is returned once and never again; the hosting application
// stores it server-side with its session record.
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Secret    string `json:"secret"` // base64url
}

// TokenPayload carries session and action for token operations.
type TokenPayload struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
	Token     string `json:"token,omitempty"`
}

// handleSession registers a fresh session secret.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, secret, err := s.guard.CreateSession(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("session creation failed")
		presenter.Err(w, r, err, "session creation failed")
		return
	}

	presenter.JSON(w, r, SessionResponse{
		SessionID: id,
		Secret:    base64.RawURLEncoding.EncodeToString(secret),
	}, http.StatusCreated)
}

// handleIssueToken mints an anti-forgery token for a session and action.
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload TokenPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode issue request payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.SessionID == "" || payload.Action == "" {
		presenter.Error(w, r, "missing session_id or action", http.StatusBadRequest)
		return
	}

	token, err := s.guard.IssueToken(ctx, payload.SessionID, payload.Action)
	if err != nil {
		logger.Warn().Err(err).Msg("token issuance failed")
		presenter.Err(w, r, err, "token issuance failed")
		return
	}

	presenter.JSON(w, r, map[string]string{"token": token}, http.StatusCreated)
}

// handleVerifyToken checks an anti-forgery token and returns only a verdict.
func (s *Server) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload TokenPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode verify request payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	valid := s.guard.VerifyToken(ctx, payload.SessionID, payload.Action, payload.Token)
	presenter.JSON(w, r, map[string]bool{"valid": valid}, http.StatusOK)
}
