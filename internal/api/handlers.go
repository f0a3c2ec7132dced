package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gatehouse-sec/gatehouse/internal/api/presenter"
	"github.com/gatehouse-sec/gatehouse/internal/buildinfo"
	"github.com/gatehouse-sec/gatehouse/internal/core"
	"github.com/gatehouse-sec/gatehouse/internal/service"
)

// handleHealth responds with a simple OK status to indicate the server is healthy.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleAbout responds with service information including version and commit hash.
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, buildinfo.GetBuildInfo(), http.StatusOK)
}

func DecodePayload(r *http.Request, dest any, allowEmpty bool) error {
	switch r.Header.Get("Content-Type") {
	case "application/json", "":
		// strict encoding for JSON
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(dest); err != nil {
			if !errors.Is(err, io.EOF) || !allowEmpty {
				return err
			}
		}
		// ensure there's no extra data
		if dec.More() {
			return errors.New("extra data in request body")
		}
		return nil
	default:
		return errors.New("unsupported content type")
	}
}

// CheckPayload is the request body for access checks and explain requests.
type CheckPayload struct {
	// Principal is the pre-resolved identity the check runs for.
	Principal core.Principal `json:"principal"`

	// Resource names the action being attempted.
	Resource string `json:"resource"`

	// Attributes are ambient request facts for predicate evaluation.
	Attributes map[string]any `json:"attributes,omitempty"`

	// Mutating marks state-changing requests (CSRF-checked first).
	Mutating bool `json:"mutating,omitempty"`

	// SessionID and CSRFToken carry the anti-forgery proof for mutating
	// requests.
	SessionID string `json:"session_id,omitempty"`
	CSRFToken string `json:"csrf_token,omitempty"`

	// Action overrides the CSRF action identifier; defaults to Resource.
	Action string `json:"action,omitempty"`
}

func (p CheckPayload) Request() service.CheckRequest {
	return service.CheckRequest{
		Principal:  p.Principal,
		Resource:   p.Resource,
		Attributes: p.Attributes,
		Mutating:   p.Mutating,
		SessionID:  p.SessionID,
		CSRFToken:  p.CSRFToken,
		Action:     p.Action,
	}
}

// handleCheck runs one authorization decision.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload CheckPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode check request payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Resource == "" {
		presenter.Error(w, r, "missing resource", http.StatusBadRequest)
		return
	}

	decision := s.guard.Check(ctx, payload.Request())
	presenter.JSON(w, r, decision, http.StatusOK)
}

// handleExplain returns the full evaluation trace for a simulated check.
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload CheckPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode explain request payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	trace := s.guard.Explain(ctx, payload.Request())
	presenter.JSON(w, r, trace, http.StatusOK)
}

// handleListRules returns the active rule set in evaluation order.
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, s.guard.Manager().Current().Entries(), http.StatusOK)
}
