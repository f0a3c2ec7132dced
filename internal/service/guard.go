package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gatehouse-sec/gatehouse/internal/acl"
	"github.com/gatehouse-sec/gatehouse/internal/audit"
	"github.com/gatehouse-sec/gatehouse/internal/core"
	"github.com/gatehouse-sec/gatehouse/internal/csrf"
)

// Guard is the main service combining the ACL rule set and the CSRF token
// service behind one decision surface.
type Guard struct {
	manager *acl.Manager
	tokens  *csrf.Service
	keyring *csrf.Keyring
	auditor core.Auditor
}

func NewGuard(
	manager *acl.Manager,
	tokens *csrf.Service,
	keyring *csrf.Keyring,
	auditor core.Auditor,
) *Guard {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}
	return &Guard{
		manager: manager,
		tokens:  tokens,
		keyring: keyring,
		auditor: auditor,
	}
}

// Manager exposes the ACL manager for admin surfaces.
func (g *Guard) Manager() *acl.Manager {
	return g.manager
}

// Check decides whether the request is permitted. For mutating requests the
// anti-forgery token is verified first: a forged request is denied
// regardless of what the ACL would say. Check never fails open; every
// internal fault resolves to Deny.
func (g *Guard) Check(ctx context.Context, req CheckRequest) Decision {
	logger := log.Ctx(ctx)
	reqID := correlationID(ctx)

	auditEntry := core.AuditEntry{
		ID:          reqID,
		Time:        time.Now(),
		Action:      "access.check",
		PrincipalID: req.Principal.ID,
		Resource:    req.Resource,
		Effect:      core.Deny,
	}
	defer func() {
		if err := g.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for access check")
		}
	}()

	logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("sub", req.Principal.ID).Str("resource", req.Resource)
	})

	if req.Mutating {
		auditEntry.TokenFingerprint = audit.TokenFingerprint(req.CSRFToken)

		secret, ok := g.keyring.Get(req.SessionID)
		if !ok || !g.tokens.Verify(secret, req.csrfAction(), req.CSRFToken) {
			// uniform outcome: no hint whether the session, the token or
			// the action binding was at fault
			auditEntry.Error = "csrf verification failed"
			logger.Warn().Msg("mutating request rejected before policy evaluation")
			return Decision{Effect: core.Deny, CorrelationID: reqID}
		}
	}

	evalCtx := core.NewContext(req.Principal, core.Resource(req.Resource), req.Attributes)
	effect, entry := g.manager.Current().Decide(evalCtx)

	auditEntry.Effect = effect
	if entry != nil {
		auditEntry.EntryName = entry.Name
	}

	logger.Debug().
		Str("effect", effect.String()).
		Str("entry", auditEntry.EntryName).
		Msg("access evaluated")

	return Decision{
		Effect:        effect,
		EntryName:     auditEntry.EntryName,
		CorrelationID: reqID,
	}
}

// Explain evaluates the request like Check, but returns the full per-entry
// trace. CSRF verification is skipped; Explain is a debugging surface for
// the ACL, not a decision path.
func (g *Guard) Explain(ctx context.Context, req CheckRequest) *core.EvaluationTrace {
	evalCtx := core.NewContext(req.Principal, core.Resource(req.Resource), req.Attributes)
	return g.manager.Current().EvaluateTrace(evalCtx, correlationID(ctx))
}

// CreateSession registers a fresh session secret and returns its
// identifier together with the secret. The hosting application stores the
// identifier with its session and keeps the secret server-side.
func (g *Guard) CreateSession(ctx context.Context) (string, []byte, error) {
	id, secret, err := g.keyring.Create()
	if err != nil {
		return "", nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("creating session: %w", err))
	}

	g.logAudit(ctx, core.AuditEntry{
		ID:     correlationID(ctx),
		Time:   time.Now(),
		Action: "csrf.session",
	})
	return id, secret, nil
}

// IssueToken mints an anti-forgery token bound to the session and action.
func (g *Guard) IssueToken(ctx context.Context, sessionID, action string) (string, error) {
	secret, ok := g.keyring.Get(sessionID)
	if !ok {
		return "", httpError(http.StatusUnauthorized, fmt.Errorf("unknown session"))
	}

	token, err := g.tokens.Issue(secret, action)
	if err != nil {
		return "", httpError(http.StatusInternalServerError,
			fmt.Errorf("issuing token: %w", err))
	}

	g.logAudit(ctx, core.AuditEntry{
		ID:               correlationID(ctx),
		Time:             time.Now(),
		Action:           "csrf.issue",
		Resource:         action,
		TokenFingerprint: audit.TokenFingerprint(token),
	})
	return token, nil
}

// VerifyToken checks an anti-forgery token. It returns only a verdict.
func (g *Guard) VerifyToken(ctx context.Context, sessionID, action, token string) bool {
	valid := false
	if secret, ok := g.keyring.Get(sessionID); ok {
		valid = g.tokens.Verify(secret, action, token)
	}

	entry := core.AuditEntry{
		ID:               correlationID(ctx),
		Time:             time.Now(),
		Action:           "csrf.verify",
		Resource:         action,
		TokenFingerprint: audit.TokenFingerprint(token),
	}
	if valid {
		entry.Effect = core.Allow
	} else {
		entry.Error = "csrf verification failed"
	}
	g.logAudit(ctx, entry)

	return valid
}

func (g *Guard) logAudit(ctx context.Context, entry core.AuditEntry) {
	if err := g.auditor.Log(entry); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to write audit log entry")
	}
}

func correlationID(ctx context.Context) string {
	if id, ok := ctx.Value("correlation_id").(string); ok && id != "" {
		return id
	}
	return xid.New().String()
}
