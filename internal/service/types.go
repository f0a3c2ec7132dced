package service

import "github.com/gatehouse-sec/gatehouse/internal/core"

// CheckRequest carries everything the Guard needs for one authorization
// decision. The hosting application marshals request state (headers, form
// fields, session lookup) into this value; the core never touches transport
// concerns itself.
type CheckRequest struct {
	// Principal is the authenticated identity, resolved upstream.
	Principal core.Principal

	// Resource names the action being attempted, e.g. "admin.users.delete".
	Resource string

	// Attributes are ambient request facts for predicate evaluation.
	Attributes map[string]any

	// Mutating marks state-changing requests, which must carry a valid
	// anti-forgery token before the ACL is even consulted.
	Mutating bool

	// SessionID selects the session secret used for CSRF verification.
	SessionID string

	// CSRFToken is the anti-forgery proof presented by the client.
	CSRFToken string

	// Action overrides the CSRF action identifier; defaults to Resource.
	Action string
}

func (r CheckRequest) csrfAction() string {
	if r.Action != "" {
		return r.Action
	}
	return r.Resource
}

// Decision is the outcome of a Check. It carries no failure detail beyond
// the effect itself: callers (and attackers) cannot distinguish a forged
// token from a denied rule.
type Decision struct {
	// Effect is allow or deny.
	Effect core.Effect `json:"effect"`

	// EntryName is the ACL entry that decided the outcome, empty for
	// default deny and for CSRF rejections.
	EntryName string `json:"entry_name,omitempty"`

	// CorrelationID ties the decision to logs and audit entries.
	CorrelationID string `json:"correlation_id,omitempty"`
}
