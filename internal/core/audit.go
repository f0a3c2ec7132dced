package core

import "time"

type AuditEntry struct {
	// ID is the unique request ID (X-Correlation-ID)
	ID string `json:"id"`

	// Time is the timestamp of the event
	Time time.Time `json:"time"`

	// Action describing what happened (e.g. "access.check", "csrf.verify")
	Action string `json:"action"`

	// PrincipalID identifies who made the request
	PrincipalID string `json:"principal_id,omitempty"`

	// Resource that was targeted
	Resource string `json:"resource,omitempty"`

	// Decision details
	Effect    Effect `json:"effect"`
	EntryName string `json:"entry_name,omitempty"`
	Error     string `json:"error,omitempty"`

	// TokenFingerprint is a digest of the CSRF token involved, if any.
	// Raw tokens are never written to the audit log.
	TokenFingerprint string `json:"token_fingerprint,omitempty"`

	// Metadata contains extra information
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Auditor interface {
	Log(entry AuditEntry) error
	Close() error
}
