package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gatehouse-sec/gatehouse/internal/acl"
	"github.com/gatehouse-sec/gatehouse/internal/audit"
	"github.com/gatehouse-sec/gatehouse/internal/core"
	"github.com/gatehouse-sec/gatehouse/internal/csrf"
	"github.com/gatehouse-sec/gatehouse/internal/predicate"
)

func pred(p predicate.Predicate) *predicate.Predicate {
	return &p
}

func newTestGuard(t *testing.T) (*Guard, *audit.InMemoryAuditor) {
	t.Helper()

	manager, err := acl.NewManager([]acl.Entry{
		{
			Name:     "editors-on-posts",
			Effect:   core.Allow,
			Priority: 10,
			When: pred(predicate.AllOf(
				predicate.HasRole("editor"),
				predicate.OnResource("posts.*"),
			)),
		},
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	tokens, err := csrf.NewService(csrf.Params{})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	auditor := audit.NewInMemoryAuditor()
	return NewGuard(manager, tokens, csrf.NewKeyring(), auditor), auditor
}

func TestGuard_Check_NonMutating(t *testing.T) {
	guard, _ := newTestGuard(t)
	ctx := context.Background()

	editor := core.Principal{ID: "alice", Roles: []string{"editor"}}

	decision := guard.Check(ctx, CheckRequest{
		Principal: editor,
		Resource:  "posts.read",
	})
	if decision.Effect != core.Allow {
		t.Errorf("Check() = %v, want Allow", decision.Effect)
	}
	if decision.EntryName != "editors-on-posts" {
		t.Errorf("EntryName = %s", decision.EntryName)
	}
	if decision.CorrelationID == "" {
		t.Error("decision must carry a correlation id")
	}

	decision = guard.Check(ctx, CheckRequest{
		Principal: core.Principal{ID: "bob"},
		Resource:  "posts.read",
	})
	if decision.Effect != core.Deny {
		t.Errorf("Check() without role = %v, want Deny", decision.Effect)
	}
	if decision.EntryName != "" {
		t.Errorf("default deny must not name an entry, got %s", decision.EntryName)
	}
}

func TestGuard_Check_MutatingRequiresToken(t *testing.T) {
	guard, auditor := newTestGuard(t)
	ctx := context.Background()

	editor := core.Principal{ID: "alice", Roles: []string{"editor"}}

	sessionID, _, err := guard.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	token, err := guard.IssueToken(ctx, sessionID, "posts.create")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	tests := []struct {
		name string
		req  CheckRequest
		want core.Effect
	}{
		{
			name: "Valid Token Passes Through To ACL",
			req: CheckRequest{
				Principal: editor,
				Resource:  "posts.create",
				Mutating:  true,
				SessionID: sessionID,
				CSRFToken: token,
			},
			want: core.Allow,
		},
		{
			name: "Missing Token Denied Despite Allowing Rule",
			req: CheckRequest{
				Principal: editor,
				Resource:  "posts.create",
				Mutating:  true,
				SessionID: sessionID,
			},
			want: core.Deny,
		},
		{
			name: "Unknown Session Denied",
			req: CheckRequest{
				Principal: editor,
				Resource:  "posts.create",
				Mutating:  true,
				SessionID: "no-such-session",
				CSRFToken: token,
			},
			want: core.Deny,
		},
		{
			name: "Token Bound To Other Action Denied",
			req: CheckRequest{
				Principal: editor,
				Resource:  "posts.delete", // token was issued for posts.create
				Mutating:  true,
				SessionID: sessionID,
				CSRFToken: token,
			},
			want: core.Deny,
		},
		{
			name: "Explicit Action Override Honored",
			req: CheckRequest{
				Principal: editor,
				Resource:  "posts.update",
				Action:    "posts.create", // token action differs from the resource
				Mutating:  true,
				SessionID: sessionID,
				CSRFToken: token,
			},
			want: core.Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := guard.Check(ctx, tt.req)
			if decision.Effect != tt.want {
				t.Errorf("Check() = %v, want %v", decision.Effect, tt.want)
			}
			// a CSRF rejection must look like any other deny
			if tt.want == core.Deny && decision.EntryName != "" {
				t.Errorf("denied decision leaked entry name %s", decision.EntryName)
			}
		})
	}

	// the CSRF rejections must be audited with the failure recorded
	rejected, err := auditor.Find(func(e core.AuditEntry) bool {
		return e.Action == "access.check" && e.Error == "csrf verification failed"
	}, 100)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(rejected) != 3 {
		t.Errorf("audited %d csrf rejections, want 3", len(rejected))
	}
}

func TestGuard_Check_CSRFBeforeACL(t *testing.T) {
	// even a principal every rule denies gets the same CSRF rejection as
	// one the rules would allow; the ACL is never consulted without a token
	guard, auditor := newTestGuard(t)
	ctx := context.Background()

	for _, principal := range []core.Principal{
		{ID: "alice", Roles: []string{"editor"}},
		{ID: "mallory"},
	} {
		decision := guard.Check(ctx, CheckRequest{
			Principal: principal,
			Resource:  "posts.create",
			Mutating:  true,
			CSRFToken: "forged",
		})
		if decision.Effect != core.Deny {
			t.Errorf("Check() for %s = %v, want Deny", principal.ID, decision.Effect)
		}
		if decision.EntryName != "" {
			t.Errorf("CSRF rejection for %s leaked entry name", principal.ID)
		}
	}

	entries, err := auditor.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent() error = %v", err)
	}
	for _, e := range entries {
		if e.EntryName != "" {
			t.Errorf("audit entry for %s reached the ACL", e.PrincipalID)
		}
		if e.TokenFingerprint == "" {
			t.Error("audit entry missing token fingerprint")
		}
	}
}

func TestGuard_Explain(t *testing.T) {
	guard, _ := newTestGuard(t)

	trace := guard.Explain(context.Background(), CheckRequest{
		Principal: core.Principal{ID: "alice", Roles: []string{"editor"}},
		Resource:  "posts.read",
	})

	if trace.FinalEffect != core.Allow {
		t.Errorf("FinalEffect = %v, want Allow", trace.FinalEffect)
	}
	if trace.MatchedEntry != "editors-on-posts" {
		t.Errorf("MatchedEntry = %s", trace.MatchedEntry)
	}
	if len(trace.EntryResults) != 1 {
		t.Errorf("EntryResults = %d, want 1", len(trace.EntryResults))
	}
}

func TestGuard_VerifyToken(t *testing.T) {
	guard, _ := newTestGuard(t)
	ctx := context.Background()

	sessionID, _, err := guard.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	token, err := guard.IssueToken(ctx, sessionID, "settings.save")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	if !guard.VerifyToken(ctx, sessionID, "settings.save", token) {
		t.Error("valid token should verify")
	}
	if guard.VerifyToken(ctx, sessionID, "settings.reset", token) {
		t.Error("token must not verify for another action")
	}
	if guard.VerifyToken(ctx, "other-session", "settings.save", token) {
		t.Error("token must not verify for an unknown session")
	}
}

func TestGuard_IssueToken_UnknownSession(t *testing.T) {
	guard, _ := newTestGuard(t)

	_, err := guard.IssueToken(context.Background(), "missing", "settings.save")
	if err == nil {
		t.Fatal("IssueToken() for unknown session should fail")
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("IssueToken() error = %v, want 401 HTTPError", err)
	}
}
