package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gatehouse-sec/gatehouse/internal/acl"
	"github.com/gatehouse-sec/gatehouse/internal/core"
	"github.com/gatehouse-sec/gatehouse/internal/predicate"
)

type testLogger struct{}

func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

func writePolicy(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing policy: %v", err)
	}
}

func newTestManager(t *testing.T) *acl.Manager {
	t.Helper()
	when := predicate.HasRole("admin")
	m, err := acl.NewManager([]acl.Entry{
		{Name: "admins", Effect: core.Allow, When: &when},
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

func TestFileSource_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	manager := newTestManager(t)
	src := NewFileSource(path, time.Minute, manager, testLogger{})

	ctx := core.NewContext(core.Principal{ID: "1", Roles: []string{"editor"}}, "posts.read", nil)
	if manager.Current().Evaluate(ctx) != core.Deny {
		t.Fatal("editor should start out denied")
	}

	writePolicy(t, path, `
rules:
  - name: editors
    effect: allow
    when: { role: editor }
`)
	src.reload()

	if manager.Current().Evaluate(ctx) != core.Allow {
		t.Error("reload did not swap in the new rules")
	}
}

func TestFileSource_Reload_KeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	manager := newTestManager(t)
	src := NewFileSource(path, time.Minute, manager, testLogger{})

	before := manager.Current()

	// missing file
	src.reload()
	if manager.Current() != before {
		t.Error("reload of a missing file must keep the previous snapshot")
	}

	// invalid rules
	writePolicy(t, path, `
rules:
  - name: broken
    effect: allow
`)
	src.reload()
	if manager.Current() != before {
		t.Error("reload of invalid rules must keep the previous snapshot")
	}
}

func TestFileSource_Run_StopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	writePolicy(t, path, `
rules:
  - name: admins
    effect: allow
    when: { role: admin }
`)

	src := NewFileSource(path, time.Millisecond, newTestManager(t), testLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		src.Run(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not stop after cancellation")
	}
}
