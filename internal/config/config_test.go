package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gatehouse-sec/gatehouse/internal/core"
	"github.com/gatehouse-sec/gatehouse/internal/csrf"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
rules:
  - name: admins
    description: Full access for administrators
    effect: allow
    priority: 100
    when:
      all:
        - role: admin
        - resource: admin.*
  - name: default-deny
    effect: deny
    priority: -100
    when:
      all: []

csrf:
  algorithm: sha512
  lifespan: 5m

audit:
  enabled: true
  type: memory

reload:
  interval: 30s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Rules) != 2 {
		t.Fatalf("Rules = %d, want 2", len(cfg.Rules))
	}
	if cfg.Rules[0].Name != "admins" || cfg.Rules[0].Effect != core.Allow {
		t.Errorf("first rule = %+v", cfg.Rules[0])
	}
	if cfg.Rules[1].Priority != -100 {
		t.Errorf("second rule priority = %d", cfg.Rules[1].Priority)
	}

	if cfg.CSRF.Algorithm != csrf.AlgorithmSHA512 {
		t.Errorf("csrf algorithm = %s", cfg.CSRF.Algorithm)
	}
	if cfg.CSRF.Lifespan != 5*time.Minute {
		t.Errorf("csrf lifespan = %s", cfg.CSRF.Lifespan)
	}
	// defaults are filled in during validation
	if cfg.CSRF.NonceLength != csrf.DefaultNonceLength {
		t.Errorf("csrf nonce length = %d, want default", cfg.CSRF.NonceLength)
	}

	if !cfg.Audit.Enabled || cfg.Audit.Type != "memory" {
		t.Errorf("audit config = %+v", cfg.Audit)
	}
	if cfg.Reload == nil || cfg.Reload.Interval != 30*time.Second {
		t.Errorf("reload config = %+v", cfg.Reload)
	}
}

func TestLoad_FileAuditorOptions(t *testing.T) {
	path := writeConfig(t, `
rules:
  - name: allow-all
    effect: allow
    when:
      all: []
audit:
  enabled: true
  type: file
  path: /var/log/gatehouse-audit.jsonl
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	opts, err := cfg.Audit.FileOptions()
	if err != nil {
		t.Fatalf("FileOptions() error = %v", err)
	}
	if opts.Path != "/var/log/gatehouse-audit.jsonl" {
		t.Errorf("path = %s", opts.Path)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "Duplicate Rule Names",
			content: `
rules:
  - name: a
    effect: allow
    when: { role: admin }
  - name: a
    effect: deny
    when: { role: admin }
`,
		},
		{
			name: "Invalid Effect",
			content: `
rules:
  - name: a
    effect: maybe
    when: { role: admin }
`,
		},
		{
			name: "Missing Predicate",
			content: `
rules:
  - name: a
    effect: allow
`,
		},
		{
			name: "Broken Expression",
			content: `
rules:
  - name: a
    effect: allow
    when:
      expr: "attributes["
`,
		},
		{
			name: "Bad CSRF Algorithm",
			content: `
rules:
  - name: a
    effect: allow
    when: { role: admin }
csrf:
  algorithm: md5
`,
		},
		{
			name: "Nonce Below Minimum",
			content: `
rules:
  - name: a
    effect: allow
    when: { role: admin }
csrf:
  nonce_length: 4
`,
		},
		{
			name: "File Auditor Without Path",
			content: `
rules:
  - name: a
    effect: allow
    when: { role: admin }
audit:
  enabled: true
  type: file
`,
		},
		{
			name: "Unknown Audit Type",
			content: `
rules:
  - name: a
    effect: allow
    when: { role: admin }
audit:
  enabled: true
  type: syslog
`,
		},
		{
			name: "Non-Positive Reload Interval",
			content: `
rules:
  - name: a
    effect: allow
    when: { role: admin }
reload:
  interval: 0s
`,
		},
		{
			name:    "Not YAML",
			content: `{{{`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() of missing file should fail")
	}
}
