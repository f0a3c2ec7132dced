package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"

	"github.com/gatehouse-sec/gatehouse/internal/acl"
	"github.com/gatehouse-sec/gatehouse/internal/csrf"
)

type Config struct {
	// Rules are the ACL entries, evaluated by descending priority.
	Rules []acl.Entry `yaml:"rules"`

	// CSRF configures the anti-forgery token service.
	CSRF csrf.Params `yaml:"csrf"`

	// Audit configures decision auditing.
	Audit AuditConfig `yaml:"audit"`

	// Reload enables periodic re-reading of this file while serving.
	Reload *ReloadConfig `yaml:"reload"`
}

// AuditConfig holds configuration for auditing.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Type    string `yaml:"type"` // e.g., "file", "memory"

	// Options captures auditor-specific settings (e.g. "path" for the file
	// auditor). Decoded per type via mapstructure.
	Options map[string]any `yaml:",inline"`
}

// FileAuditorOptions are the options for the "file" auditor type.
type FileAuditorOptions struct {
	Path string `mapstructure:"path"`
}

// FileOptions decodes the audit options for the "file" auditor.
func (a AuditConfig) FileOptions() (*FileAuditorOptions, error) {
	var opts FileAuditorOptions
	if err := mapstructure.Decode(a.Options, &opts); err != nil {
		return nil, fmt.Errorf("decoding file auditor options: %w", err)
	}
	if opts.Path == "" {
		return nil, fmt.Errorf("file auditor requires a 'path'")
	}
	return &opts, nil
}

type ReloadConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Load reads and parses the configuration file at the given path.
// It returns a Config struct or an error if loading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	validRules, err := acl.ValidateEntries(c.Rules)
	if err != nil {
		return fmt.Errorf("validating rules: %w", err)
	}
	c.Rules = validRules

	// NewService applies defaults and rejects bad parameters; keep the
	// defaulted values so callers see the effective configuration.
	svc, err := csrf.NewService(c.CSRF)
	if err != nil {
		return fmt.Errorf("validating csrf parameters: %w", err)
	}
	c.CSRF = svc.Params()

	if c.Audit.Enabled {
		switch c.Audit.Type {
		case "file":
			if _, err := c.Audit.FileOptions(); err != nil {
				return fmt.Errorf("validating audit config: %w", err)
			}
		case "memory", "":
		default:
			return fmt.Errorf("unknown audit type '%s'", c.Audit.Type)
		}
	}

	if c.Reload != nil && c.Reload.Interval <= 0 {
		return fmt.Errorf("reload interval must be positive")
	}

	return nil
}
