package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gatehouse-sec/gatehouse/internal/acl"
	"github.com/gatehouse-sec/gatehouse/internal/audit"
	"github.com/gatehouse-sec/gatehouse/internal/config"
	"github.com/gatehouse-sec/gatehouse/internal/core"
	"github.com/gatehouse-sec/gatehouse/internal/csrf"
	"github.com/gatehouse-sec/gatehouse/internal/service"
	"github.com/gatehouse-sec/gatehouse/pkg/client"
)

type Factory struct {
	// RemoteAddr is the address of the Gatehouse server to connect to.
	RemoteAddr string

	// Command-specific flags
	PolicyPath string // the policy file: rules, csrf parameters, audit setup
}

func NewFactory() *Factory {
	return &Factory{}
}

// GetClient returns an authenticated HTTP client for remote operations.
func (f *Factory) GetClient() (*client.Client, error) {
	server := f.RemoteAddr // prio 1: command-line flag
	if server == "" {
		server = viper.GetString(GatehouseAddrKey) // prio 2: config/env
	}
	if server == "" {
		return nil, fmt.Errorf("server address not configured (use --server or set GATEHOUSE_ADDR)")
	}

	token := os.Getenv("GATEHOUSE_TOKEN")

	return client.New(server, client.WithAuthToken(token)), nil
}

func (f *Factory) LoadPolicyConfig() (*config.Config, error) {
	if f.PolicyPath == "" {
		return nil, fmt.Errorf("policy file not specified (use --policy)")
	}
	return config.Load(f.PolicyPath)
}

// GetLocalGuard builds a Guard from the policy file for local, in-process
// evaluation.
func (f *Factory) GetLocalGuard() (*service.Guard, error) {
	cfg, err := f.LoadPolicyConfig()
	if err != nil {
		return nil, fmt.Errorf("loading policy file: %w", err)
	}

	manager, err := acl.NewManager(cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("building rule set: %w", err)
	}

	tokens, err := csrf.NewService(cfg.CSRF)
	if err != nil {
		return nil, fmt.Errorf("building token service: %w", err)
	}

	return service.NewGuard(
		manager,
		tokens,
		csrf.NewKeyring(),
		audit.NewNoopAuditor(), // for local CLI operations, we don't do auditing
	), nil
}

// BuildAuditor constructs the auditor named by the audit configuration.
func BuildAuditor(cfg config.AuditConfig) (core.Auditor, error) {
	if !cfg.Enabled {
		return audit.NewNoopAuditor(), nil
	}
	switch cfg.Type {
	case "file":
		opts, err := cfg.FileOptions()
		if err != nil {
			return nil, err
		}
		return audit.NewFileAuditor(opts.Path)
	case "memory", "":
		return audit.NewInMemoryAuditor(), nil
	default:
		return nil, fmt.Errorf("unknown audit type '%s'", cfg.Type)
	}
}

func (f *Factory) bindPolicyFlag(flags *pflag.FlagSet) {
	flags.StringVarP(&f.PolicyPath, "policy", "f", "", "The Gatehouse policy file to use")
}
