// Package source keeps the live rule set in sync with its backing policy
// file. A failed reload keeps the previous snapshot; evaluation is never
// left without rules.
package source

import (
	"context"
	"time"

	"github.com/gatehouse-sec/gatehouse/internal/acl"
	"github.com/gatehouse-sec/gatehouse/internal/config"
	"github.com/gatehouse-sec/gatehouse/internal/logging"
)

// FileSource periodically re-reads a policy file and swaps the validated
// rules into the ACL manager.
type FileSource struct {
	path     string
	interval time.Duration
	manager  *acl.Manager
	logger   logging.InternalLogger
}

func NewFileSource(path string, interval time.Duration, manager *acl.Manager, logger logging.InternalLogger) *FileSource {
	return &FileSource{
		path:     path,
		interval: interval,
		manager:  manager,
		logger:   logger,
	}
}

// Run blocks until the context is cancelled, reloading on every tick.
func (s *FileSource) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reload()
		}
	}
}

func (s *FileSource) reload() {
	cfg, err := config.Load(s.path)
	if err != nil {
		s.logger.Error("policy reload failed, keeping previous rules: %v", err)
		return
	}
	if err := s.manager.Update(cfg.Rules); err != nil {
		s.logger.Error("policy reload rejected, keeping previous rules: %v", err)
		return
	}
	s.logger.Info("policy reloaded: %d rules active", len(cfg.Rules))
}
