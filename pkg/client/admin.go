package client

import (
	"context"

	"github.com/gatehouse-sec/gatehouse/internal/acl"
	"github.com/gatehouse-sec/gatehouse/internal/api"
	"github.com/gatehouse-sec/gatehouse/internal/core"
)

// ListRules returns the active access entries in evaluation order.
// Requires admin authentication.
func (c *Client) ListRules(ctx context.Context) ([]acl.Entry, error) {
	var entries []acl.Entry
	_, err := c.get(ctx, c.url().
		setPath(api.ListRulesRoute).
		build(), &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListAudits returns up to limit recent audit entries, newest first.
// Requires admin authentication and a server running the memory auditor.
func (c *Client) ListAudits(ctx context.Context, limit int) ([]core.AuditEntry, error) {
	builder := c.url().setPath(api.ListAuditsRoute)
	if limit > 0 {
		builder.addQueryParam("limit", limit)
	}

	var entries []core.AuditEntry
	_, err := c.get(ctx, builder.build(), &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
