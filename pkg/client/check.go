package client

import (
	"context"

	"github.com/gatehouse-sec/gatehouse/internal/api"
	"github.com/gatehouse-sec/gatehouse/internal/core"
	"github.com/gatehouse-sec/gatehouse/internal/service"
)

// Check runs one authorization decision against the server.
func (c *Client) Check(ctx context.Context, payload api.CheckPayload) (*service.Decision, error) {
	var decision service.Decision
	_, err := c.post(ctx, c.url().
		setPath(api.CheckRoute).
		build(), payload, &decision)
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

// ExplainTrace simulates a check and returns the full evaluation trace.
// Requires admin authentication.
func (c *Client) ExplainTrace(ctx context.Context, payload api.CheckPayload) (*core.EvaluationTrace, error) {
	var trace core.EvaluationTrace
	_, err := c.post(ctx, c.url().
		setPath(api.ExplainRoute).
		build(), payload, &trace)
	if err != nil {
		return nil, err
	}
	return &trace, nil
}
