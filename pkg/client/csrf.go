package client

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/gatehouse-sec/gatehouse/internal/api"
)

// CreateSession registers a fresh session secret with the server. The
// decoded secret is returned exactly once; callers persist it alongside
// their own session state.
func (c *Client) CreateSession(ctx context.Context) (id string, secret []byte, err error) {
	var resp api.SessionResponse
	_, err = c.post(ctx, c.url().
		setPath(api.SessionRoute).
		build(), nil, &resp)
	if err != nil {
		return "", nil, err
	}

	secret, err = base64.RawURLEncoding.DecodeString(resp.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode session secret: %w", err)
	}
	return resp.SessionID, secret, nil
}

// IssueToken mints an anti-forgery token bound to a session and action.
func (c *Client) IssueToken(ctx context.Context, sessionID, action string) (string, error) {
	var resp map[string]string
	_, err := c.post(ctx, c.url().
		setPath(api.IssueTokenRoute).
		build(), api.TokenPayload{
		SessionID: sessionID,
		Action:    action,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp["token"], nil
}

// VerifyToken checks a previously issued token. Any transport error is
// treated as a failed verification.
func (c *Client) VerifyToken(ctx context.Context, sessionID, action, token string) bool {
	var resp map[string]bool
	_, err := c.post(ctx, c.url().
		setPath(api.VerifyTokenRoute).
		build(), api.TokenPayload{
		SessionID: sessionID,
		Action:    action,
		Token:     token,
	}, &resp)
	if err != nil {
		return false
	}
	return resp["valid"]
}
