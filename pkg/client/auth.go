package client

import (
	"context"
	"net/url"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client/api"
)

// Auth defines the token operations
type Auth interface {
	Login(ctx context.Context, username, password string) (*api.TokenResponse, error)
}

// authClient handles token requests
type authClient struct {
	client *BaseClient
}

// NewAuthClient creates a new auth client
func NewAuthClient(client *BaseClient) Auth {
	return &authClient{client: client}
}

// Login exchanges credentials for a bearer token
func (c *authClient) Login(ctx context.Context, username, password string) (*api.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.client.PostForm(ctx, "/token", form.Encode(), "")
	if err != nil {
		return nil, err
	}

	var token api.TokenResponse
	if err := DecodeResponse(resp, &token); err != nil {
		return nil, err
	}

	return &token, nil
}
