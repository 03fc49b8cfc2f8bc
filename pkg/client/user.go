package client

import (
	"context"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client/api"
)

// User defines the current-user operations
type User interface {
	Me(ctx context.Context, token string) (*api.UserProfile, error)
}

// userClient handles user-related requests
type userClient struct {
	client *BaseClient
}

// NewUserClient creates a new user client
func NewUserClient(client *BaseClient) User {
	return &userClient{client: client}
}

// Me returns the profile the token belongs to. Any non-2xx status comes back
// as an *APIError.
func (c *userClient) Me(ctx context.Context, token string) (*api.UserProfile, error) {
	resp, err := c.client.Get(ctx, "/user/me", token)
	if err != nil {
		return nil, err
	}

	var profile api.UserProfile
	if err := DecodeResponse(resp, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}
