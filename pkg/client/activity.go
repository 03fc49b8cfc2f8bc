package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client/api"
)

// Activity defines the activity operations
type Activity interface {
	ListActivities(ctx context.Context) (api.Activities, error)
	Signup(ctx context.Context, token, activity, email string) (*api.MessageResponse, error)
	Unregister(ctx context.Context, token, activity, email string) (*api.MessageResponse, error)
}

// activityClient handles activity-related requests
type activityClient struct {
	client *BaseClient
}

// NewActivityClient creates a new activity client
func NewActivityClient(client *BaseClient) Activity {
	return &activityClient{client: client}
}

// ListActivities fetches every activity in backend order
func (c *activityClient) ListActivities(ctx context.Context) (api.Activities, error) {
	resp, err := c.client.Get(ctx, "/activities", "")
	if err != nil {
		return nil, err
	}

	var activities api.Activities
	if err := DecodeResponse(resp, &activities); err != nil {
		return nil, err
	}

	return activities, nil
}

// Signup registers email for activity
func (c *activityClient) Signup(ctx context.Context, token, activity, email string) (*api.MessageResponse, error) {
	resp, err := c.client.Post(ctx, activityPath(activity, "signup", email), token)
	if err != nil {
		return nil, err
	}

	var msg api.MessageResponse
	if err := DecodeResponse(resp, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}

// Unregister removes email from activity
func (c *activityClient) Unregister(ctx context.Context, token, activity, email string) (*api.MessageResponse, error) {
	resp, err := c.client.Delete(ctx, activityPath(activity, "unregister", email), token)
	if err != nil {
		return nil, err
	}

	var msg api.MessageResponse
	if err := DecodeResponse(resp, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}

func activityPath(activity, action, email string) string {
	return fmt.Sprintf("/activities/%s/%s?email=%s", url.PathEscape(activity), action, url.QueryEscape(email))
}
