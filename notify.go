package pusher

import (
	"context"
	"encoding/json"
)

// BuildNotify returns the signed push notification request.
func (c *Client) BuildNotify(interests []string, notification map[string]any) (*Request, error) {
	return c.builder.Notify(interests, notification)
}

// Notify sends a push notification to devices subscribed to interests.
// The response body is returned undecoded.
func (c *Client) Notify(ctx context.Context, interests []string, notification map[string]any) (json.RawMessage, error) {
	req, err := c.BuildNotify(interests, notification)
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.send(ctx, c.notifications, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
