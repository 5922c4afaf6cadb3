package pusher

import (
	"context"

	"github.com/solatis/pusher-rest/internal/core/transport"
	"github.com/solatis/pusher-rest/internal/validate"
)

// Result is the outcome of an asynchronous Dispatch.
type Result = transport.Result

// BuildTrigger validates ev and returns the signed request without sending it.
func (c *Client) BuildTrigger(ev Event) (*Request, error) {
	return c.builder.Trigger(ev)
}

// BuildTriggerBatch validates events and returns the signed batch request.
func (c *Client) BuildTriggerBatch(events []BatchEvent) (*Request, error) {
	return c.builder.TriggerBatch(events)
}

// Trigger sends ev to its channels.
func (c *Client) Trigger(ctx context.Context, ev Event) (*TriggerResult, error) {
	req, err := c.BuildTrigger(ev)
	if err != nil {
		return nil, err
	}
	var out TriggerResult
	if err := c.send(ctx, c.transport, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TriggerBatch sends up to MaxBatchEvents events in one call.
func (c *Client) TriggerBatch(ctx context.Context, events []BatchEvent) (*BatchResult, error) {
	req, err := c.BuildTriggerBatch(events)
	if err != nil {
		return nil, err
	}
	var out BatchResult
	if err := c.send(ctx, c.transport, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendToUser triggers an event on the #server-to-user- channel of userID.
func (c *Client) SendToUser(ctx context.Context, userID, eventName string, data any) error {
	if err := validate.UserID(userID); err != nil {
		return err
	}
	_, err := c.Trigger(ctx, Event{
		Channels: []string{validate.ServerToUserPrefix + userID},
		Name:     eventName,
		Data:     data,
	})
	return err
}

// Dispatch sends a prebuilt request on its own goroutine.
func (c *Client) Dispatch(ctx context.Context, req *Request) <-chan Result {
	return transport.Dispatch(ctx, c.transport, req)
}
