package types

import (
	"time"

	"github.com/google/uuid"
)

// WebhookEventID identifies a stored webhook event.
// UUIDv7 time-ordering keeps sequential inserts clustered in B-tree pages.
type WebhookEventID string

// RequestID correlates transport log lines for one REST call.
type RequestID string

// NewWebhookEventID generates a UUIDv7 webhook event identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewWebhookEventID() WebhookEventID {
	return WebhookEventID(uuid.Must(uuid.NewV7()).String())
}

// NewRequestID generates a UUIDv7 request identifier.
func NewRequestID() RequestID {
	return RequestID(uuid.Must(uuid.NewV7()).String())
}

// ParseWebhookEventID validates and converts a string to WebhookEventID.
func ParseWebhookEventID(s string) (WebhookEventID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return WebhookEventID(s), nil
}

// WebhookEventIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func WebhookEventIDTime(id WebhookEventID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
