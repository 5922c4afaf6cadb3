// Package auth implements Pusher's HMAC-SHA256 signing for REST requests,
// subscription tokens, and inbound webhook verification.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"time"

	"github.com/solatis/pusher-rest/internal/types"
)

// webhookBody mirrors types.Webhook with a nullable timestamp so a missing
// time_ms can be told apart from zero.
type webhookBody struct {
	TimeMs *int64               `json:"time_ms"`
	Events []types.WebhookEvent `json:"events"`
}

// CheckWebhook validates an inbound webhook and returns the parsed body.
//
// Checks run in order: key match, signature over the raw body, JSON parse,
// time_ms present and non-zero, and |now - time_ms| within 300000ms. The
// first failing check determines the returned reason.
func CheckWebhook(key, secret, gotKey, signature string, body []byte, now time.Time) (*types.Webhook, error) {
	if subtle.ConstantTimeCompare([]byte(key), []byte(gotKey)) != 1 {
		return nil, ErrKeyMismatch
	}

	if !Verify(secret, string(body), signature) {
		return nil, ErrBadSignature
	}

	var parsed webhookBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, ErrMalformedBody
	}

	if parsed.TimeMs == nil || *parsed.TimeMs == 0 {
		return nil, ErrMissingTimestamp
	}

	// Bounds are computed from now, never from the untrusted timestamp.
	nowMs := now.UnixMilli()
	if *parsed.TimeMs < nowMs-types.WebhookMaxAgeMs || *parsed.TimeMs > nowMs+types.WebhookMaxAgeMs {
		return nil, ErrStaleWebhook
	}

	return &types.Webhook{
		TimeMs: *parsed.TimeMs,
		Events: parsed.Events,
		Raw:    append(json.RawMessage(nil), body...),
	}, nil
}
