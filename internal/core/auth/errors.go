package auth

import "errors"

// Webhook rejection reasons, in the order the checks run.
// Callers outside this package collapse all of them into a single invalid
// result; the reason exists for logs and tests.
var (
	ErrKeyMismatch      = errors.New("webhook key does not match app key")
	ErrBadSignature     = errors.New("webhook signature is invalid")
	ErrMalformedBody    = errors.New("webhook body is not valid JSON")
	ErrMissingTimestamp = errors.New("webhook body has no time_ms")
	ErrStaleWebhook     = errors.New("webhook time_ms is outside the replay window")
)
