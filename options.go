package pusher

import (
	"io"
	"time"

	"go.uber.org/zap"
)

// Option customizes a Client at construction time.
type Option func(*options)

type options struct {
	transport             Transport
	notificationTransport Transport
	logger                *zap.Logger
	now                   func() time.Time
	rand                  io.Reader
}

// WithTransport replaces the HTTP transport used for REST calls.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithNotificationTransport replaces the transport used by Notify.
func WithNotificationTransport(t Transport) Option {
	return func(o *options) { o.notificationTransport = t }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock overrides the wall clock used for auth_timestamp and webhook
// freshness.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRandom overrides the nonce source for encryption. Tests only; a
// repeated nonce under the same key breaks secretbox.
func WithRandom(r io.Reader) Option {
	return func(o *options) { o.rand = r }
}
