package pusher

import (
	"github.com/solatis/pusher-rest/internal/core/config"
	"github.com/solatis/pusher-rest/internal/core/request"
	"github.com/solatis/pusher-rest/internal/core/transport"
	"github.com/solatis/pusher-rest/internal/types"
)

type (
	Config              = config.Config
	WebhookServerConfig = config.WebhookServerConfig

	Event            = types.Event
	BatchEvent       = types.BatchEvent
	ChannelAuth      = types.ChannelAuth
	UserAuth         = types.UserAuth
	EncryptedMessage = types.EncryptedMessage
	Webhook          = types.Webhook
	WebhookEvent     = types.WebhookEvent
	ChannelInfo      = types.ChannelInfo
	TriggerResult    = types.TriggerResult
	BatchResult      = types.BatchResult
	ChannelList      = types.ChannelList
	User             = types.User
	UserList         = types.UserList

	// Request is a signed REST request ready for any HTTP stack.
	Request = request.Request

	// Transport sends a Request. Inject one with WithTransport.
	Transport = transport.Transport

	// Response is the raw status and body a Transport returns.
	Response = transport.Response

	FieldError  = types.FieldError
	RemoteError = types.RemoteError
)

// Error kinds, matched with errors.Is.
var (
	ErrValidation       = types.ErrValidation
	ErrConfiguration    = types.ErrConfiguration
	ErrEncryption       = types.ErrEncryption
	ErrBadRequest       = types.ErrBadRequest
	ErrBadAuth          = types.ErrBadAuth
	ErrForbidden        = types.ErrForbidden
	ErrNotFound         = types.ErrNotFound
	ErrUnexpectedStatus = types.ErrUnexpectedStatus
)

// DefaultConfig returns a Config with default limits and no credentials.
func DefaultConfig() *Config { return config.DefaultConfig() }
