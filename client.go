package pusher

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/solatis/pusher-rest/internal/core/config"
	"github.com/solatis/pusher-rest/internal/core/crypto"
	"github.com/solatis/pusher-rest/internal/core/request"
	"github.com/solatis/pusher-rest/internal/core/transport"
	"github.com/solatis/pusher-rest/internal/types"
)

// DefaultURLEnv is the variable NewFromEnv reads when no name is given.
const DefaultURLEnv = "PUSHER_URL"

const defaultTimeout = 5 * time.Second

// Client talks to one Pusher app. It is immutable and safe for concurrent use.
type Client struct {
	appID         string
	key           string
	secret        string
	masterKey     []byte
	builder       *request.Builder
	transport     Transport
	notifications Transport
	logger        *zap.Logger
	now           func() time.Time
}

// New validates cfg and builds a Client. The master key, if any, is decoded
// once here.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", types.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.now == nil {
		o.now = time.Now
	}

	var masterKey []byte
	if cfg.EncryptionMasterKeyBase64 != "" {
		key, err := crypto.ParseMasterKey(cfg.EncryptionMasterKeyBase64)
		if err != nil {
			return nil, err
		}
		masterKey = key
	}

	limits := request.DefaultLimits()
	if cfg.MaxDataSize > 0 {
		limits.MaxDataSize = cfg.MaxDataSize
	}
	if cfg.MaxTriggerChannels > 0 {
		limits.MaxTriggerChannels = cfg.MaxTriggerChannels
	}
	if cfg.MaxBatchEvents > 0 {
		limits.MaxBatchEvents = cfg.MaxBatchEvents
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	if o.transport == nil {
		t, err := transport.NewHTTPTransport(cfg.BaseURL(), timeout, o.logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrConfiguration, err)
		}
		o.transport = t
	}
	if o.notificationTransport == nil {
		t, err := transport.NewHTTPTransport(cfg.NotificationBaseURL(), timeout, o.logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrConfiguration, err)
		}
		o.notificationTransport = t
	}

	return &Client{
		appID:     cfg.AppID,
		key:       cfg.Key,
		secret:    cfg.Secret,
		masterKey: masterKey,
		builder: &request.Builder{
			Credentials: request.Credentials{AppID: cfg.AppID, Key: cfg.Key, Secret: cfg.Secret},
			MasterKey:   masterKey,
			Limits:      limits,
			Now:         o.now,
			Rand:        o.rand,
		},
		transport:     o.transport,
		notifications: o.notificationTransport,
		logger:        o.logger,
		now:           o.now,
	}, nil
}

// NewFromURL builds a Client from http(s)://key:secret@host/apps/<app id>.
func NewFromURL(rawURL string, opts ...Option) (*Client, error) {
	cfg, err := config.FromURL(rawURL)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// NewFromEnv builds a Client from the URL in the named environment variable,
// PUSHER_URL when name is empty.
func NewFromEnv(name string, opts ...Option) (*Client, error) {
	if name == "" {
		name = DefaultURLEnv
	}
	val := os.Getenv(name)
	if val == "" {
		return nil, fmt.Errorf("%w: environment variable %s not set", types.ErrConfiguration, name)
	}
	return NewFromURL(val, opts...)
}

// AppID returns the configured app id.
func (c *Client) AppID() string { return c.appID }

// Key returns the configured app key.
func (c *Client) Key() string { return c.key }

// send executes req on t and decodes a successful body into out (if non-nil).
func (c *Client) send(ctx context.Context, t Transport, req *Request, out any) error {
	resp, err := t.Send(ctx, req)
	if err != nil {
		return err
	}
	body, err := transport.ProcessResponse(resp)
	if err != nil {
		c.logger.Debug("pusher call rejected",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Int("status", resp.StatusCode))
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.Path, err)
	}
	return nil
}
