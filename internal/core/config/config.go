// Package config provides configuration management for the Pusher REST client
// and its companion webhook receiver.
package config

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"time"

	"github.com/solatis/pusher-rest/internal/types"
	"github.com/solatis/pusher-rest/internal/validate"
)

// Host defaults.
const (
	DefaultHost             = "api.pusherapp.com"
	DefaultNotificationHost = "nativepush-cluster1.pusher.com"
)

// Config holds app credentials, endpoint selection and local limits.
// Secret and EncryptionMasterKeyBase64 only ever come from the environment
// or from code; LoadConfig rejects them in config files.
type Config struct {
	AppID   string
	Key     string
	Secret  string
	Host    string
	Port    int
	Secure  bool
	Cluster string
	Timeout time.Duration

	EncryptionMasterKeyBase64 string

	MaxDataSize        int
	MaxTriggerChannels int
	MaxBatchEvents     int

	NotificationHost string

	Webhook WebhookServerConfig
}

// WebhookServerConfig holds configuration for the HTTP webhook receiver.
type WebhookServerConfig struct {
	Host            string
	Port            int
	Path            string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// DefaultConfig returns configuration with default values and no credentials.
func DefaultConfig() *Config {
	return &Config{
		Secure:             true,
		Timeout:            5 * time.Second,
		MaxDataSize:        types.DefaultMaxDataSize,
		MaxTriggerChannels: types.DefaultMaxTriggerChannels,
		MaxBatchEvents:     types.DefaultMaxBatchEvents,
		Webhook:            DefaultWebhookServerConfig(),
	}
}

// DefaultWebhookServerConfig returns receiver defaults.
func DefaultWebhookServerConfig() WebhookServerConfig {
	return WebhookServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		Path:            "/pusher/webhooks",
		MaxBodyBytes:    1 << 20,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Validate checks the credentials every client needs.
func (c *Config) Validate() error {
	if err := validate.AppID(c.AppID); err != nil {
		return fmt.Errorf("%w: %v", types.ErrConfiguration, err)
	}
	if c.Key == "" {
		return fmt.Errorf("%w: key is required", types.ErrConfiguration)
	}
	if c.Secret == "" {
		return fmt.Errorf("%w: secret is required", types.ErrConfiguration)
	}
	return nil
}

// Scheme is https when Secure is set.
func (c *Config) Scheme() string {
	if c.Secure {
		return "https"
	}
	return "http"
}

// ResolvedHost picks the explicit host, then the cluster host, then the default.
func (c *Config) ResolvedHost() string {
	switch {
	case c.Host != "":
		return c.Host
	case c.Cluster != "":
		return "api-" + c.Cluster + ".pusher.com"
	default:
		return DefaultHost
	}
}

// ResolvedPort returns Port, or 443/80 depending on Secure.
func (c *Config) ResolvedPort() int {
	if c.Port != 0 {
		return c.Port
	}
	if c.Secure {
		return 443
	}
	return 80
}

// BaseURL is scheme://host:port for the REST API.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("%s://%s", c.Scheme(), net.JoinHostPort(c.ResolvedHost(), strconv.Itoa(c.ResolvedPort())))
}

// NotificationBaseURL is scheme://host:port for push notifications.
func (c *Config) NotificationBaseURL() string {
	host := c.NotificationHost
	if host == "" {
		host = DefaultNotificationHost
	}
	return fmt.Sprintf("%s://%s", c.Scheme(), net.JoinHostPort(host, strconv.Itoa(c.ResolvedPort())))
}

var pusherURLPattern = regexp.MustCompile(`^(http|https)://(.*):(.*)@(.*)/apps/([0-9]+)$`)

// FromURL parses http(s)://key:secret@host/apps/<app id> into a Config with
// default limits. A host:port authority sets Port as well.
func FromURL(raw string) (*Config, error) {
	m := pusherURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("%w: unparsable url", types.ErrConfiguration)
	}

	cfg := DefaultConfig()
	cfg.Secure = m[1] == "https"
	cfg.Key = m[2]
	cfg.Secret = m[3]
	cfg.Host = m[4]
	cfg.AppID = m[5]

	if host, port, err := net.SplitHostPort(cfg.Host); err == nil {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid port %q in url", types.ErrConfiguration, port)
		}
		cfg.Host = host
		cfg.Port = p
	}

	return cfg, nil
}
