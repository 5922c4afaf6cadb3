package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable, e.g. PUSHER_APP_ID.
const EnvPrefix = "PUSHER"

// secretKeys may only be supplied through the environment.
var secretKeys = []string{"secret", "encryption_master_key_base64", "url"}

// LoadConfig loads configuration from file using viper.
// Environment > config file > defaults precedence. PUSHER_URL seeds the
// credentials and host; individual settings override it.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("timeout", defaults.Timeout.String())
	v.SetDefault("max_data_size", defaults.MaxDataSize)
	v.SetDefault("max_trigger_channels", defaults.MaxTriggerChannels)
	v.SetDefault("max_batch_events", defaults.MaxBatchEvents)
	v.SetDefault("webhook.host", defaults.Webhook.Host)
	v.SetDefault("webhook.port", defaults.Webhook.Port)
	v.SetDefault("webhook.path", defaults.Webhook.Path)
	v.SetDefault("webhook.max_body_bytes", defaults.Webhook.MaxBodyBytes)
	v.SetDefault("webhook.shutdown_timeout", defaults.Webhook.ShutdownTimeout.String())

	// Bind environment variables with PUSHER_ prefix
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Secrets must be environment-only
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := defaults
	if raw := v.GetString("url"); raw != "" {
		parsed, err := FromURL(raw)
		if err != nil {
			return nil, fmt.Errorf("PUSHER_URL: %w", err)
		}
		cfg = parsed
	}

	// Credential and endpoint keys have no defaults, so IsSet reports only
	// explicit env or file values.
	overrideString(v, "app_id", &cfg.AppID)
	overrideString(v, "key", &cfg.Key)
	overrideString(v, "secret", &cfg.Secret)
	overrideString(v, "host", &cfg.Host)
	overrideString(v, "cluster", &cfg.Cluster)
	overrideString(v, "notification_host", &cfg.NotificationHost)
	overrideString(v, "encryption_master_key_base64", &cfg.EncryptionMasterKeyBase64)
	if v.IsSet("port") {
		cfg.Port = v.GetInt("port")
	}
	if v.IsSet("secure") {
		cfg.Secure = v.GetBool("secure")
	}

	cfg.Timeout = v.GetDuration("timeout")
	cfg.MaxDataSize = v.GetInt("max_data_size")
	cfg.MaxTriggerChannels = v.GetInt("max_trigger_channels")
	cfg.MaxBatchEvents = v.GetInt("max_batch_events")
	cfg.Webhook = WebhookServerConfig{
		Host:            v.GetString("webhook.host"),
		Port:            v.GetInt("webhook.port"),
		Path:            v.GetString("webhook.path"),
		MaxBodyBytes:    v.GetInt64("webhook.max_body_bytes"),
		ShutdownTimeout: v.GetDuration("webhook.shutdown_timeout"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func overrideString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

// validateConfig checks port ranges, timeouts and positive limits.
// Credentials are checked by Config.Validate when a client is built.
func validateConfig(cfg *Config) error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", cfg.Port)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", cfg.Timeout)
	}
	if cfg.MaxDataSize <= 0 {
		return fmt.Errorf("max_data_size must be positive, got %d", cfg.MaxDataSize)
	}
	if cfg.MaxTriggerChannels <= 0 {
		return fmt.Errorf("max_trigger_channels must be positive, got %d", cfg.MaxTriggerChannels)
	}
	if cfg.MaxBatchEvents <= 0 {
		return fmt.Errorf("max_batch_events must be positive, got %d", cfg.MaxBatchEvents)
	}
	if cfg.Webhook.Port <= 0 || cfg.Webhook.Port > 65535 {
		return fmt.Errorf("webhook.port must be between 1 and 65535, got %d", cfg.Webhook.Port)
	}
	if !strings.HasPrefix(cfg.Webhook.Path, "/") {
		return fmt.Errorf("webhook.path must start with /, got %q", cfg.Webhook.Path)
	}
	if cfg.Webhook.MaxBodyBytes <= 0 {
		return fmt.Errorf("webhook.max_body_bytes must be positive, got %d", cfg.Webhook.MaxBodyBytes)
	}
	if cfg.Webhook.ShutdownTimeout <= 0 {
		return fmt.Errorf("webhook.shutdown_timeout must be positive, got %v", cfg.Webhook.ShutdownTimeout)
	}
	return nil
}

// validateNoSecretsInConfig enforces environment-only secrets (12-factor principle).
func validateNoSecretsInConfig(v *viper.Viper) error {
	for _, key := range secretKeys {
		if v.InConfig(key) {
			return fmt.Errorf("%s not allowed in config files (use %s_%s environment variable)",
				key, EnvPrefix, strings.ToUpper(key))
		}
	}
	return nil
}
