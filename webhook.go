package pusher

import (
	"go.uber.org/zap"

	"github.com/solatis/pusher-rest/internal/core/auth"
)

// ValidateWebhook checks an inbound webhook's key, signature and freshness.
// It returns the parsed webhook and true, or nil and false. Rejection reasons
// are logged at debug level only.
func (c *Client) ValidateWebhook(key, signature string, body []byte) (*Webhook, bool) {
	hook, err := auth.CheckWebhook(c.key, c.secret, key, signature, body, c.now())
	if err != nil {
		c.logger.Debug("webhook rejected", zap.Error(err))
		return nil, false
	}
	return hook, true
}
