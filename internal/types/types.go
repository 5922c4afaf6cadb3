// Package types provides domain models shared across the Pusher REST SDK.
//
// These types are wire-format aware only where the Pusher HTTP API fixes the
// shape (auth tokens, encrypted envelopes, webhook bodies). The public facade
// re-exports them as aliases so callers never import internal packages.
package types

import "encoding/json"

// Event is a single trigger: one payload delivered to one or more channels.
// Data is either already-serialized text (string, []byte) or any value
// encoding/json can marshal.
type Event struct {
	Channels []string
	Name     string
	Data     any
	// SocketID excludes the triggering connection from delivery.
	SocketID string
}

// BatchEvent is one row of a batch trigger. Every row targets a single channel.
type BatchEvent struct {
	Channel  string
	Name     string
	Data     any
	SocketID string
}

// ChannelAuth is the subscription authorization token handed to a client.
type ChannelAuth struct {
	Auth         string `json:"auth"`
	ChannelData  string `json:"channel_data,omitempty"`
	SharedSecret string `json:"shared_secret,omitempty"`
}

// UserAuth is the sign-in token for the pusher:signin flow.
type UserAuth struct {
	Auth     string `json:"auth"`
	UserData string `json:"user_data"`
}

// EncryptedMessage replaces the plaintext data of an event sent to an
// encrypted channel. Both fields are standard base64.
type EncryptedMessage struct {
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// Webhook is a validated inbound webhook body. Raw holds the exact signed
// bytes, including any field the typed view does not model.
type Webhook struct {
	TimeMs int64           `json:"time_ms"`
	Events []WebhookEvent  `json:"events"`
	Raw    json.RawMessage `json:"-"`
}

// WebhookEvent is one entry of a webhook's events array. Which fields are set
// depends on Name (channel_occupied, member_added, client_event, ...).
//
// Attributes without a typed field, or typed fields carrying a non-string
// value, land in Extra.
type WebhookEvent struct {
	Name     string         `json:"name"`
	Channel  string         `json:"channel,omitempty"`
	Event    string         `json:"event,omitempty"`
	Data     string         `json:"data,omitempty"`
	SocketID string         `json:"socket_id,omitempty"`
	UserID   string         `json:"user_id,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// UnmarshalJSON decodes an event object without rejecting unknown or
// unexpectedly typed attributes.
func (e *WebhookEvent) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	*e = WebhookEvent{}
	typed := map[string]*string{
		"name":      &e.Name,
		"channel":   &e.Channel,
		"event":     &e.Event,
		"data":      &e.Data,
		"socket_id": &e.SocketID,
		"user_id":   &e.UserID,
	}
	for k, raw := range fields {
		if dst, ok := typed[k]; ok {
			if err := json.Unmarshal(raw, dst); err == nil {
				continue
			}
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if e.Extra == nil {
			e.Extra = make(map[string]any)
		}
		e.Extra[k] = v
	}
	return nil
}

// ChannelInfo is the per-channel attribute set returned by the REST API.
// Pointer fields are only present when requested through the info parameter.
type ChannelInfo struct {
	Occupied          bool `json:"occupied,omitempty"`
	UserCount         *int `json:"user_count,omitempty"`
	SubscriptionCount *int `json:"subscription_count,omitempty"`
}

// TriggerResult is the response body of a trigger call.
type TriggerResult struct {
	Channels map[string]ChannelInfo `json:"channels,omitempty"`
}

// BatchResult is the response body of a batch trigger call.
type BatchResult struct {
	Batch []ChannelInfo `json:"batch,omitempty"`
}

// ChannelList is the response of GET /apps/{id}/channels.
type ChannelList struct {
	Channels map[string]ChannelInfo `json:"channels"`
}

// User is one member of a presence channel.
type User struct {
	ID string `json:"id"`
}

// UserList is the response of GET /apps/{id}/channels/{channel}/users.
type UserList struct {
	Users []User `json:"users"`
}

// Limits enforced locally before any request is built.
const (
	// MaxChannelNameLength matches the server-side channel name limit.
	MaxChannelNameLength = 200

	// MaxEventNameLength matches the server-side event name limit.
	MaxEventNameLength = 200

	// MaxUserIDLength bounds user ids, including the suffix of #server-to-user- channels.
	MaxUserIDLength = 200

	// DefaultMaxDataSize is the serialized payload limit for standard plans (10KB).
	DefaultMaxDataSize = 10240

	// DefaultMaxTriggerChannels caps the channels of one trigger call.
	// Historically 10; the REST API now accepts 100.
	DefaultMaxTriggerChannels = 100

	// DefaultMaxBatchEvents caps the rows of one batch trigger.
	DefaultMaxBatchEvents = 10

	// WebhookMaxAgeMs is the replay window for inbound webhooks (5 minutes).
	WebhookMaxAgeMs = 300000

	// EncryptionMasterKeyLength is the decoded size of the encryption master key.
	EncryptionMasterKeyLength = 32
)
