package request

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/solatis/pusher-rest/internal/core/crypto"
	"github.com/solatis/pusher-rest/internal/types"
	"github.com/solatis/pusher-rest/internal/validate"
)

// HTTP methods used by the REST API.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
)

// Limits bound what a single request may carry.
type Limits struct {
	MaxDataSize        int
	MaxTriggerChannels int
	MaxBatchEvents     int
}

// DefaultLimits returns the limits for standard plans.
func DefaultLimits() Limits {
	return Limits{
		MaxDataSize:        types.DefaultMaxDataSize,
		MaxTriggerChannels: types.DefaultMaxTriggerChannels,
		MaxBatchEvents:     types.DefaultMaxBatchEvents,
	}
}

// Builder validates input and produces signed requests for every REST operation.
// A zero Now uses time.Now; a nil Rand uses crypto/rand.
type Builder struct {
	Credentials Credentials
	MasterKey   []byte
	Limits      Limits
	Now         func() time.Time
	Rand        io.Reader
}

// eventPayload is the JSON body of a trigger and of each batch row.
type eventPayload struct {
	Name     string   `json:"name"`
	Channels []string `json:"channels,omitempty"`
	Channel  string   `json:"channel,omitempty"`
	Data     string   `json:"data"`
	SocketID string   `json:"socket_id,omitempty"`
}

type batchPayload struct {
	Batch []eventPayload `json:"batch"`
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b *Builder) appPath(format string, args ...any) string {
	return "/apps/" + b.Credentials.AppID + fmt.Sprintf(format, args...)
}

// Get signs a GET with params in the query and an empty body.
func (b *Builder) Get(path string, params map[string]string) *Request {
	return Sign(b.Credentials, MethodGet, path, params, nil, b.now())
}

// Post signs a POST whose body is payload encoded as JSON.
func (b *Builder) Post(path string, payload any) (*Request, error) {
	return b.withBody(MethodPost, path, payload)
}

// Put signs a PUT whose body is payload encoded as JSON.
func (b *Builder) Put(path string, payload any) (*Request, error) {
	return b.withBody(MethodPut, path, payload)
}

// Delete signs a DELETE whose body is payload encoded as JSON.
func (b *Builder) Delete(path string, payload any) (*Request, error) {
	return b.withBody(MethodDelete, path, payload)
}

func (b *Builder) withBody(method, path string, payload any) (*Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return Sign(b.Credentials, method, path, nil, body, b.now()), nil
}

// Trigger builds POST /apps/{id}/events.
//
// A single encrypted channel gets its data replaced by a sealed envelope.
// Mixing an encrypted channel with any other channel fails with
// types.ErrEncryption since each encrypted channel needs its own ciphertext.
func (b *Builder) Trigger(ev types.Event) (*Request, error) {
	if err := validate.Channels(ev.Channels, b.Limits.MaxTriggerChannels); err != nil {
		return nil, err
	}
	if len(ev.Channels) > 1 {
		for _, ch := range ev.Channels {
			if crypto.IsEncryptedChannel(ch) {
				return nil, fmt.Errorf("%w: cannot trigger to multiple channels when %q is encrypted",
					types.ErrEncryption, ch)
			}
		}
	}

	data, err := b.eventData(ev.Channels[0], ev.Name, ev.Data, ev.SocketID)
	if err != nil {
		return nil, err
	}

	return b.Post(b.appPath("/events"), eventPayload{
		Name:     ev.Name,
		Channels: ev.Channels,
		Data:     data,
		SocketID: ev.SocketID,
	})
}

// TriggerBatch builds POST /apps/{id}/batch_events. Each row is validated and,
// when its channel is encrypted, sealed independently.
func (b *Builder) TriggerBatch(events []types.BatchEvent) (*Request, error) {
	if len(events) == 0 {
		return nil, types.NewFieldError("batch", "at least one event is required")
	}
	if len(events) > b.Limits.MaxBatchEvents {
		return nil, types.NewFieldError("batch", "%d events exceeds the limit of %d", len(events), b.Limits.MaxBatchEvents)
	}

	rows := make([]eventPayload, 0, len(events))
	for _, ev := range events {
		if err := validate.Channel(ev.Channel); err != nil {
			return nil, err
		}
		data, err := b.eventData(ev.Channel, ev.Name, ev.Data, ev.SocketID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, eventPayload{
			Name:     ev.Name,
			Channel:  ev.Channel,
			Data:     data,
			SocketID: ev.SocketID,
		})
	}

	return b.Post(b.appPath("/batch_events"), batchPayload{Batch: rows})
}

// eventData validates the shared event fields and returns the data string
// for the wire, sealed when channel is encrypted.
func (b *Builder) eventData(channel, name string, data any, socketID string) (string, error) {
	if err := validate.EventName(name); err != nil {
		return "", err
	}
	if socketID != "" {
		if err := validate.SocketID(socketID); err != nil {
			return "", err
		}
	}

	raw, err := serializeData(data)
	if err != nil {
		return "", err
	}
	if err := validate.DataSize(raw, b.Limits.MaxDataSize); err != nil {
		return "", err
	}

	if !crypto.IsEncryptedChannel(channel) {
		return string(raw), nil
	}

	enc := &crypto.Encryptor{MasterKey: b.MasterKey, Rand: b.Rand}
	msg, err := enc.Encrypt(channel, raw)
	if err != nil {
		return "", err
	}
	sealed, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to encode encrypted message: %w", err)
	}
	return string(sealed), nil
}

// serializeData passes text through untouched and JSON-encodes anything else.
func serializeData(data any) ([]byte, error) {
	switch v := data.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, types.NewFieldError("data", "cannot be encoded as JSON: %v", err)
	}
	return raw, nil
}

// ChannelsInfo builds GET /apps/{id}/channels.
func (b *Builder) ChannelsInfo(prefix string, attributes []string) (*Request, error) {
	params := infoParams(attributes)
	if prefix != "" {
		params["filter_by_prefix"] = prefix
	}
	return b.Get(b.appPath("/channels"), params), nil
}

// ChannelInfo builds GET /apps/{id}/channels/{channel}.
func (b *Builder) ChannelInfo(channel string, attributes []string) (*Request, error) {
	if err := validate.Channel(channel); err != nil {
		return nil, err
	}
	return b.Get(b.appPath("/channels/%s", channel), infoParams(attributes)), nil
}

// UsersInfo builds GET /apps/{id}/channels/{channel}/users.
func (b *Builder) UsersInfo(channel string) (*Request, error) {
	if err := validate.Channel(channel); err != nil {
		return nil, err
	}
	return b.Get(b.appPath("/channels/%s/users", channel), nil), nil
}

// TerminateUserConnections builds POST /apps/{id}/users/{user}/terminate_connections.
func (b *Builder) TerminateUserConnections(userID string) (*Request, error) {
	if err := validate.UserID(userID); err != nil {
		return nil, err
	}
	return b.Post(b.appPath("/users/%s/terminate_connections", userID), struct{}{})
}

// NotificationsPath is the push notification endpoint on the notification host.
const NotificationsPath = "/server_api/v1/apps/%s/notifications"

// Notify builds a push notification request. The notification map is sent
// as-is with an added "interests" key.
func (b *Builder) Notify(interests []string, notification map[string]any) (*Request, error) {
	if len(interests) == 0 {
		return nil, types.NewFieldError("interests", "at least one interest is required")
	}
	for _, interest := range interests {
		if interest == "" {
			return nil, types.NewFieldError("interests", "interest names must not be empty")
		}
	}
	if len(notification) == 0 {
		return nil, types.NewFieldError("notification", "must not be empty")
	}

	payload := make(map[string]any, len(notification)+1)
	for k, v := range notification {
		payload[k] = v
	}
	payload["interests"] = interests

	return b.Post(fmt.Sprintf(NotificationsPath, b.Credentials.AppID), payload)
}

func infoParams(attributes []string) map[string]string {
	params := make(map[string]string)
	if len(attributes) > 0 {
		params["info"] = strings.Join(attributes, ",")
	}
	return params
}
