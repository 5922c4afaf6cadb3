// Package validate checks user-supplied identifiers before any request is built.
//
// Every function is pure and fails fast with a *types.FieldError naming the
// offending field. Callers match the failure class with errors.Is(err,
// types.ErrValidation).
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/solatis/pusher-rest/internal/types"
)

// ServerToUserPrefix marks the per-user channel used by send-to-user.
const ServerToUserPrefix = "#server-to-user-"

var (
	channelPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_=@,.;]+$`)
	socketIDPattern = regexp.MustCompile(`^\d+\.\d+$`)
	appIDPattern    = regexp.MustCompile(`^[0-9]+$`)
)

// Channel accepts names of at most 200 characters from [-a-zA-Z0-9_=@,.;],
// or #server-to-user-<user id>.
func Channel(name string) error {
	if name == "" {
		return types.NewFieldError("channel", "must not be empty")
	}
	if len(name) > types.MaxChannelNameLength {
		return types.NewFieldError("channel", "%q exceeds %d characters", truncate(name), types.MaxChannelNameLength)
	}
	if IsServerToUserChannel(name) {
		if err := UserID(strings.TrimPrefix(name, ServerToUserPrefix)); err != nil {
			return types.NewFieldError("channel", "%q has an invalid user id", name)
		}
		return nil
	}
	if !channelPattern.MatchString(name) {
		return types.NewFieldError("channel", "%q contains invalid characters", name)
	}
	return nil
}

// Channels validates a trigger's channel list: between 1 and max entries.
func Channels(names []string, max int) error {
	if len(names) == 0 {
		return types.NewFieldError("channels", "at least one channel is required")
	}
	if len(names) > max {
		return types.NewFieldError("channels", "%d channels exceeds the limit of %d", len(names), max)
	}
	for _, name := range names {
		if err := Channel(name); err != nil {
			return err
		}
	}
	return nil
}

// EventName requires a non-empty name of at most 200 characters.
func EventName(name string) error {
	if name == "" {
		return types.NewFieldError("event", "name must not be empty")
	}
	if utf8.RuneCountInString(name) > types.MaxEventNameLength {
		return types.NewFieldError("event", "name exceeds %d characters", types.MaxEventNameLength)
	}
	return nil
}

// SocketID requires the digits.digits form.
func SocketID(id string) error {
	if !socketIDPattern.MatchString(id) {
		return types.NewFieldError("socket_id", "%q is not a valid socket id", id)
	}
	return nil
}

// UserID requires 1 to 200 characters from the channel-name charset.
func UserID(id string) error {
	if id == "" {
		return types.NewFieldError("user_id", "must not be empty")
	}
	if len(id) > types.MaxUserIDLength {
		return types.NewFieldError("user_id", "exceeds %d characters", types.MaxUserIDLength)
	}
	if !channelPattern.MatchString(id) {
		return types.NewFieldError("user_id", "%q contains invalid characters", id)
	}
	return nil
}

// AppID requires a non-empty string of digits.
func AppID(id string) error {
	if !appIDPattern.MatchString(id) {
		return types.NewFieldError("app_id", "%q must be a non-empty string of digits", id)
	}
	return nil
}

// DataSize bounds the serialized event payload, measured before encryption.
func DataSize(data []byte, max int) error {
	if len(data) > max {
		return types.NewFieldError("data", "%d bytes exceeds the limit of %d", len(data), max)
	}
	return nil
}

// IsServerToUserChannel reports whether name carries the #server-to-user- prefix.
func IsServerToUserChannel(name string) bool {
	return strings.HasPrefix(name, ServerToUserPrefix)
}

func truncate(s string) string {
	if len(s) <= 32 {
		return s
	}
	return s[:32] + "..."
}
