package pusher

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/solatis/pusher-rest/internal/core/auth"
	"github.com/solatis/pusher-rest/internal/core/crypto"
	"github.com/solatis/pusher-rest/internal/types"
	"github.com/solatis/pusher-rest/internal/validate"
)

const presencePrefix = "presence-"

// Authenticate signs a subscription for socketID to channel.
//
// customData becomes channel_data and is required for presence- channels;
// strings pass through, anything else is JSON-encoded. Encrypted channels also
// get the base64 shared_secret so the client can decrypt without the master key.
func (c *Client) Authenticate(channel, socketID string, customData any) (*ChannelAuth, error) {
	if err := validate.Channel(channel); err != nil {
		return nil, err
	}
	if validate.IsServerToUserChannel(channel) {
		return nil, types.NewFieldError("channel", "%q cannot be subscribed to by clients", channel)
	}
	if err := validate.SocketID(socketID); err != nil {
		return nil, err
	}

	var channelData string
	switch v := customData.(type) {
	case nil:
	case string:
		channelData = v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, types.NewFieldError("channel_data", "cannot be encoded as JSON: %v", err)
		}
		channelData = string(raw)
	}
	if strings.HasPrefix(channel, presencePrefix) && channelData == "" {
		return nil, types.NewFieldError("channel_data", "presence channels require user data")
	}

	result := &ChannelAuth{
		Auth:        auth.Token(c.key, c.secret, auth.ChannelStringToSign(socketID, channel, channelData)),
		ChannelData: channelData,
	}

	if crypto.IsEncryptedChannel(channel) {
		if len(c.masterKey) == 0 {
			return nil, fmt.Errorf("%w: channel %q requires an encryption master key", types.ErrEncryption, channel)
		}
		secret, err := crypto.SharedSecret(channel, c.masterKey)
		if err != nil {
			return nil, err
		}
		result.SharedSecret = base64.StdEncoding.EncodeToString(secret[:])
	}

	return result, nil
}

// AuthenticateUser signs a pusher:signin for socketID. userData must carry a
// non-empty string "id".
func (c *Client) AuthenticateUser(socketID string, userData map[string]any) (*UserAuth, error) {
	if err := validate.SocketID(socketID); err != nil {
		return nil, err
	}
	id, _ := userData["id"].(string)
	if err := validate.UserID(id); err != nil {
		return nil, types.NewFieldError("user_data", "id: %v", err)
	}

	raw, err := json.Marshal(userData)
	if err != nil {
		return nil, types.NewFieldError("user_data", "cannot be encoded as JSON: %v", err)
	}
	data := string(raw)

	return &UserAuth{
		Auth:     auth.Token(c.key, c.secret, auth.UserStringToSign(socketID, data)),
		UserData: data,
	}, nil
}
