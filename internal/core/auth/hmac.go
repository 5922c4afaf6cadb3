package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the lowercase hex HMAC-SHA256 of message keyed by secret.
func Sign(secret, message string) string {
	return hex.EncodeToString(computeHMAC([]byte(secret), message))
}

// Verify compares signature against the lowercase hex HMAC in constant time.
// Upper-case or malformed hex is a mismatch.
func Verify(secret, message, signature string) bool {
	return hmac.Equal([]byte(signature), []byte(Sign(secret, message)))
}

// ChannelStringToSign builds "socket_id:channel" or "socket_id:channel:channel_data".
func ChannelStringToSign(socketID, channel, channelData string) string {
	s := socketID + ":" + channel
	if channelData != "" {
		s += ":" + channelData
	}
	return s
}

// UserStringToSign builds the pusher:signin payload "socket_id::user::user_data".
func UserStringToSign(socketID, userData string) string {
	return socketID + "::user::" + userData
}

// Token formats an auth token as "key:signature".
func Token(key, secret, stringToSign string) string {
	return key + ":" + Sign(secret, stringToSign)
}

func computeHMAC(secret []byte, message string) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(message))
	return h.Sum(nil)
}
