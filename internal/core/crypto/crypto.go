// Package crypto implements end-to-end encryption for private-encrypted- channels.
//
// Each channel gets its own shared secret, SHA256(channel || master key). Event
// payloads are sealed with NaCl secretbox (XSalsa20-Poly1305) under that secret
// and a fresh random nonce. Decryption happens in subscribing clients and is
// not provided here.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/solatis/pusher-rest/internal/types"
)

// EncryptedChannelPrefix marks channels whose payloads are end-to-end encrypted.
const EncryptedChannelPrefix = "private-encrypted-"

// NonceSize is the secretbox nonce length.
const NonceSize = 24

// IsEncryptedChannel reports whether name starts with private-encrypted-.
func IsEncryptedChannel(name string) bool {
	return strings.HasPrefix(name, EncryptedChannelPrefix)
}

// ParseMasterKey decodes a standard base64 master key. The decoded key must be
// exactly 32 bytes.
func ParseMasterKey(b64 string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: encryption master key is not valid base64: %v", types.ErrConfiguration, err)
	}
	if len(key) != types.EncryptionMasterKeyLength {
		return nil, fmt.Errorf("%w: encryption master key must decode to %d bytes, got %d",
			types.ErrConfiguration, types.EncryptionMasterKeyLength, len(key))
	}
	return key, nil
}

// SharedSecret derives the per-channel secretbox key.
func SharedSecret(channel string, masterKey []byte) ([32]byte, error) {
	if len(masterKey) != types.EncryptionMasterKeyLength {
		return [32]byte{}, fmt.Errorf("%w: encryption master key must be %d bytes",
			types.ErrConfiguration, types.EncryptionMasterKeyLength)
	}
	h := sha256.New()
	h.Write([]byte(channel))
	h.Write(masterKey)
	var secret [32]byte
	copy(secret[:], h.Sum(nil))
	return secret, nil
}

// Seal encrypts plaintext for channel under an explicit nonce.
// The ciphertext field carries the Poly1305 tag followed by the encrypted bytes.
func Seal(channel string, plaintext, masterKey []byte, nonce [NonceSize]byte) (*types.EncryptedMessage, error) {
	secret, err := SharedSecret(channel, masterKey)
	if err != nil {
		return nil, err
	}
	sealed := secretbox.Seal(nil, plaintext, &nonce, &secret)
	return &types.EncryptedMessage{
		Nonce:      base64.StdEncoding.EncodeToString(nonce[:]),
		Ciphertext: base64.StdEncoding.EncodeToString(sealed),
	}, nil
}

// Encryptor seals payloads with a fresh nonce per call.
type Encryptor struct {
	MasterKey []byte
	// Rand supplies nonces. Nil means crypto/rand.Reader.
	Rand io.Reader
}

// Encrypt seals plaintext for channel with a random nonce.
func (e *Encryptor) Encrypt(channel string, plaintext []byte) (*types.EncryptedMessage, error) {
	if len(e.MasterKey) == 0 {
		return nil, fmt.Errorf("%w: channel %q requires an encryption master key", types.ErrEncryption, channel)
	}
	r := e.Rand
	if r == nil {
		r = rand.Reader
	}
	var nonce [NonceSize]byte
	if _, err := io.ReadFull(r, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return Seal(channel, plaintext, e.MasterKey, nonce)
}
