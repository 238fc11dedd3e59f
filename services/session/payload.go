package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Redirect payloads travel as base64url(salt || nonce || AES-256-GCM ciphertext),
// with the key derived from the shared secret via PBKDF2.
const (
	payloadSaltSize  = 16
	payloadKDFRounds = 4096
	payloadKeyLength = 32
)

// DecryptionError signals a redirect payload that could not be opened:
// malformed encoding, wrong secret or tampered ciphertext. The wizard treats
// it as unrecoverable and resets to the welcome step.
type DecryptionError struct {
	Reason string
}

func (e *DecryptionError) Error() string {
	return "failed to decrypt payload: " + e.Reason
}

func deriveKey(secret string, salt []byte) []byte {
	return pbkdf2.Key([]byte(secret), salt, payloadKDFRounds, payloadKeyLength, sha256.New)
}

// EncryptPayload serializes v to JSON and seals it with the shared secret.
// The contact form and the test suite use it; the backend produces the same
// format for redirect-carried token bundles.
func EncryptPayload(secret string, v any) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	salt := make([]byte, payloadSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(secret, salt))
	if err != nil {
		return "", fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	out := append(append(salt, nonce...), sealed...)
	return base64.URLEncoding.EncodeToString(out), nil
}

// DecryptPayload opens an encrypted payload into v. Any failure comes back as
// a *DecryptionError.
func DecryptPayload(secret, encoded string, v any) error {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return &DecryptionError{Reason: "invalid encoding"}
	}
	if len(raw) < payloadSaltSize {
		return &DecryptionError{Reason: "payload too short"}
	}
	salt, rest := raw[:payloadSaltSize], raw[payloadSaltSize:]

	block, err := aes.NewCipher(deriveKey(secret, salt))
	if err != nil {
		return &DecryptionError{Reason: "cipher setup failed"}
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return &DecryptionError{Reason: "cipher setup failed"}
	}
	if len(rest) < gcm.NonceSize() {
		return &DecryptionError{Reason: "payload too short"}
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return &DecryptionError{Reason: "authentication failed"}
	}
	if err := json.Unmarshal(plaintext, v); err != nil {
		return &DecryptionError{Reason: "invalid payload contents"}
	}
	return nil
}
