package session

import (
	"testing"

	"poolchill/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	bundle := models.TokenBundle{
		AccessToken:  "header.claims.sig",
		RefreshToken: "refresh-123",
		User:         models.User{ID: "u1", Email: "ana@x.com", FirstName: "Ana"},
		ExpiresIn:    3600,
	}

	encoded, err := EncryptPayload("shared-secret", bundle)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	var out models.TokenBundle
	require.NoError(t, DecryptPayload("shared-secret", encoded, &out))
	assert.Equal(t, bundle, out)
}

func TestPayloadWrongSecret(t *testing.T) {
	encoded, err := EncryptPayload("secret-a", map[string]string{"k": "v"})
	require.NoError(t, err)

	var out map[string]string
	err = DecryptPayload("secret-b", encoded, &out)
	var decErr *DecryptionError
	require.ErrorAs(t, err, &decErr)
}

func TestPayloadMalformedInputs(t *testing.T) {
	cases := []struct {
		name    string
		encoded string
	}{
		{"not base64", "!!not-base64!!"},
		{"empty", ""},
		{"too short", "YWJj"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out map[string]string
			err := DecryptPayload("secret", tc.encoded, &out)
			var decErr *DecryptionError
			require.ErrorAs(t, err, &decErr)
		})
	}
}

func TestPayloadTamperDetected(t *testing.T) {
	encoded, err := EncryptPayload("secret", map[string]string{"k": "v"})
	require.NoError(t, err)

	// Flip a character in the ciphertext region.
	tampered := []byte(encoded)
	i := len(tampered) - 4
	if tampered[i] == 'A' {
		tampered[i] = 'B'
	} else {
		tampered[i] = 'A'
	}

	var out map[string]string
	err = DecryptPayload("secret", string(tampered), &out)
	var decErr *DecryptionError
	require.ErrorAs(t, err, &decErr)
}
