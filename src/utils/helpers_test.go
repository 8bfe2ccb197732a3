package utils

import (
	"encoding/hex"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSuffix(t *testing.T) {
	os.Unsetenv("QUEUE_SUFFIX")
	assert.Equal(t, "EmailsToSend", WithSuffix("EmailsToSend"))

	os.Setenv("QUEUE_SUFFIX", "staging")
	defer os.Unsetenv("QUEUE_SUFFIX")
	assert.Equal(t, "EmailsToSend_staging", WithSuffix("EmailsToSend"))
}

func TestEncryptDecryptMessage(t *testing.T) {
	key, err := hex.DecodeString("6368616e676520746869732070617373776f726420746f206120736563726574")
	require.NoError(t, err)

	message := `{"bookingId":5,"eventId":1,"userId":2,"seats":3}`
	encrypted, err := EncryptMessage(key, message)
	require.NoError(t, err)
	assert.NotEqual(t, message, encrypted)

	decrypted, err := DecryptMessage(key, encrypted)
	require.NoError(t, err)
	assert.Equal(t, message, *decrypted)
}

func TestDecryptMessageRejectsTampering(t *testing.T) {
	key, err := hex.DecodeString("6368616e676520746869732070617373776f726420746f206120736563726574")
	require.NoError(t, err)

	encrypted, err := EncryptMessage(key, "some message")
	require.NoError(t, err)

	flipped := "0"
	if encrypted[0] == '0' {
		flipped = "f"
	}
	tampered := flipped + encrypted[1:]
	_, err = DecryptMessage(key, tampered)
	assert.Error(t, err)
}
