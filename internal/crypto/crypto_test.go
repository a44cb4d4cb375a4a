package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New("", "salt", 1000)
	assert.ErrorIs(t, err, ErrEmptyPassphrase)

	c, err := New("pass", "salt", 0)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestCipher_RoundTrip(t *testing.T) {
	c, err := New("correct horse", "salt", 1000)
	require.NoError(t, err)

	plaintext := []byte("%PDF-1.4 fake document body")
	blob, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(blob, blobMagic))
	assert.NotContains(t, string(blob), "fake document body")

	got, err := c.DecryptReader(bytes.NewReader(blob))
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestCipher_NonceIsFresh(t *testing.T) {
	c, err := New("pass", "salt", 1000)
	require.NoError(t, err)

	a, err := c.Encrypt([]byte("same"))
	require.NoError(t, err)
	b, err := c.Encrypt([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCipher_Decrypt(t *testing.T) {
	c, err := New("pass", "salt", 1000)
	require.NoError(t, err)
	other, err := New("other pass", "salt", 1000)
	require.NoError(t, err)

	blob, err := c.Encrypt([]byte("secret"))
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		_, err := other.Decrypt(blob)
		assert.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("tampered body", func(t *testing.T) {
		tampered := append([]byte(nil), blob...)
		tampered[len(tampered)-1] ^= 0xff
		_, err := c.Decrypt(tampered)
		assert.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("missing magic", func(t *testing.T) {
		_, err := c.Decrypt(append([]byte("XXXX"), blob[4:]...))
		assert.ErrorIs(t, err, ErrMalformedBlob)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := c.Decrypt([]byte("DVE1"))
		assert.ErrorIs(t, err, ErrMalformedBlob)
	})
}
