// Package crypto encrypts and decrypts stored document blobs with a single
// process-wide key derived from a passphrase.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// blobMagic prefixes every encrypted blob so foreign data is rejected early.
var blobMagic = []byte("DVE1")

var (
	ErrEmptyPassphrase = errors.New("passphrase is empty")
	ErrMalformedBlob   = errors.New("malformed encrypted blob")
	ErrDecrypt         = errors.New("decryption failed")
)

// Cipher seals and opens blobs with AES-256-GCM. It is safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// New derives the AES key from passphrase and salt using PBKDF2-SHA256.
func New(passphrase, salt string, iterations int) (*Cipher, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	if iterations <= 0 {
		iterations = 100000
	}
	key := pbkdf2.Key([]byte(passphrase), []byte(salt), iterations, 32, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Cipher{aead: gcm}, nil
}

// Encrypt returns magic || nonce || ciphertext. The API only decrypts; the
// consumer that turns uploads into documents writes blobs in this format,
// and tests use Encrypt to build fixtures.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(blobMagic)+len(nonce)+len(plaintext)+c.aead.Overhead())
	out = append(out, blobMagic...)
	out = append(out, nonce...)
	return c.aead.Seal(out, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt.
func (c *Cipher) Decrypt(blob []byte) ([]byte, error) {
	ns := c.aead.NonceSize()
	if len(blob) < len(blobMagic)+ns+c.aead.Overhead() || !bytes.HasPrefix(blob, blobMagic) {
		return nil, ErrMalformedBlob
	}
	body := blob[len(blobMagic):]
	plaintext, err := c.aead.Open(nil, body[:ns], body[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return plaintext, nil
}

// DecryptReader reads r to the end and decrypts it. GCM authenticates the
// whole message, so nothing is released before the tag has been checked.
func (c *Cipher) DecryptReader(r io.Reader) ([]byte, error) {
	blob, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read encrypted blob: %w", err)
	}
	return c.Decrypt(blob)
}
