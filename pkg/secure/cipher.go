// Package secure encrypts provider tokens before they reach the database.
package secure

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	prefix    = "enc:v1:"
	nonceSize = 24
	keySize   = 32
)

var ErrDecrypt = errors.New("could not decrypt token")

type Cipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(stored string) (string, error)
}

type secretboxCipher struct {
	key [keySize]byte
}

type plainCipher struct{}

// NewCipher builds a cipher from ENCRYPTION_KEY. A 64 character hex key is
// used as is; any other value is hashed into a 32 byte key. An empty key
// disables encryption.
func NewCipher(rawKey string) Cipher {
	rawKey = strings.TrimSpace(rawKey)
	if rawKey == "" {
		return plainCipher{}
	}

	c := &secretboxCipher{}
	if decoded, err := hex.DecodeString(rawKey); err == nil && len(decoded) == keySize {
		copy(c.key[:], decoded)
		return c
	}

	c.key = sha256.Sum256([]byte(rawKey))
	return c
}

func (c *secretboxCipher) Encrypt(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plain), &nonce, &c.key)
	return prefix + base64.RawStdEncoding.EncodeToString(sealed), nil
}

// Decrypt returns values without the envelope prefix unchanged, so rows
// written before encryption was enabled keep working.
func (c *secretboxCipher) Decrypt(stored string) (string, error) {
	if !strings.HasPrefix(stored, prefix) {
		return stored, nil
	}

	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(stored, prefix))
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrDecrypt
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &c.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

func (plainCipher) Encrypt(plain string) (string, error) {
	return plain, nil
}

func (plainCipher) Decrypt(stored string) (string, error) {
	if strings.HasPrefix(stored, prefix) {
		return "", ErrDecrypt
	}
	return stored, nil
}
