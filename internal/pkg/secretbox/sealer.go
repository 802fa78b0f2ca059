// Package secretbox seals small secrets (OAuth tokens) before they are stored.
package secretbox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const sealedPrefix = "sb1:"

var ErrOpen = errors.New("secretbox: cannot open sealed value")

// Sealer encrypts with NaCl secretbox. A Sealer built from an empty key is a
// passthrough, so development setups work without a key.
type Sealer struct {
	key     *[32]byte
	enabled bool
}

// NewSealer derives the 32 byte key from passphrase with SHA-256.
func NewSealer(passphrase string) *Sealer {
	if passphrase == "" {
		return &Sealer{}
	}
	k := sha256.Sum256([]byte(passphrase))
	return &Sealer{key: &k, enabled: true}
}

func (s *Sealer) Enabled() bool { return s.enabled }

func (s *Sealer) Seal(plaintext string) (string, error) {
	if !s.enabled {
		return plaintext, nil
	}
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	out := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, s.key)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(out), nil
}

// Open accepts sealed values and, for values written before a key was set, plaintext.
func (s *Sealer) Open(stored string) (string, error) {
	if !strings.HasPrefix(stored, sealedPrefix) {
		return stored, nil
	}
	if !s.enabled {
		return "", ErrOpen
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(stored, sealedPrefix))
	if err != nil || len(raw) < 24 {
		return "", ErrOpen
	}
	var nonce [24]byte
	copy(nonce[:], raw[:24])
	plain, ok := secretbox.Open(nil, raw[24:], &nonce, s.key)
	if !ok {
		return "", ErrOpen
	}
	return string(plain), nil
}
