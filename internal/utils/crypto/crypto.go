package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"draperads/internal/utils/logger"

	"golang.org/x/crypto/hkdf"
)

var log = logger.New("crypto")

var ErrMalformed = errors.New("sealed payload is malformed")

// Sealer encrypts and authenticates small payloads with a key derived from a secret.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives an AES-256 key for the given purpose from secret.
// Different purposes yield independent keys.
func NewSealer(secret, purpose string) (*Sealer, error) {
	if secret == "" {
		return nil, errors.New("secret is required")
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	log.Debug("Initialized sealer for %s", purpose)
	return &Sealer{aead: aead}, nil
}

// Seal returns base64(nonce || ciphertext).
func (s *Sealer) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Tampered or foreign payloads fail authentication.
func (s *Sealer) Open(encoded string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrMalformed
	}
	n := s.aead.NonceSize()
	if len(raw) < n {
		return nil, ErrMalformed
	}

	plaintext, err := s.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open payload: %w", err)
	}
	return plaintext, nil
}
