package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/fixtures/pkg/domain"
	"github.com/aretw0/fixtures/pkg/loader"
	"github.com/aretw0/fixtures/pkg/ports"
)

// envelopeKey holds the sealed document inside a stored entry.
const envelopeKey = "__encrypted__"

// ErrKeySize is returned for keys that are not 32 bytes long.
var ErrKeySize = errors.New("encryption key must be 32 bytes (AES-256)")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new entries.
	ActiveKey []byte

	// FallbackKeys are tried in order when the active key cannot open an entry.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.CacheStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that seals cached documents with AES-GCM.
// Entry metadata stays readable so stores can still index and expire entries.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, ErrKeySize
	}
	for _, k := range config.FallbackKeys {
		if len(k) != 32 {
			return nil, fmt.Errorf("fallback key: %w", ErrKeySize)
		}
	}
	return func(next ports.CacheStore) ports.CacheStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}, nil
}

// ParseKey decodes a base64 encoded 32 byte key.
func ParseKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key: %w", err)
	}
	if len(key) != 32 {
		return nil, ErrKeySize
	}
	return key, nil
}

func (m *encryptionMiddleware) Put(ctx context.Context, src *domain.DataSource) error {
	plainText, err := loader.EncodeJSON(src.Value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", src.Path, err)
	}

	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", src.Path, err)
	}

	envelope := *src
	envelope.Value = map[string]any{
		envelopeKey: base64.StdEncoding.EncodeToString(ciphertext),
	}
	return m.next.Put(ctx, &envelope)
}

func (m *encryptionMiddleware) Get(ctx context.Context, path string) (*domain.DataSource, error) {
	envelope, err := m.next.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	sealed, _ := envelope.Value.(map[string]any)
	encryptedStr, ok := sealed[envelopeKey].(string)
	if !ok {
		return nil, fmt.Errorf("entry %s is missing encrypted data envelope", path)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encryptedStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt %s: %w", path, err)
	}

	value, err := loader.DecodeJSON(plainText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode decrypted %s: %w", path, err)
	}

	out := *envelope
	out.Value = value
	return &out, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, path string) error {
	return m.next.Delete(ctx, path)
}

func (m *encryptionMiddleware) Clear(ctx context.Context) error {
	return m.next.Clear(ctx)
}

func (m *encryptionMiddleware) Len(ctx context.Context) (int, error) {
	return m.next.Len(ctx)
}

// Close closes the wrapped store when it holds resources.
func (m *encryptionMiddleware) Close() error {
	if c, ok := m.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
