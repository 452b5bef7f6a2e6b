package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

var (
	ErrMalformedEnvelope = errors.New("malformed ciphertext envelope")
	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrEmptySecret       = errors.New("encryption secret is required")
)

// Fixed key derivation parameters. Changing any of them makes existing vault
// records unreadable.
const (
	kdfSalt   = "salt"
	kdfN      = 16384
	kdfR      = 8
	kdfP      = 1
	keyLength = 32

	legacyIVLength = aes.BlockSize
)

// VaultCipher encrypts vault secrets at rest with AES-256-GCM.
//
// Envelopes have the form hex(nonce):hex(ciphertext). A fresh random nonce is
// drawn for every Encrypt call. Envelopes carrying a 16-byte IV were written by
// the previous AES-256-CBC scheme and are decrypted read-only.
type VaultCipher struct {
	key  []byte
	aead cipher.AEAD
}

// NewVaultCipher stretches secret into an AES-256 key with scrypt.
func NewVaultCipher(secret string) (*VaultCipher, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	key, err := scrypt.Key([]byte(secret), []byte(kdfSalt), kdfN, kdfR, kdfP, keyLength)
	if err != nil {
		return nil, fmt.Errorf("deriving vault key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating block cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating gcm: %w", err)
	}

	return &VaultCipher{key: key, aead: aead}, nil
}

// Encrypt seals plaintext under a new random nonce.
func (c *VaultCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(sealed), nil
}

// Decrypt opens an envelope produced by Encrypt or by the legacy CBC scheme.
// It never returns partial plaintext.
func (c *VaultCipher) Decrypt(envelope string) (string, error) {
	iv, ciphertext, err := parseEnvelope(envelope)
	if err != nil {
		return "", err
	}

	switch len(iv) {
	case c.aead.NonceSize():
		plaintext, err := c.aead.Open(nil, iv, ciphertext, nil)
		if err != nil {
			return "", ErrDecryptionFailed
		}
		return string(plaintext), nil
	case legacyIVLength:
		return c.decryptCBC(iv, ciphertext)
	default:
		return "", ErrMalformedEnvelope
	}
}

func (c *VaultCipher) decryptCBC(iv, ciphertext []byte) (string, error) {
	if len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrDecryptionFailed
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)

	plaintext, err := pkcs7Unpad(out)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// parseEnvelope splits "iv:ciphertext" into two non-empty hex segments.
func parseEnvelope(envelope string) ([]byte, []byte, error) {
	parts := strings.Split(envelope, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, nil, ErrMalformedEnvelope
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, nil, ErrMalformedEnvelope
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, nil, ErrMalformedEnvelope
	}

	return iv, ciphertext, nil
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, ErrDecryptionFailed
	}
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize {
		return nil, ErrDecryptionFailed
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrDecryptionFailed
		}
	}
	return data[:len(data)-n], nil
}
