package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"strings"
	"testing"
)

func newTestCipher(t *testing.T, secret string) *VaultCipher {
	t.Helper()
	c, err := NewVaultCipher(secret)
	if err != nil {
		t.Fatalf("NewVaultCipher() unexpected error: %v", err)
	}
	return c
}

func TestNewVaultCipherEmptySecret(t *testing.T) {
	if _, err := NewVaultCipher(""); err != ErrEmptySecret {
		t.Errorf("NewVaultCipher() error = %v, want %v", err, ErrEmptySecret)
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := newTestCipher(t, "vault-secret")

	for _, plaintext := range []string{"", "p@ss", "correct horse battery staple", "pässwörd-ünïcode-🔑", strings.Repeat("x", 4096)} {
		envelope, err := c.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt() unexpected error: %v", err)
		}

		got, err := c.Decrypt(envelope)
		if err != nil {
			t.Fatalf("Decrypt() unexpected error: %v", err)
		}
		if got != plaintext {
			t.Errorf("Decrypt() = %q, want %q", got, plaintext)
		}
	}
}

func TestEncryptEnvelopeFormat(t *testing.T) {
	c := newTestCipher(t, "vault-secret")

	envelope, err := c.Encrypt("p@ss")
	if err != nil {
		t.Fatalf("Encrypt() unexpected error: %v", err)
	}

	parts := strings.Split(envelope, ":")
	if len(parts) != 2 {
		t.Fatalf("Encrypt() envelope %q has %d parts, want 2", envelope, len(parts))
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		t.Fatalf("Encrypt() iv is not hex: %v", err)
	}
	if len(iv) != 12 {
		t.Errorf("Encrypt() iv length = %d, want 12", len(iv))
	}
	if _, err := hex.DecodeString(parts[1]); err != nil {
		t.Errorf("Encrypt() ciphertext is not hex: %v", err)
	}
	if strings.Contains(envelope, "p@ss") {
		t.Error("Encrypt() envelope contains the plaintext")
	}
}

func TestEncryptFreshIV(t *testing.T) {
	c := newTestCipher(t, "vault-secret")
	seenIV := make(map[string]bool)
	seenEnvelope := make(map[string]bool)

	for i := 0; i < 100; i++ {
		envelope, err := c.Encrypt("same-plaintext")
		if err != nil {
			t.Fatalf("Encrypt() unexpected error: %v", err)
		}
		iv := strings.SplitN(envelope, ":", 2)[0]
		if seenIV[iv] {
			t.Fatalf("Encrypt() reused iv %s", iv)
		}
		if seenEnvelope[envelope] {
			t.Fatalf("Encrypt() produced identical envelope for identical plaintext")
		}
		seenIV[iv] = true
		seenEnvelope[envelope] = true
	}
}

func TestDecryptMalformed(t *testing.T) {
	c := newTestCipher(t, "vault-secret")

	tests := []struct {
		name     string
		envelope string
	}{
		{name: "empty", envelope: ""},
		{name: "no separator", envelope: "abcdef"},
		{name: "empty iv", envelope: ":abcdef"},
		{name: "empty ciphertext", envelope: "abcdef:"},
		{name: "three parts", envelope: "ab:cd:ef"},
		{name: "non-hex iv", envelope: "zz:abcdef"},
		{name: "non-hex ciphertext", envelope: "abcdef:zz"},
		{name: "odd iv length", envelope: "aabbcc:abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Decrypt(tt.envelope); err != ErrMalformedEnvelope {
				t.Errorf("Decrypt(%q) error = %v, want %v", tt.envelope, err, ErrMalformedEnvelope)
			}
		})
	}
}

func TestDecryptWrongKey(t *testing.T) {
	envelope, err := newTestCipher(t, "key-one").Encrypt("p@ss")
	if err != nil {
		t.Fatalf("Encrypt() unexpected error: %v", err)
	}

	got, err := newTestCipher(t, "key-two").Decrypt(envelope)
	if err != ErrDecryptionFailed {
		t.Errorf("Decrypt() error = %v, want %v", err, ErrDecryptionFailed)
	}
	if got != "" {
		t.Errorf("Decrypt() returned partial output %q", got)
	}
}

func TestDecryptTampered(t *testing.T) {
	c := newTestCipher(t, "vault-secret")
	envelope, err := c.Encrypt("p@ss")
	if err != nil {
		t.Fatalf("Encrypt() unexpected error: %v", err)
	}

	parts := strings.Split(envelope, ":")
	sealed, _ := hex.DecodeString(parts[1])
	sealed[0] ^= 0xff
	tampered := parts[0] + ":" + hex.EncodeToString(sealed)

	if _, err := c.Decrypt(tampered); err != ErrDecryptionFailed {
		t.Errorf("Decrypt() error = %v, want %v", err, ErrDecryptionFailed)
	}
}

func encryptLegacyCBC(t *testing.T, c *VaultCipher, iv []byte, plaintext string) string {
	t.Helper()
	block, err := aes.NewCipher(c.key)
	if err != nil {
		t.Fatalf("aes.NewCipher() unexpected error: %v", err)
	}
	pad := aes.BlockSize - len(plaintext)%aes.BlockSize
	padded := append([]byte(plaintext), bytes.Repeat([]byte{byte(pad)}, pad)...)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(out)
}

func TestDecryptLegacyCBC(t *testing.T) {
	c := newTestCipher(t, "vault-secret")
	iv := bytes.Repeat([]byte{0x42}, aes.BlockSize)

	for _, plaintext := range []string{"p@ss", "exactly16bytes!!", ""} {
		envelope := encryptLegacyCBC(t, c, iv, plaintext)

		got, err := c.Decrypt(envelope)
		if err != nil {
			t.Fatalf("Decrypt() legacy unexpected error: %v", err)
		}
		if got != plaintext {
			t.Errorf("Decrypt() legacy = %q, want %q", got, plaintext)
		}
	}
}

func TestDecryptLegacyCBCBadLength(t *testing.T) {
	c := newTestCipher(t, "vault-secret")
	iv := hex.EncodeToString(bytes.Repeat([]byte{0x01}, aes.BlockSize))

	if _, err := c.Decrypt(iv + ":abcdef"); err != ErrDecryptionFailed {
		t.Errorf("Decrypt() error = %v, want %v", err, ErrDecryptionFailed)
	}
}

func TestPKCS7Unpad(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    []byte
		wantErr bool
	}{
		{name: "full block of padding", data: bytes.Repeat([]byte{16}, 16), want: []byte{}},
		{name: "one byte of padding", data: append(bytes.Repeat([]byte{'a'}, 15), 1), want: bytes.Repeat([]byte{'a'}, 15)},
		{name: "zero pad byte", data: append(bytes.Repeat([]byte{'a'}, 15), 0), wantErr: true},
		{name: "pad too large", data: append(bytes.Repeat([]byte{'a'}, 15), 17), wantErr: true},
		{name: "inconsistent padding", data: append(bytes.Repeat([]byte{'a'}, 14), 1, 2), wantErr: true},
		{name: "empty", data: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pkcs7Unpad(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Errorf("pkcs7Unpad() expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("pkcs7Unpad() unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("pkcs7Unpad() = %q, want %q", got, tt.want)
			}
		})
	}
}
