// Package filecrypto provides AES-256-GCM encryption for local state files,
// with the key derived from a configured secret via scrypt.
package filecrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const saltSize = 16

// scrypt parameters: interactive-strength, the file is re-derived once per run.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// Encrypt encrypts plaintext with a key derived from secret.
// The output layout is salt || nonce || ciphertext.
func Encrypt(plaintext []byte, secret string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("encryption secret must not be empty")
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	aesGCM, err := newGCM(secret, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+aesGCM.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aesGCM.Seal(out, nonce, plaintext, nil), nil
}

// Decrypt reverses Encrypt for a salt || nonce || ciphertext payload.
func Decrypt(data []byte, secret string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("encryption secret must not be empty")
	}
	if len(data) < saltSize {
		return nil, errors.New("ciphertext too short")
	}

	salt, rest := data[:saltSize], data[saltSize:]

	aesGCM, err := newGCM(secret, salt)
	if err != nil {
		return nil, err
	}

	nonceSize := aesGCM.NonceSize()
	if len(rest) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := rest[:nonceSize], rest[nonceSize:]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	return plaintext, nil
}

func newGCM(secret string, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(secret), salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return aesGCM, nil
}
