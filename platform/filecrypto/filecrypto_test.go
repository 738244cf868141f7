package filecrypto

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte(`{"token":"abc","role":"client"}`)

	encrypted, err := Encrypt(plaintext, "test-secret")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(encrypted, []byte("abc")) {
		t.Fatalf("ciphertext leaks plaintext")
	}

	decrypted, err := Decrypt(encrypted, "test-secret")
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Fatalf("round trip mismatch: got %q", decrypted)
	}
}

func TestDecryptWrongSecret(t *testing.T) {
	encrypted, err := Encrypt([]byte("payload"), "right-secret")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := Decrypt(encrypted, "wrong-secret"); err == nil {
		t.Fatalf("expected decrypt failure with wrong secret")
	}
}

func TestDecryptTruncated(t *testing.T) {
	if _, err := Decrypt([]byte("short"), "secret"); err == nil {
		t.Fatalf("expected failure on truncated input")
	}
}

func TestEncryptEmptySecret(t *testing.T) {
	if _, err := Encrypt([]byte("payload"), ""); err == nil {
		t.Fatalf("expected failure with empty secret")
	}
}
