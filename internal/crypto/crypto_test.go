package crypto

import (
	"bytes"
	"testing"
)

func TestNewKDF(t *testing.T) {
	kdf, err := NewKDF()
	if err != nil {
		t.Fatalf("Failed to create KDF: %v", err)
	}

	if len(kdf.Salt) != SaltSize {
		t.Errorf("Salt size mismatch: got %d, want %d", len(kdf.Salt), SaltSize)
	}
	if kdf.Iterations != DefaultIters {
		t.Errorf("Iterations mismatch: got %d, want %d", kdf.Iterations, DefaultIters)
	}

	// Two KDFs must get different salts
	kdf2, err := NewKDF()
	if err != nil {
		t.Fatalf("Failed to create second KDF: %v", err)
	}
	if bytes.Equal(kdf.Salt, kdf2.Salt) {
		t.Error("Two KDFs got identical salts")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	kdf, err := NewKDF()
	if err != nil {
		t.Fatalf("Failed to create KDF: %v", err)
	}

	key1, err := kdf.DeriveKey([]byte("master-password"))
	if err != nil {
		t.Fatalf("Failed to derive key: %v", err)
	}
	key2, err := kdf.DeriveKey([]byte("master-password"))
	if err != nil {
		t.Fatalf("Failed to derive key: %v", err)
	}

	if len(key1) != KeySize {
		t.Errorf("Key size mismatch: got %d, want %d", len(key1), KeySize)
	}
	if !bytes.Equal(key1, key2) {
		t.Error("Same password and salt produced different keys")
	}

	// Different password, different key
	key3, err := kdf.DeriveKey([]byte("other-password"))
	if err != nil {
		t.Fatalf("Failed to derive key: %v", err)
	}
	if bytes.Equal(key1, key3) {
		t.Error("Different passwords produced the same key")
	}

	// Same password, different salt, different key
	kdf2, err := NewKDF()
	if err != nil {
		t.Fatalf("Failed to create second KDF: %v", err)
	}
	key4, err := kdf2.DeriveKey([]byte("master-password"))
	if err != nil {
		t.Fatalf("Failed to derive key: %v", err)
	}
	if bytes.Equal(key1, key4) {
		t.Error("Different salts produced the same key")
	}
}

func TestDeriveKeyBadSalt(t *testing.T) {
	kdf := &KDF{
		Salt:       []byte("short"),
		Iterations: DefaultIters,
	}
	if _, err := kdf.DeriveKey([]byte("password")); err == nil {
		t.Error("Expected error for short salt")
	}
}

func TestEncryptDecrypt(t *testing.T) {
	key, err := GenerateRandom(KeySize)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	enc := NewEncryptor(key)

	plaintext := []byte("secret record data")
	ciphertext, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}

	if bytes.Contains(ciphertext, plaintext) {
		t.Error("Ciphertext contains plaintext")
	}

	decrypted, err := enc.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Failed to decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("Decrypted data mismatch: got %v, want %v", decrypted, plaintext)
	}
}

func TestEncryptFreshNonce(t *testing.T) {
	key, err := GenerateRandom(KeySize)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	enc := NewEncryptor(key)

	plaintext := []byte("same plaintext")
	c1, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}
	c2, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}

	if bytes.Equal(c1, c2) {
		t.Error("Encrypting the same plaintext twice produced identical ciphertexts")
	}
}

func TestDecryptTampered(t *testing.T) {
	key, err := GenerateRandom(KeySize)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	enc := NewEncryptor(key)

	ciphertext, err := enc.Encrypt([]byte("authenticated data"))
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}

	// Flipping any single byte must fail authentication
	for i := range ciphertext {
		tampered := make([]byte, len(ciphertext))
		copy(tampered, ciphertext)
		tampered[i] ^= 0x01

		if _, err := enc.Decrypt(tampered); err == nil {
			t.Errorf("Tampered byte %d was not detected", i)
		}
	}
}

func TestDecryptWrongKey(t *testing.T) {
	key1, err := GenerateRandom(KeySize)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	key2, err := GenerateRandom(KeySize)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}

	ciphertext, err := NewEncryptor(key1).Encrypt([]byte("secret"))
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}

	if _, err := NewEncryptor(key2).Decrypt(ciphertext); err == nil {
		t.Error("Decryption with wrong key should fail")
	}
}

func TestDecryptTruncated(t *testing.T) {
	key, err := GenerateRandom(KeySize)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	enc := NewEncryptor(key)

	if _, err := enc.Decrypt([]byte("too short")); err == nil {
		t.Error("Expected error for truncated ciphertext")
	}
	if _, err := enc.Decrypt(nil); err == nil {
		t.Error("Expected error for empty ciphertext")
	}
}

func TestClearBytes(t *testing.T) {
	data := []byte("sensitive")
	ClearBytes(data)
	for i, b := range data {
		if b != 0 {
			t.Errorf("Byte %d not cleared: %v", i, b)
		}
	}
}

func TestConstantTimeCompare(t *testing.T) {
	if !ConstantTimeCompare([]byte("abc"), []byte("abc")) {
		t.Error("Equal slices should compare equal")
	}
	if ConstantTimeCompare([]byte("abc"), []byte("abd")) {
		t.Error("Different slices should not compare equal")
	}
	if ConstantTimeCompare([]byte("abc"), []byte("abcd")) {
		t.Error("Different length slices should not compare equal")
	}
}
