// Package crypto provides cryptographic operations for passholder.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from the master password via PBKDF2
//   - 12-byte random nonce per encryption operation
//   - Authenticated encryption prevents tampering
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - 16-byte random salt (stored unencrypted)
//   - 100,000 iterations by default, persisted per vault
//
// Unlock verification uses Argon2id with an independent internal salt.
// Verification and key derivation are separate one-way transforms of the
// same password: a leaked verifier hash cannot be used to compute the
// encryption key.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Encryptor.Destroy() when done with encryption operations
package crypto
