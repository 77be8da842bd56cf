// Package storage provides the BBolt database interface for passholder.
//
// Database structure uses two buckets:
//   - config: KDF parameters (salt, iterations), Argon2id verifier hash,
//     format version, timestamps, vault id (unencrypted)
//   - secrets: encrypted record blobs keyed by record id
//
// The secrets bucket only ever holds AES-GCM ciphertext; no record field
// is written to disk in plaintext. The config bucket holds nothing secret:
// the salt and verifier hash allow yes/no password verification but not
// recovery of the password or the encryption key.
//
// BBolt provides ACID transactions, file locking, and corruption detection,
// which is what makes every mutation crash-atomic.
package storage
