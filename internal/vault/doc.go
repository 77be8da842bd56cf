// Package vault implements the encrypted record store.
//
// A Vault is a state machine: it starts Locked, Create or Unlock move it
// to Unlocked, and Lock (or Close, or process exit) moves it back. The
// PBKDF2-derived session key exists only while unlocked and is zeroed on
// lock. The Argon2id verifier hash answers "is this the right password"
// without ever touching the key derivation path.
//
// Every mutation persists through a single bbolt transaction, so a crash
// mid-operation leaves the on-disk vault in either the prior state or the
// fully applied one, never a hybrid.
package vault
