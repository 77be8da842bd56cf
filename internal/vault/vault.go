package vault

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hemanthkumar2k04/PassHolder/internal/crypto"
	"github.com/Hemanthkumar2k04/PassHolder/internal/record"
	"github.com/Hemanthkumar2k04/PassHolder/internal/storage"
)

const (
	DirPermSecure  = 0700 // Vault directory: owner rwx only
	FilePermSecure = 0600 // Vault file: owner rw only
)

var (
	ErrVaultNotFound = errors.New("vault not found")
	ErrVaultExists   = errors.New("vault already exists")
	ErrWrongPassword = errors.New("wrong password")
	ErrLocked        = errors.New("vault is locked")
	ErrNotFound      = errors.New("record not found")
	ErrCorrupted     = errors.New("vault data corrupted")
)

// Vault owns the persisted store and the unlocked session. It starts
// Locked; Create or Unlock transition it to Unlocked, at which point the
// derived encryption key lives in memory until Lock or Close zeroes it.
//
// A single mutex serializes mutations; reads may run concurrently with
// each other but never with a mutation.
type Vault struct {
	path string
	db   *storage.Store

	mu  sync.RWMutex
	key []byte // nil while locked
}

// New creates a Vault handle for the given file path. No file is touched
// until Create or Unlock.
func New(path string) *Vault {
	return &Vault{path: path}
}

// Path returns the vault file path
func (v *Vault) Path() string {
	return v.path
}

// Exists reports whether the vault file is present on disk
func (v *Vault) Exists() bool {
	_, err := os.Stat(v.path)
	return err == nil
}

// Unlocked reports whether a session key is currently held
func (v *Vault) Unlocked() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.key != nil
}

// Create initializes a new vault with the given master password and
// leaves it unlocked. Fails with ErrVaultExists when a vault is already
// present at the path. Iterations below the supported minimum are raised
// to the default; counts that do not fit the persisted 32-bit field are
// rejected, so the count used for derivation is always the stored one.
func (v *Vault) Create(password []byte, iterations int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, err := os.Stat(v.path); err == nil {
		return ErrVaultExists
	}

	if iterations < crypto.MinIterations {
		iterations = crypto.DefaultIters
	}
	if int64(iterations) > math.MaxUint32 {
		return fmt.Errorf("iteration count %d exceeds the supported maximum", iterations)
	}

	dir := filepath.Dir(v.path)
	if err := os.MkdirAll(dir, DirPermSecure); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	kdf, err := crypto.NewKDF()
	if err != nil {
		return fmt.Errorf("failed to create KDF: %w", err)
	}
	kdf.Iterations = iterations

	verifier, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	db, err := storage.Open(v.path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := db.Initialize(kdf.Salt, uint32(iterations), verifier); err != nil {
		db.Close()
		os.Remove(v.path)
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	key, err := kdf.DeriveKey(password)
	if err != nil {
		db.Close()
		os.Remove(v.path)
		return err
	}

	v.db = db
	v.key = key
	return nil
}

// Unlock verifies the master password and derives the session key.
// A missing vault file yields ErrVaultNotFound; a failed verification
// yields ErrWrongPassword and the vault stays locked. Unlocking an
// already unlocked vault re-verifies and replaces the session.
func (v *Vault) Unlock(password []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, err := os.Stat(v.path); err != nil {
		return ErrVaultNotFound
	}

	if v.db == nil {
		db, err := storage.Open(v.path)
		if err != nil {
			return fmt.Errorf("failed to open vault: %w", err)
		}
		v.db = db
	}

	verifier, err := v.db.GetVerifier()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	ok, err := crypto.VerifyPassword(password, verifier)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if !ok {
		return ErrWrongPassword
	}

	salt, err := v.db.GetSalt()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	iterations, err := v.db.GetIterations()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	kdf := &crypto.KDF{Salt: salt, Iterations: int(iterations)}
	key, err := kdf.DeriveKey(password)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	if v.key != nil {
		crypto.ClearBytes(v.key)
	}
	v.key = key
	return nil
}

// Lock discards the session key. Safe to call repeatedly.
func (v *Vault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.key != nil {
		crypto.ClearBytes(v.key)
		v.key = nil
	}
}

// Close locks the vault and releases the underlying database
func (v *Vault) Close() error {
	v.Lock()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.db != nil {
		err := v.db.Close()
		v.db = nil
		return err
	}
	return nil
}

// Add assigns a fresh id and timestamps to the record, encrypts it with
// the session key and persists it atomically. Returns the new id.
func (v *Vault) Add(r record.Record) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.key == nil {
		return "", ErrLocked
	}

	r.ID = uuid.NewString()
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	if err := v.putLocked(r); err != nil {
		return "", err
	}
	return r.ID, nil
}

// Get decrypts and decodes a single record. A missing id yields
// ErrNotFound. An authentication failure here means the stored blob was
// tampered with or corrupted, since the key was already verified for the
// session; that surfaces as ErrCorrupted, never as a silent default.
func (v *Vault) Get(id string) (record.Record, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.key == nil {
		return record.Record{}, ErrLocked
	}

	ciphertext, err := v.db.GetRecord(id)
	if err != nil {
		return record.Record{}, fmt.Errorf("failed to read record: %w", err)
	}
	if ciphertext == nil {
		return record.Record{}, ErrNotFound
	}

	return v.openLocked(id, ciphertext)
}

// List decrypts and decodes all records. Order follows the storage key
// order and is stable across calls while no mutation interleaves.
func (v *Vault) List() ([]record.Record, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.key == nil {
		return nil, ErrLocked
	}

	var records []record.Record
	err := v.db.ForEachRecord(func(id string, ciphertext []byte) error {
		r, err := v.openLocked(id, ciphertext)
		if err != nil {
			return err
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Update replaces the record stored under id. The id and creation time
// are preserved; the blob is re-encrypted with a fresh nonce, so the
// stored ciphertext changes even when the fields do not.
func (v *Vault) Update(id string, r record.Record) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.key == nil {
		return ErrLocked
	}

	ciphertext, err := v.db.GetRecord(id)
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}
	if ciphertext == nil {
		return ErrNotFound
	}

	existing, err := v.openLocked(id, ciphertext)
	if err != nil {
		return err
	}

	r.ID = id
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = time.Now().UTC()

	return v.putLocked(r)
}

// Remove deletes the record stored under id. The removal commits
// atomically and is irreversible.
func (v *Vault) Remove(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.key == nil {
		return ErrLocked
	}

	existed, err := v.db.DeleteRecord(id)
	if err != nil {
		return fmt.Errorf("failed to remove record: %w", err)
	}
	if !existed {
		return ErrNotFound
	}
	return nil
}

// ResolveID expands a record id prefix to the full id. Ids are storage
// keys, so no decryption is needed. Ambiguous prefixes are rejected;
// an unmatched prefix yields ErrNotFound.
func (v *Vault) ResolveID(prefix string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.key == nil {
		return "", ErrLocked
	}

	var matches []string
	err := v.db.ForEachRecord(func(id string, _ []byte) error {
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	switch len(matches) {
	case 0:
		return "", ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous record id %q matches %d records", prefix, len(matches))
	}
}

// SearchByService returns all records whose service contains the query,
// case-insensitively. There is no plaintext index, so every candidate is
// decrypted; an index would leak structure to anyone holding the file.
func (v *Vault) SearchByService(query string) ([]record.Record, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.key == nil {
		return nil, ErrLocked
	}

	needle := strings.ToLower(query)
	var matches []record.Record
	err := v.db.ForEachRecord(func(id string, ciphertext []byte) error {
		r, err := v.openLocked(id, ciphertext)
		if err != nil {
			return err
		}
		if strings.Contains(strings.ToLower(r.Service), needle) {
			matches = append(matches, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// ChangePassword re-keys the vault: all records are decrypted under the
// current key, then a new salt, verifier and ciphertexts are committed in
// one transaction. A crash mid-change leaves the vault fully on the old
// password.
func (v *Vault) ChangePassword(currentPassword, newPassword []byte) error {
	if err := v.Unlock(currentPassword); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	type plainRecord struct {
		id   string
		data []byte
	}
	var plains []plainRecord
	defer func() {
		for i := range plains {
			crypto.ClearBytes(plains[i].data)
		}
	}()

	enc := crypto.NewEncryptor(v.key)
	err := v.db.ForEachRecord(func(id string, ciphertext []byte) error {
		data, err := enc.Decrypt(ciphertext)
		if err != nil {
			return fmt.Errorf("%w: record %s: %v", ErrCorrupted, id, err)
		}
		plains = append(plains, plainRecord{id: id, data: data})
		return nil
	})
	if err != nil {
		return err
	}

	newKDF, err := crypto.NewKDF()
	if err != nil {
		return fmt.Errorf("failed to create new KDF: %w", err)
	}

	newKey, err := newKDF.DeriveKey(newPassword)
	if err != nil {
		return err
	}

	verifier, err := crypto.HashPassword(newPassword)
	if err != nil {
		crypto.ClearBytes(newKey)
		return fmt.Errorf("failed to hash password: %w", err)
	}

	newEnc := crypto.NewEncryptor(newKey)
	reencrypted := make(map[string][]byte, len(plains))
	for _, p := range plains {
		ciphertext, err := newEnc.Encrypt(p.data)
		if err != nil {
			crypto.ClearBytes(newKey)
			return fmt.Errorf("failed to re-encrypt record %s: %w", p.id, err)
		}
		reencrypted[p.id] = ciphertext
	}

	if err := v.db.Rekey(newKDF.Salt, uint32(newKDF.Iterations), verifier, reencrypted); err != nil {
		crypto.ClearBytes(newKey)
		return fmt.Errorf("failed to rekey vault: %w", err)
	}

	crypto.ClearBytes(v.key)
	v.key = newKey
	return nil
}

// Info contains vault state that requires no password
type Info struct {
	RecordCount   int
	Algorithm     string
	KDFIterations uint32
	Created       time.Time
	Modified      time.Time
}

// Status returns vault information without unlocking
func (v *Vault) Status() (*Info, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, err := os.Stat(v.path); err != nil {
		return nil, ErrVaultNotFound
	}

	if v.db == nil {
		db, err := storage.Open(v.path)
		if err != nil {
			return nil, fmt.Errorf("failed to open vault: %w", err)
		}
		v.db = db
	}

	info := &Info{Algorithm: "AES-256-GCM"}

	count, err := v.db.CountRecords()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	info.RecordCount = count

	if iterations, err := v.db.GetIterations(); err == nil {
		info.KDFIterations = iterations
	}
	if created, err := v.db.GetCreated(); err == nil {
		info.Created = created
	}
	if modified, err := v.db.GetModified(); err == nil {
		info.Modified = modified
	}

	return info, nil
}

// VerifyPassword checks the master password without keeping a session
func (v *Vault) VerifyPassword(password []byte) error {
	if err := v.Unlock(password); err != nil {
		return err
	}
	v.Lock()
	return nil
}

// GetVaultID retrieves the vault ID, used as the keyring account name
func (v *Vault) GetVaultID() (string, error) {
	if err := v.ensureOpen(); err != nil {
		return "", err
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.db.GetVaultID()
}

// GetOrCreateVaultID retrieves the existing vault ID or generates one
func (v *Vault) GetOrCreateVaultID() (string, error) {
	if err := v.ensureOpen(); err != nil {
		return "", err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.db.GetOrCreateVaultID()
}

// Compact compacts the database to reclaim unused space
func (v *Vault) Compact() error {
	if err := v.ensureOpen(); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.db.Compact()
}

func (v *Vault) ensureOpen() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.db != nil {
		return nil
	}
	if _, err := os.Stat(v.path); err != nil {
		return ErrVaultNotFound
	}
	db, err := storage.Open(v.path)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	v.db = db
	return nil
}

// putLocked encodes, encrypts and stores a record. Caller holds the
// write lock and has checked the session key.
func (v *Vault) putLocked(r record.Record) error {
	plaintext, err := record.Encode(r)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(plaintext)

	enc := crypto.NewEncryptor(v.key)
	ciphertext, err := enc.Encrypt(plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt record: %w", err)
	}

	if err := v.db.PutRecord(r.ID, ciphertext); err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	return nil
}

// openLocked decrypts and decodes a stored blob. Caller holds at least
// the read lock and has checked the session key.
func (v *Vault) openLocked(id string, ciphertext []byte) (record.Record, error) {
	enc := crypto.NewEncryptor(v.key)
	plaintext, err := enc.Decrypt(ciphertext)
	if err != nil {
		return record.Record{}, fmt.Errorf("%w: record %s: %v", ErrCorrupted, id, err)
	}
	defer crypto.ClearBytes(plaintext)

	r, err := record.Decode(plaintext)
	if err != nil {
		return record.Record{}, fmt.Errorf("%w: record %s: %v", ErrCorrupted, id, err)
	}
	return r, nil
}

// SortByService orders records by service, then username, for display
func SortByService(records []record.Record) {
	sort.Slice(records, func(i, j int) bool {
		si, sj := strings.ToLower(records[i].Service), strings.ToLower(records[j].Service)
		if si != sj {
			return si < sj
		}
		return records[i].Username < records[j].Username
	})
}
