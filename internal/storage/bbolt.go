package storage

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket  = []byte("config")  // KDF params, verifier hash, timestamps - unencrypted
	SecretsBucket = []byte("secrets") // Encrypted record blobs, keyed by record id
)

// Config keys
var (
	ConfigVersion  = []byte("version")
	ConfigCreated  = []byte("created")
	ConfigModified = []byte("modified")
	ConfigSalt     = []byte("salt")
	ConfigIters    = []byte("iterations")
	ConfigVerifier = []byte("verifier")
	ConfigVaultID  = []byte("vault_id")
)

// Store provides BBolt-based storage for the vault. BBolt keeps the whole
// vault in a single file and gives every mutation transactional,
// crash-atomic semantics: a process killed mid-write leaves either the
// previous state or the fully committed one.
type Store struct {
	db *bolt.DB
}

// Open opens or creates a vault database. A database left moved aside by
// an interrupted Compact is restored from its backup file first.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		backup := path + ".backup"
		if _, berr := os.Stat(backup); berr == nil {
			if rerr := os.Rename(backup, path); rerr != nil {
				return nil, fmt.Errorf("failed to restore backup: %w", rerr)
			}
		}
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.db.Path()
}

// Initialize creates the bucket structure and vault parameters for a new
// vault in a single transaction, so a half-created vault never hits disk.
func (s *Store) Initialize(salt []byte, iterations uint32, verifier string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, SecretsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}

		now := time.Now()
		created, _ := now.MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		if err := config.Put(ConfigModified, created); err != nil {
			return err
		}

		if err := config.Put(ConfigSalt, salt); err != nil {
			return err
		}
		iters := make([]byte, 4)
		binary.BigEndian.PutUint32(iters, iterations)
		if err := config.Put(ConfigIters, iters); err != nil {
			return err
		}
		return config.Put(ConfigVerifier, []byte(verifier))
	})
}

// IsInitialized checks if the database has been initialized
func (s *Store) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// GetSalt retrieves the KDF salt
func (s *Store) GetSalt() ([]byte, error) {
	var salt []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		salt = config.Get(ConfigSalt)
		if salt == nil {
			return fmt.Errorf("salt not found")
		}
		// Make a copy since the slice is only valid during the transaction
		salt = append([]byte(nil), salt...)
		return nil
	})
	return salt, err
}

// GetIterations retrieves the KDF iteration count
func (s *Store) GetIterations() (uint32, error) {
	var iterations uint32
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		iters := config.Get(ConfigIters)
		if iters == nil || len(iters) != 4 {
			return fmt.Errorf("iterations not found")
		}
		iterations = binary.BigEndian.Uint32(iters)
		return nil
	})
	return iterations, err
}

// GetVerifier retrieves the encoded password verifier hash
func (s *Store) GetVerifier() (string, error) {
	var verifier string
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigVerifier)
		if data == nil {
			return fmt.Errorf("verifier not found")
		}
		verifier = string(data)
		return nil
	})
	return verifier, err
}

// PutRecord stores an encrypted record blob and bumps the modified
// timestamp in the same transaction
func (s *Store) PutRecord(id string, ciphertext []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		secrets := tx.Bucket(SecretsBucket)
		if secrets == nil {
			return fmt.Errorf("secrets bucket not found")
		}
		if err := secrets.Put([]byte(id), ciphertext); err != nil {
			return err
		}
		return touchModified(tx)
	})
}

// GetRecord retrieves an encrypted record blob. Returns nil data when the
// id is not present.
func (s *Store) GetRecord(id string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		secrets := tx.Bucket(SecretsBucket)
		if secrets == nil {
			return fmt.Errorf("secrets bucket not found")
		}
		v := secrets.Get([]byte(id))
		if v == nil {
			return nil
		}
		// Make a copy since the slice is only valid during the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

// DeleteRecord removes an encrypted record. Returns false when the id was
// not present; removal and the modified timestamp commit atomically.
func (s *Store) DeleteRecord(id string) (bool, error) {
	var existed bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		secrets := tx.Bucket(SecretsBucket)
		if secrets == nil {
			return fmt.Errorf("secrets bucket not found")
		}
		if secrets.Get([]byte(id)) == nil {
			return nil
		}
		existed = true
		if err := secrets.Delete([]byte(id)); err != nil {
			return err
		}
		return touchModified(tx)
	})
	return existed, err
}

// ForEachRecord iterates all encrypted records in key order, which is
// stable across calls for an unchanged vault
func (s *Store) ForEachRecord(fn func(id string, ciphertext []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		secrets := tx.Bucket(SecretsBucket)
		if secrets == nil {
			return fmt.Errorf("secrets bucket not found")
		}
		return secrets.ForEach(func(k, v []byte) error {
			ciphertext := append([]byte(nil), v...)
			return fn(string(k), ciphertext)
		})
	})
}

// CountRecords returns the number of stored records
func (s *Store) CountRecords() (int, error) {
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		secrets := tx.Bucket(SecretsBucket)
		if secrets == nil {
			return fmt.Errorf("secrets bucket not found")
		}
		count = secrets.Stats().KeyN
		return nil
	})
	return count, err
}

// Rekey atomically replaces the KDF salt, iteration count, verifier hash
// and every record ciphertext. Used by the password change flow: a crash
// anywhere in the middle leaves the vault fully on the old key.
func (s *Store) Rekey(salt []byte, iterations uint32, verifier string, records map[string][]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		if err := config.Put(ConfigSalt, salt); err != nil {
			return err
		}
		iters := make([]byte, 4)
		binary.BigEndian.PutUint32(iters, iterations)
		if err := config.Put(ConfigIters, iters); err != nil {
			return err
		}
		if err := config.Put(ConfigVerifier, []byte(verifier)); err != nil {
			return err
		}

		secrets := tx.Bucket(SecretsBucket)
		if secrets == nil {
			return fmt.Errorf("secrets bucket not found")
		}
		for id, ciphertext := range records {
			if err := secrets.Put([]byte(id), ciphertext); err != nil {
				return err
			}
		}
		return touchModified(tx)
	})
}

// touchModified updates the last modified timestamp inside an open
// write transaction
func touchModified(tx *bolt.Tx) error {
	config := tx.Bucket(ConfigBucket)
	if config == nil {
		return fmt.Errorf("config bucket not found")
	}
	now := time.Now()
	modified, _ := now.MarshalBinary()
	return config.Put(ConfigModified, modified)
}

// GetCreated retrieves the vault creation timestamp
func (s *Store) GetCreated() (time.Time, error) {
	return s.getTime(ConfigCreated)
}

// GetModified retrieves the last modified timestamp
func (s *Store) GetModified() (time.Time, error) {
	return s.getTime(ConfigModified)
}

func (s *Store) getTime(key []byte) (time.Time, error) {
	var t time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(key)
		if data == nil {
			return fmt.Errorf("%s time not found", key)
		}
		return t.UnmarshalBinary(data)
	})
	return t, err
}

// GetVaultID retrieves the vault ID from config bucket
func (s *Store) GetVaultID() (string, error) {
	var vaultID string
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigVaultID)
		if data == nil {
			return fmt.Errorf("vault_id not found")
		}
		vaultID = string(data)
		return nil
	})
	return vaultID, err
}

// GetOrCreateVaultID retrieves the existing vault ID or generates a new one
func (s *Store) GetOrCreateVaultID() (string, error) {
	vaultID, err := s.GetVaultID()
	if err == nil {
		return vaultID, nil
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate vault ID: %w", err)
	}
	vaultID = hex.EncodeToString(b)

	err = s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		return config.Put(ConfigVaultID, []byte(vaultID))
	})
	if err != nil {
		return "", err
	}

	return vaultID, nil
}

// Compact creates a compacted copy of the database, removing unused space.
// This is useful after deleting records to reclaim disk space. The replace
// goes through a backup rename; a crash between the renames is healed by
// the next Open, which restores the backup.
func (s *Store) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	// A stale temp file from an interrupted run must not leak old records
	// into the new copy
	os.Remove(tmpPath)

	// Create new database
	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	// Copy all buckets
	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})

	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	// Reopen database
	s.db, err = bolt.Open(srcPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}

	return nil
}
