// Package record defines the logical secret record and its versioned
// serialization. Records exist in plaintext form only in memory; the codec
// output is what gets sealed by the crypto layer before it ever reaches
// storage.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// FormatVersion is the current serialization format. Decode accepts any
// version up to this one, so future field additions stay backward-decodable.
const FormatVersion = 1

var ErrFormat = errors.New("unrecognized record format")

// Record is a single stored credential
type Record struct {
	ID        string    `json:"id"`
	Service   string    `json:"service"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// envelope tags the serialized record with its format version
type envelope struct {
	Version int    `json:"version"`
	Record  Record `json:"record"`
}

// Encode serializes a record to its versioned plaintext form
func Encode(r Record) ([]byte, error) {
	data, err := json.Marshal(envelope{Version: FormatVersion, Record: r})
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}

// Decode deserializes a record. Truncated input or an unknown format
// version yields ErrFormat; this layer treats both as corruption and
// never returns a partially trusted record.
func Decode(data []byte) (Record, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if env.Version < 1 || env.Version > FormatVersion {
		return Record{}, fmt.Errorf("%w: version %d", ErrFormat, env.Version)
	}
	return env.Record, nil
}
