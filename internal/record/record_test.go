package record

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	r := Record{
		ID:        "3f2a91c4-1111-2222-3333-444455556666",
		Service:   "github",
		Username:  "octocat",
		Password:  "hunter2",
		Notes:     "work account",
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := Encode(r)
	if err != nil {
		t.Fatalf("Failed to encode record: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Failed to decode record: %v", err)
	}

	if got.ID != r.ID || got.Service != r.Service || got.Username != r.Username ||
		got.Password != r.Password || got.Notes != r.Notes {
		t.Errorf("Record mismatch: got %+v, want %+v", got, r)
	}
	if !got.CreatedAt.Equal(r.CreatedAt) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, r.CreatedAt)
	}
	if !got.UpdatedAt.Equal(r.UpdatedAt) {
		t.Errorf("UpdatedAt mismatch: got %v, want %v", got.UpdatedAt, r.UpdatedAt)
	}
}

func TestEncodeEmptyFields(t *testing.T) {
	r := Record{ID: "id-1", Service: "svc", Password: "pw"}

	data, err := Encode(r)
	if err != nil {
		t.Fatalf("Failed to encode record: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Failed to decode record: %v", err)
	}
	if got.Username != "" || got.Notes != "" {
		t.Errorf("Empty fields should survive round-trip: %+v", got)
	}
}

func TestDecodeTruncated(t *testing.T) {
	r := Record{ID: "id-1", Service: "svc", Password: "pw"}
	data, err := Encode(r)
	if err != nil {
		t.Fatalf("Failed to encode record: %v", err)
	}

	_, err = Decode(data[:len(data)/2])
	if !errors.Is(err, ErrFormat) {
		t.Errorf("Truncated input: got err %v, want ErrFormat", err)
	}

	_, err = Decode([]byte("not json at all"))
	if !errors.Is(err, ErrFormat) {
		t.Errorf("Garbage input: got err %v, want ErrFormat", err)
	}
}

func TestDecodeUnknownVersion(t *testing.T) {
	for _, version := range []int{0, -1, FormatVersion + 1} {
		data := []byte(fmt.Sprintf(`{"version":%d,"record":{"id":"x"}}`, version))
		_, err := Decode(data)
		if !errors.Is(err, ErrFormat) {
			t.Errorf("Version %d: got err %v, want ErrFormat", version, err)
		}
	}
}
