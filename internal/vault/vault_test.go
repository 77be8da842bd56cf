package vault

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/Hemanthkumar2k04/PassHolder/internal/record"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	dir := t.TempDir()
	v := New(filepath.Join(dir, "test.vault"))
	t.Cleanup(func() { v.Close() })

	if err := v.Create([]byte("master-password"), 0); err != nil {
		t.Fatalf("Failed to create vault: %v", err)
	}
	return v
}

func TestCreateAndReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.vault")

	v := New(path)
	if v.Exists() {
		t.Error("Vault should not exist before Create")
	}

	if err := v.Create([]byte("master-password"), 0); err != nil {
		t.Fatalf("Failed to create vault: %v", err)
	}
	if !v.Unlocked() {
		t.Error("Vault should be unlocked after Create")
	}

	id, err := v.Add(record.Record{Service: "github", Username: "octocat", Password: "hunter2"})
	if err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}
	v.Close()

	// Reopen with the same password
	v2 := New(path)
	defer v2.Close()

	if err := v2.Unlock([]byte("master-password")); err != nil {
		t.Fatalf("Failed to unlock vault: %v", err)
	}

	r, err := v2.Get(id)
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	if r.Service != "github" || r.Username != "octocat" || r.Password != "hunter2" {
		t.Errorf("Record mismatch: %+v", r)
	}
}

func TestCreateExisting(t *testing.T) {
	v := newTestVault(t)
	v.Close()

	v2 := New(v.Path())
	defer v2.Close()
	if err := v2.Create([]byte("other-password"), 0); !errors.Is(err, ErrVaultExists) {
		t.Errorf("Got err %v, want ErrVaultExists", err)
	}
}

func TestCreateIterationsOverflow(t *testing.T) {
	if strconv.IntSize < 64 {
		t.Skip("iteration counts cannot exceed 32 bits on this platform")
	}

	v := New(filepath.Join(t.TempDir(), "test.vault"))
	defer v.Close()

	// A count that truncates to a different uint32 would derive with one
	// value and persist another
	tooBig := int64(math.MaxUint32) + 1
	if err := v.Create([]byte("master-password"), int(tooBig)); err == nil {
		t.Fatal("Expected error for iteration count beyond the 32-bit range")
	}
	if v.Exists() {
		t.Error("Failed create should not leave a vault file")
	}
	if v.Unlocked() {
		t.Error("Failed create should leave the vault locked")
	}
}

func TestUnlockWrongPassword(t *testing.T) {
	v := newTestVault(t)
	if _, err := v.Add(record.Record{Service: "github", Password: "pw"}); err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}
	v.Lock()

	if err := v.Unlock([]byte("wrong-password")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Got err %v, want ErrWrongPassword", err)
	}
	if v.Unlocked() {
		t.Error("Vault should stay locked after failed unlock")
	}

	// Operations stay rejected
	if _, err := v.List(); !errors.Is(err, ErrLocked) {
		t.Errorf("List on locked vault: got err %v, want ErrLocked", err)
	}
}

func TestUnlockMissingVault(t *testing.T) {
	v := New(filepath.Join(t.TempDir(), "nothing.vault"))
	defer v.Close()

	if err := v.Unlock([]byte("password")); !errors.Is(err, ErrVaultNotFound) {
		t.Errorf("Got err %v, want ErrVaultNotFound", err)
	}
}

func TestLockedOperations(t *testing.T) {
	v := newTestVault(t)
	id, err := v.Add(record.Record{Service: "svc", Password: "pw"})
	if err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}
	v.Lock()

	if _, err := v.Add(record.Record{Service: "x", Password: "y"}); !errors.Is(err, ErrLocked) {
		t.Errorf("Add: got err %v, want ErrLocked", err)
	}
	if _, err := v.Get(id); !errors.Is(err, ErrLocked) {
		t.Errorf("Get: got err %v, want ErrLocked", err)
	}
	if _, err := v.List(); !errors.Is(err, ErrLocked) {
		t.Errorf("List: got err %v, want ErrLocked", err)
	}
	if err := v.Update(id, record.Record{}); !errors.Is(err, ErrLocked) {
		t.Errorf("Update: got err %v, want ErrLocked", err)
	}
	if err := v.Remove(id); !errors.Is(err, ErrLocked) {
		t.Errorf("Remove: got err %v, want ErrLocked", err)
	}
	if _, err := v.SearchByService("svc"); !errors.Is(err, ErrLocked) {
		t.Errorf("Search: got err %v, want ErrLocked", err)
	}

	// Lock is idempotent
	v.Lock()
	v.Lock()
}

func TestAddAssignsIDAndTimestamps(t *testing.T) {
	v := newTestVault(t)

	before := time.Now().UTC().Add(-time.Second)
	id, err := v.Add(record.Record{Service: "github", Password: "pw"})
	if err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}
	if id == "" {
		t.Fatal("Add should return a non-empty id")
	}

	r, err := v.Get(id)
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	if r.ID != id {
		t.Errorf("ID mismatch: got %s, want %s", r.ID, id)
	}
	if r.CreatedAt.Before(before) {
		t.Errorf("CreatedAt not set: %v", r.CreatedAt)
	}
	if !r.UpdatedAt.Equal(r.CreatedAt) {
		t.Error("UpdatedAt should equal CreatedAt for a new record")
	}

	// Distinct records get distinct ids even with identical fields
	id2, err := v.Add(record.Record{Service: "github", Password: "pw"})
	if err != nil {
		t.Fatalf("Failed to add second record: %v", err)
	}
	if id2 == id {
		t.Error("Two records got the same id")
	}
}

func TestGetMissing(t *testing.T) {
	v := newTestVault(t)

	if _, err := v.Get("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Got err %v, want ErrNotFound", err)
	}
}

func TestListStableOrder(t *testing.T) {
	v := newTestVault(t)

	for _, svc := range []string{"github", "gitlab", "gmail"} {
		if _, err := v.Add(record.Record{Service: svc, Password: "pw"}); err != nil {
			t.Fatalf("Failed to add record: %v", err)
		}
	}

	first, err := v.List()
	if err != nil {
		t.Fatalf("Failed to list records: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(first))
	}

	second, err := v.List()
	if err != nil {
		t.Fatalf("Failed to list records: %v", err)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("List order changed between calls at position %d", i)
		}
	}
}

func TestUpdate(t *testing.T) {
	v := newTestVault(t)

	id, err := v.Add(record.Record{Service: "github", Username: "old", Password: "old-pw"})
	if err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}
	original, err := v.Get(id)
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	err = v.Update(id, record.Record{Service: "github", Username: "new", Password: "new-pw"})
	if err != nil {
		t.Fatalf("Failed to update record: %v", err)
	}

	updated, err := v.Get(id)
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	if updated.Username != "new" || updated.Password != "new-pw" {
		t.Errorf("Update not applied: %+v", updated)
	}
	if updated.ID != id {
		t.Error("Update must preserve the record id")
	}
	if !updated.CreatedAt.Equal(original.CreatedAt) {
		t.Error("Update must preserve CreatedAt")
	}
	if !updated.UpdatedAt.After(original.UpdatedAt) {
		t.Error("Update must advance UpdatedAt")
	}

	// Updating a missing id fails
	if err := v.Update("no-such-id", record.Record{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Got err %v, want ErrNotFound", err)
	}
}

func TestUpdateReencrypts(t *testing.T) {
	v := newTestVault(t)

	id, err := v.Add(record.Record{Service: "github", Password: "pw"})
	if err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}

	before, err := v.db.GetRecord(id)
	if err != nil {
		t.Fatalf("Failed to read ciphertext: %v", err)
	}

	r, err := v.Get(id)
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	// Write back identical fields
	if err := v.Update(id, r); err != nil {
		t.Fatalf("Failed to update record: %v", err)
	}

	after, err := v.db.GetRecord(id)
	if err != nil {
		t.Fatalf("Failed to read ciphertext: %v", err)
	}
	if bytes.Equal(before, after) {
		t.Error("Update with identical fields should still change the stored ciphertext")
	}
}

func TestRemove(t *testing.T) {
	v := newTestVault(t)

	id, err := v.Add(record.Record{Service: "github", Password: "pw"})
	if err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}

	if err := v.Remove(id); err != nil {
		t.Fatalf("Failed to remove record: %v", err)
	}

	if _, err := v.Get(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Got err %v, want ErrNotFound", err)
	}
	if err := v.Remove(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Second remove: got err %v, want ErrNotFound", err)
	}
}

func TestSearchByService(t *testing.T) {
	v := newTestVault(t)

	services := []string{"GitHub", "gitlab", "gmail"}
	for _, svc := range services {
		if _, err := v.Add(record.Record{Service: svc, Password: "pw"}); err != nil {
			t.Fatalf("Failed to add record: %v", err)
		}
	}
	// Duplicate service name
	if _, err := v.Add(record.Record{Service: "GitHub", Username: "second", Password: "pw"}); err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}

	// Case-insensitive substring match
	matches, err := v.SearchByService("git")
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(matches) != 3 {
		t.Errorf("Expected 3 matches for 'git', got %d", len(matches))
	}

	// Both records with the same service are found
	matches, err = v.SearchByService("github")
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Expected 2 matches for 'github', got %d", len(matches))
	}

	matches, err = v.SearchByService("nothing")
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Expected no matches, got %d", len(matches))
	}
}

func TestResolveID(t *testing.T) {
	v := newTestVault(t)

	id, err := v.Add(record.Record{Service: "github", Password: "pw"})
	if err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}

	resolved, err := v.ResolveID(id[:8])
	if err != nil {
		t.Fatalf("Failed to resolve id prefix: %v", err)
	}
	if resolved != id {
		t.Errorf("Resolved id mismatch: got %s, want %s", resolved, id)
	}

	if _, err := v.ResolveID("zzzzzzzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Got err %v, want ErrNotFound", err)
	}

	// Empty prefix matches everything once more records exist
	if _, err := v.Add(record.Record{Service: "gitlab", Password: "pw"}); err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}
	if _, err := v.ResolveID(""); err == nil {
		t.Error("Ambiguous prefix should be rejected")
	}
}

func TestChangePassword(t *testing.T) {
	v := newTestVault(t)

	id, err := v.Add(record.Record{Service: "github", Username: "octocat", Password: "hunter2"})
	if err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}

	if err := v.ChangePassword([]byte("master-password"), []byte("new-password")); err != nil {
		t.Fatalf("Failed to change password: %v", err)
	}

	// Session continues under the new key
	r, err := v.Get(id)
	if err != nil {
		t.Fatalf("Failed to get record after password change: %v", err)
	}
	if r.Password != "hunter2" {
		t.Errorf("Record corrupted by password change: %+v", r)
	}

	// Old password no longer unlocks
	v.Lock()
	if err := v.Unlock([]byte("master-password")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Old password: got err %v, want ErrWrongPassword", err)
	}
	if err := v.Unlock([]byte("new-password")); err != nil {
		t.Fatalf("Failed to unlock with new password: %v", err)
	}

	r, err = v.Get(id)
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	if r.Password != "hunter2" {
		t.Errorf("Record mismatch after re-unlock: %+v", r)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	v := newTestVault(t)

	err := v.ChangePassword([]byte("wrong"), []byte("new-password"))
	if !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Got err %v, want ErrWrongPassword", err)
	}

	// Vault still opens with the original password
	v.Lock()
	if err := v.Unlock([]byte("master-password")); err != nil {
		t.Fatalf("Failed to unlock with original password: %v", err)
	}
}

func TestStatusWithoutPassword(t *testing.T) {
	v := newTestVault(t)
	if _, err := v.Add(record.Record{Service: "github", Password: "pw"}); err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}
	v.Lock()

	info, err := v.Status()
	if err != nil {
		t.Fatalf("Failed to get status: %v", err)
	}
	if info.RecordCount != 1 {
		t.Errorf("RecordCount mismatch: got %d, want 1", info.RecordCount)
	}
	if info.Algorithm != "AES-256-GCM" {
		t.Errorf("Algorithm mismatch: got %s", info.Algorithm)
	}
	if info.KDFIterations != 100000 {
		t.Errorf("KDFIterations mismatch: got %d", info.KDFIterations)
	}
	if info.Created.IsZero() || info.Modified.IsZero() {
		t.Error("Timestamps should be set")
	}
}

func TestVerifyPasswordLeavesLocked(t *testing.T) {
	v := newTestVault(t)
	v.Lock()

	if err := v.VerifyPassword([]byte("master-password")); err != nil {
		t.Fatalf("Failed to verify password: %v", err)
	}
	if v.Unlocked() {
		t.Error("VerifyPassword should not leave the vault unlocked")
	}

	if err := v.VerifyPassword([]byte("wrong")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Got err %v, want ErrWrongPassword", err)
	}
}

func TestSortByService(t *testing.T) {
	records := []record.Record{
		{Service: "gmail", Username: "b"},
		{Service: "GitHub", Username: "z"},
		{Service: "github", Username: "a"},
	}
	SortByService(records)

	if records[0].Username != "a" || records[1].Username != "z" || records[2].Service != "gmail" {
		t.Errorf("Unexpected sort order: %+v", records)
	}
}
