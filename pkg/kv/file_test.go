package kv

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_GetMissingKeyReturnsNotFound(t *testing.T) {
	store := newTestFileStore(t)

	if _, err := store.Get(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a key never written, got %v", err)
	}
}

func TestFileStore_SetThenGetRoundTrips(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	payload := []byte(`{"hello":"world"}`)
	if err := store.Set(ctx, "greeting", payload); err != nil {
		t.Fatalf("unexpected error on Set: %v", err)
	}

	got, err := store.Get(ctx, "greeting")
	if err != nil {
		t.Fatalf("unexpected error on Get: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("expected %s, got %s", payload, got)
	}
}

func TestFileStore_ValueSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slots.json")
	ctx := context.Background()

	first, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	if err := first.Set(ctx, "slot", []byte(`[1,2,3]`)); err != nil {
		t.Fatalf("unexpected error on Set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("unexpected error on Close: %v", err)
	}

	second, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("unexpected error reopening store: %v", err)
	}
	got, err := second.Get(ctx, "slot")
	if err != nil {
		t.Fatalf("unexpected error on Get after reopen: %v", err)
	}
	if string(got) != `[1,2,3]` {
		t.Fatalf("expected persisted value after reopen, got %s", got)
	}
}

func TestFileStore_RejectsNonJSONPayloads(t *testing.T) {
	store := newTestFileStore(t)

	if err := store.Set(context.Background(), "slot", []byte("not json")); err == nil {
		t.Fatalf("expected an error for a non-JSON payload")
	}
}

func TestFileStore_CorruptFileFailsGetButSetRecovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slots.json")
	ctx := context.Background()

	if err := os.WriteFile(path, []byte("{{{ not a json document"), 0o600); err != nil {
		t.Fatalf("unexpected error seeding corrupt file: %v", err)
	}

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	if _, err := store.Get(ctx, "slot"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a decode error for a corrupt file, got %v", err)
	}

	if err := store.Set(ctx, "slot", []byte(`"fresh"`)); err != nil {
		t.Fatalf("expected Set to re-establish a corrupt file, got %v", err)
	}
	got, err := store.Get(ctx, "slot")
	if err != nil {
		t.Fatalf("unexpected error on Get after recovery: %v", err)
	}
	if string(got) != `"fresh"` {
		t.Fatalf("expected recovered value, got %s", got)
	}
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	if err := store.Delete(ctx, "never-written"); err != nil {
		t.Fatalf("deleting an absent key should not error, got %v", err)
	}

	if err := store.Set(ctx, "slot", []byte(`1`)); err != nil {
		t.Fatalf("unexpected error on Set: %v", err)
	}
	if err := store.Delete(ctx, "slot"); err != nil {
		t.Fatalf("unexpected error on Delete: %v", err)
	}
	if _, err := store.Get(ctx, "slot"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFileStore_FileStaysSingleInspectableDocument(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "a", []byte(`{"n":1}`)); err != nil {
		t.Fatalf("unexpected error on Set: %v", err)
	}
	if err := store.Set(ctx, "b", []byte(`{"n":2}`)); err != nil {
		t.Fatalf("unexpected error on Set: %v", err)
	}

	raw, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("unexpected error reading backing file: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("backing file should be one JSON object, got %v", err)
	}
	if len(doc) != 2 {
		t.Fatalf("expected 2 slots in the document, got %d", len(doc))
	}

	// Leftover temp files would mean a non-atomic replace.
	if _, err := os.Stat(store.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected no temp file after writes, stat returned %v", err)
	}
}

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()

	store, err := NewFileStore(filepath.Join(t.TempDir(), "slots.json"))
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	return store
}
