package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore persists slots as a single JSON object file on local disk,
// one property per key. The file stays human-inspectable, so values must
// themselves be valid JSON; Set rejects anything else. Every operation
// reads the file fresh, which keeps a long-lived process from clobbering
// slots another process wrote, at the cost of last-write-wins races
// between concurrent writers.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore ensures the parent directory of path exists and returns a
// store over it. The file itself is created lazily on first Set.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("kv: file store path is required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("kv: create storage directory %s: %w", dir, err)
		}
	}

	return &FileStore{path: path}, nil
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.readSlots()
	if err != nil {
		return nil, err
	}

	value, ok := slots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(value), nil
}

func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("kv: file store holds JSON payloads, got %d invalid bytes for %q", len(value), key)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.readSlots()
	if err != nil {
		// An unreadable file cannot be merged with, so the write
		// re-establishes it from scratch.
		slots = make(map[string]json.RawMessage)
	}
	slots[key] = json.RawMessage(value)

	return f.writeSlots(slots)
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.readSlots()
	if err != nil {
		return nil
	}
	if _, ok := slots[key]; !ok {
		return nil
	}
	delete(slots, key)

	return f.writeSlots(slots)
}

func (f *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("kv: storage directory %s unreachable: %w", dir, err)
	}
	return nil
}

func (f *FileStore) Close() error {
	return nil
}

// Path returns the backing file location, mainly for diagnostics.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) readSlots() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv: read storage file %s: %w", f.path, err)
	}

	slots := make(map[string]json.RawMessage)
	if len(data) == 0 {
		return slots, nil
	}
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("kv: decode storage file %s: %w", f.path, err)
	}
	return slots, nil
}

// writeSlots replaces the file atomically so a crash mid-write never
// leaves a half-written document behind.
func (f *FileStore) writeSlots(slots map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return fmt.Errorf("kv: encode storage file: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("kv: write storage file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("kv: replace storage file %s: %w", f.path, err)
	}
	return nil
}
