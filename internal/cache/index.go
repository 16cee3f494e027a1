package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const indexVersion = 1

// Entry keeps metadata about one cached remote asset.
type Entry struct {
	Key         string    `json:"key"`
	Source      string    `json:"source"`
	CachedPath  string    `json:"cached_path"`
	RetrievedAt time.Time `json:"retrieved_at"`
	SizeBytes   int64     `json:"size_bytes,omitempty"`
}

// Index captures cache state persisted to index.json inside the cache
// directory.
type Index struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

func newIndex() *Index {
	return &Index{Version: indexVersion, Entries: map[string]Entry{}}
}

// Key derives the cache key for a source URL.
func Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:16])
}

// LoadIndex reads index.json from dir, returning an empty structure when the
// file is missing.
func LoadIndex(dir string) (*Index, error) {
	data, err := os.ReadFile(filepath.Join(dir, "index.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newIndex(), nil
		}
		return nil, fmt.Errorf("read cache index: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode cache index: %w", err)
	}
	if idx.Entries == nil {
		idx.Entries = map[string]Entry{}
	}
	idx.Version = indexVersion
	return &idx, nil
}

// SaveIndex writes index.json atomically, creating dir if needed.
func SaveIndex(dir string, idx *Index) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure cache dir: %w", err)
	}
	if idx == nil {
		idx = newIndex()
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache index: %w", err)
	}

	path := filepath.Join(dir, "index.json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp cache index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace cache index: %w", err)
	}
	return nil
}

// Get returns the entry for a source URL when present.
func (idx *Index) Get(source string) (Entry, bool) {
	if idx == nil || idx.Entries == nil {
		return Entry{}, false
	}
	entry, ok := idx.Entries[Key(source)]
	return entry, ok
}

// Set stores an entry under its source's key.
func (idx *Index) Set(entry Entry) {
	if idx == nil {
		return
	}
	if idx.Entries == nil {
		idx.Entries = map[string]Entry{}
	}
	if entry.Key == "" {
		entry.Key = Key(entry.Source)
	}
	idx.Entries[entry.Key] = entry
}
