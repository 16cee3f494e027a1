package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Store is a cross-job cache of downloaded remote assets, keyed by source
// URL. Jobs that reference the same imagery or audio reuse the cached file
// instead of downloading it again.
type Store struct {
	Dir string

	mu  sync.Mutex
	idx *Index
	now func() time.Time
}

// NewStore opens (or initializes) the cache rooted at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache dir: %w", err)
	}
	idx, err := LoadIndex(dir)
	if err != nil {
		return nil, err
	}
	return &Store{Dir: dir, idx: idx, now: time.Now}, nil
}

// Lookup returns the cached file for a source URL. A stale index entry whose
// file has disappeared is treated as a miss.
func (s *Store) Lookup(source string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.idx.Get(source)
	if !ok {
		return "", false
	}
	if _, err := os.Stat(entry.CachedPath); err != nil {
		delete(s.idx.Entries, entry.Key)
		return "", false
	}
	return entry.CachedPath, true
}

// Put copies a freshly downloaded file into the cache and records it under
// the source URL. Returns the cached path.
func (s *Store) Put(source, srcPath string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(source)
	dest := filepath.Join(s.Dir, key+filepath.Ext(srcPath))

	size, err := copyFile(srcPath, dest)
	if err != nil {
		return "", fmt.Errorf("cache %s: %w", source, err)
	}

	s.idx.Set(Entry{
		Key:         key,
		Source:      source,
		CachedPath:  dest,
		RetrievedAt: s.now(),
		SizeBytes:   size,
	})
	if err := SaveIndex(s.Dir, s.idx); err != nil {
		return "", err
	}
	return dest, nil
}

// Prune drops index entries whose files no longer exist and removes cache
// files the index no longer references.
func (s *Store) Prune() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := map[string]bool{}
	for key, entry := range s.idx.Entries {
		if _, err := os.Stat(entry.CachedPath); err != nil {
			delete(s.idx.Entries, key)
			continue
		}
		known[filepath.Base(entry.CachedPath)] = true
	}

	files, err := os.ReadDir(s.Dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		name := f.Name()
		if name == "index.json" || known[name] {
			continue
		}
		os.Remove(filepath.Join(s.Dir, name))
	}

	return SaveIndex(s.Dir, s.idx)
}

func copyFile(src, dest string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}
	size, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		os.Remove(tmp)
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp, dest); err != nil {
		return 0, err
	}
	return size, nil
}
