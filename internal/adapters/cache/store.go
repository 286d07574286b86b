// Package cache persists the build cache as a checksummed JSON file.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.CacheStore over a single JSON file. Writes go to a
// temporary file in the same directory followed by a rename, so a crash
// mid-write leaves the previous cache intact rather than a torn document.
type Store struct {
	path string
}

// NewStore creates a Store backed by the file at the given path.
func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Load reads and verifies the cache file. A missing file yields an empty
// cache; a present but undecodable or checksum-failing file yields
// domain.ErrCacheCorruption, which callers recover from by rebuilding.
func (s *Store) Load(_ context.Context) (*domain.CacheFile, error) {
	data, err := os.ReadFile(s.path) //nolint:gosec // path comes from project configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewCacheFile(), nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheCorruption, "cache file unreadable"), "path", s.path)
	}

	var c domain.CacheFile
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheCorruption, "cache file is not valid JSON"), "path", s.path)
	}
	if err := c.Verify(); err != nil {
		return nil, zerr.With(err, "path", s.path)
	}
	if c.Entries == nil {
		c.Entries = make(map[string]domain.CacheEntry)
	}
	if c.Files == nil {
		c.Files = make(map[string]domain.FileStamp)
	}
	return &c, nil
}

// Save seals and writes the cache file atomically.
func (s *Store) Save(_ context.Context, c *domain.CacheFile) error {
	if err := c.Seal(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "marshaling cache file")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "creating cache directory"), "dir", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return zerr.Wrap(err, "creating temporary cache file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, "writing cache file")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "closing cache file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return zerr.Wrap(err, "replacing cache file")
	}
	return nil
}

// Clear removes the cache file. Clearing an absent cache is not an error.
func (s *Store) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "removing cache file"), "path", s.path)
	}
	return nil
}
