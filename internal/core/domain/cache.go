package domain

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// CacheFormat tags the on-disk cache layout. Readers reject any other value
// rather than guessing at a foreign shape.
const CacheFormat = "smelt-sol-cache-1"

// CacheEntry is one cached compilation, keyed in the cache file by the hex
// fingerprint of the job that produced it. Only jobs whose compiler process
// ran to completion are stored; killed, timed out, and unspawnable jobs are
// not. Diagnostics carries the compiler's messages so a cache hit replays
// exactly what the original run reported.
type CacheEntry struct {
	Version     Version      `json:"version"`
	Sources     []string     `json:"sources"`
	Artifacts   ArtifactSet  `json:"artifacts"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	CreatedAt   int64        `json:"createdAt"`
}

// CacheFile is the persisted build cache. Entries hold compiled outputs by
// fingerprint, Files holds the stat fast-path stamps keyed by source path.
// Checksum covers both maps so a torn write surfaces as corruption instead
// of stale reuse.
type CacheFile struct {
	Format   string                `json:"_format"`
	Checksum string                `json:"checksum"`
	Entries  map[string]CacheEntry `json:"entries"`
	Files    map[string]FileStamp  `json:"files"`
}

// cachePayload is the checksummed portion of the cache file.
type cachePayload struct {
	Entries map[string]CacheEntry `json:"entries"`
	Files   map[string]FileStamp  `json:"files"`
}

// NewCacheFile returns an empty cache with maps ready for use.
func NewCacheFile() *CacheFile {
	return &CacheFile{
		Format:  CacheFormat,
		Entries: make(map[string]CacheEntry),
		Files:   make(map[string]FileStamp),
	}
}

// ComputeChecksum hashes the entries and file stamps. Map keys marshal in
// sorted order, so the digest is stable for equal contents.
func (c *CacheFile) ComputeChecksum() (string, error) {
	payload, err := json.Marshal(cachePayload{Entries: c.Entries, Files: c.Files})
	if err != nil {
		return "", zerr.Wrap(err, "marshaling cache payload")
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(payload)), nil
}

// Seal stamps the format tag and recomputes the checksum prior to writing.
func (c *CacheFile) Seal() error {
	sum, err := c.ComputeChecksum()
	if err != nil {
		return err
	}
	c.Format = CacheFormat
	c.Checksum = sum
	return nil
}

// Verify checks the format tag and checksum of a freshly loaded cache file.
// Any mismatch is reported as ErrCacheCorruption; callers are expected to
// discard the cache and rebuild rather than fail the run.
func (c *CacheFile) Verify() error {
	if c.Format != CacheFormat {
		return zerr.With(
			zerr.Wrap(ErrCacheCorruption, "unknown cache format"),
			"format", c.Format,
		)
	}
	sum, err := c.ComputeChecksum()
	if err != nil {
		return err
	}
	if sum != c.Checksum {
		return zerr.With(
			zerr.Wrap(ErrCacheCorruption, "cache checksum mismatch"),
			"want", c.Checksum,
		)
	}
	return nil
}
