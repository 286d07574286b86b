package ports

import (
	"context"

	"go.trai.ch/smelt/internal/core/domain"
)

// SourceScanner discovers contract sources on disk.
//
//go:generate go run go.uber.org/mock/mockgen -source=source_reader.go -destination=mocks/mock_source_reader.go -package=mocks
type SourceScanner interface {
	// Discover walks the given directories and returns every contract
	// source path, sorted and deduplicated.
	Discover(ctx context.Context, dirs []string) ([]string, error)
}

// SourceReader serves source content and content digests. Implementations
// may answer Hash from a stat identity cache, but size or mtime drift must
// always fall back to reading and hashing the bytes.
type SourceReader interface {
	// Read returns the file's content.
	Read(path string) ([]byte, error)

	// Hash returns the hex content digest of the file.
	Hash(path string) (string, error)

	// Prime seeds the stat identity cache with stamps from an earlier run.
	Prime(stamps map[string]domain.FileStamp)

	// Stamps snapshots the stat identities observed this run, keyed by
	// path, for persistence alongside the build cache.
	Stamps() map[string]domain.FileStamp
}
