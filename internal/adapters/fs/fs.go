// Package fs discovers contract sources under the project tree and serves
// their content and content digests, with a stat identity fast path that
// avoids re-reading files whose size and mtime are unchanged since the
// previous build.
package fs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/zerr"
)

// sourceExt is the file extension of Solidity contract sources.
const sourceExt = ".sol"

// FS implements ports.SourceScanner and ports.SourceReader over one project
// root. All paths exchanged with callers are root-relative and
// slash-separated; conversion to OS paths happens only at the syscall
// boundary.
//
// Safe for concurrent use: graph construction fans Hash and Read calls out
// across a worker pool.
type FS struct {
	root string

	mu     sync.Mutex
	stamps map[string]domain.FileStamp
}

// New creates an FS rooted at the given absolute project directory.
func New(root string) *FS {
	return &FS{
		root:   filepath.Clean(root),
		stamps: make(map[string]domain.FileStamp),
	}
}

// Discover walks the given directories (relative to the project root) and
// returns every contract source path, sorted and deduplicated. Hidden
// directories and node_modules are skipped; a configured directory that does
// not exist is an error, since silently compiling nothing hides typos.
func (f *FS) Discover(ctx context.Context, dirs []string) ([]string, error) {
	var out []string
	for _, dir := range dirs {
		abs := filepath.Join(f.root, filepath.FromSlash(dir))
		err := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return zerr.With(zerr.Wrap(err, "walking source directory"), "dir", dir)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() {
				if name := d.Name(); path != abs && (strings.HasPrefix(name, ".") || name == "node_modules") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != sourceExt {
				return nil
			}
			rel, err := filepath.Rel(f.root, path)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "relativizing source path"), "path", path)
			}
			out = append(out, filepath.ToSlash(rel))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(out)
	return slices.Compact(out), nil
}

// Read returns the file's content.
func (f *FS) Read(path string) ([]byte, error) {
	content, err := os.ReadFile(f.abs(path)) //nolint:gosec // paths come from project discovery
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "reading source file"), "path", path)
	}
	return content, nil
}

// Hash returns the file's hex content digest. When the file's size and mtime
// match the primed stamp, the stored digest is reused without reading the
// bytes; any drift falls back to a full read and re-hash. The digest, not the
// stamp, is what ends up in job fingerprints.
func (f *FS) Hash(path string) (string, error) {
	info, err := os.Stat(f.abs(path))
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "stating source file"), "path", path)
	}

	f.mu.Lock()
	stamp, ok := f.stamps[path]
	f.mu.Unlock()
	if ok && stamp.Size == info.Size() && stamp.MTime == info.ModTime().UnixNano() {
		return stamp.Hash, nil
	}

	content, err := f.Read(path)
	if err != nil {
		return "", err
	}
	hash := domain.HashContent(content)

	f.mu.Lock()
	f.stamps[path] = domain.FileStamp{
		Size:  info.Size(),
		MTime: info.ModTime().UnixNano(),
		Hash:  hash,
	}
	f.mu.Unlock()
	return hash, nil
}

// Prime seeds the stat identity cache with stamps persisted by an earlier
// build.
func (f *FS) Prime(stamps map[string]domain.FileStamp) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for path, stamp := range stamps {
		f.stamps[path] = stamp
	}
}

// Stamps snapshots the stat identities observed this run for persistence
// alongside the build cache.
func (f *FS) Stamps() map[string]domain.FileStamp {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]domain.FileStamp, len(f.stamps))
	for path, stamp := range f.stamps {
		out[path] = stamp
	}
	return out
}

func (f *FS) abs(path string) string {
	return filepath.Join(f.root, filepath.FromSlash(path))
}
