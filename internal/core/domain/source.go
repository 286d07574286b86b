package domain

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// SourceFile is one parsed member of the compilation input set. It is
// immutable once parsed for a given build; a changed content digest produces a
// fresh value rather than a mutation.
//
// Content is nil for files whose digest and parse results were both served
// from caches; it is hydrated before the file is handed to a compiler process.
type SourceFile struct {
	// Path is the canonical project-root-relative path, slash-separated.
	Path string

	// Content is the raw file content, nil until hydrated (see above).
	Content []byte

	// Hash is the hex-encoded BLAKE3 digest of Content.
	Hash string

	// Imports holds the canonical paths of every import target, in
	// declaration order.
	Imports []string

	// Pragmas holds the raw version constraint expressions declared in the
	// file, in declaration order.
	Pragmas []string
}

// Hydrated reports whether the raw content is present.
func (s SourceFile) Hydrated() bool {
	return s.Content != nil
}

// Constraints parses the file's pragma expressions. Parse failures were
// already rejected by the importer, so this cannot fail on a SourceFile that
// came out of graph construction.
func (s SourceFile) Constraints() ([]Constraint, error) {
	out := make([]Constraint, 0, len(s.Pragmas))
	for _, p := range s.Pragmas {
		c, err := ParseConstraint(p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// HashContent computes the hex-encoded BLAKE3 digest of a source body. Every
// per-file digest in the system comes from this one function so that cache
// stamps, parse memos, and job fingerprints agree.
func HashContent(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// FileStamp is the stat fast-path record for one source file: if size and
// mtime still match, the stored digest is reused without re-reading the file.
// The digest remains the sole correctness signal; a stamp mismatch only causes
// a re-read, never a wrong reuse.
type FileStamp struct {
	Size  int64  `json:"size"`
	MTime int64  `json:"mtime"` // unix nanoseconds
	Hash  string `json:"hash"`
}
