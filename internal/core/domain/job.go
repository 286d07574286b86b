package domain

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
	"go.trai.ch/zerr"
)

// fingerprintFormat tags the fingerprint input layout. Bumping it invalidates
// every cache entry, which is the correct consequence of changing what a
// fingerprint covers.
const fingerprintFormat = "smelt-fp-1"

// Job is the unit of external invocation and the unit of caching: one
// resolved compiler release, one settings value, and the sources of exactly
// one connected component. Sources are kept sorted by path.
type Job struct {
	Version  Version
	Settings Settings
	Sources  []SourceFile
}

// Paths returns the member source paths in order.
func (j Job) Paths() []string {
	out := make([]string, 0, len(j.Sources))
	for _, sf := range j.Sources {
		out = append(out, sf.Path)
	}
	return out
}

// Hydrated reports whether every member carries its raw content.
func (j Job) Hydrated() bool {
	for _, sf := range j.Sources {
		if !sf.Hydrated() {
			return false
		}
	}
	return true
}

// PlannedJob is a job with its computed fingerprint and, when the cache
// already holds its output, the reusable entry.
type PlannedJob struct {
	Job         Job
	Fingerprint Fingerprint
	Cached      *CacheEntry
}

// Fingerprint is the content-addressed cache key of a job: a BLAKE3 digest
// over the resolved version, the canonical settings, and every member's path
// and content digest. Equal fingerprints are guaranteed to produce identical
// compiler output, by the determinism assumption on the external compiler.
type Fingerprint [32]byte

// String returns the hex encoding used as the cache entry key.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// IsZero reports whether the fingerprint is unset.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// Fingerprint computes the job's cache key. Members contribute in path order
// and every field is length-prefixed, so the digest is deterministic and free
// of concatenation ambiguity. Member content participates through its BLAKE3
// digest, which lets the stat fast path serve unchanged files without a
// re-read while keeping the composition collision-resistant end to end.
func (j Job) Fingerprint() (Fingerprint, error) {
	settings, err := j.Settings.Canonical()
	if err != nil {
		return Fingerprint{}, err
	}

	h := blake3.New()
	writeField(h, []byte(fingerprintFormat))
	writeField(h, []byte(j.Version.String()))
	writeField(h, settings)
	for _, sf := range j.Sources {
		if sf.Hash == "" {
			return Fingerprint{}, zerr.With(zerr.New("source missing content digest"), "path", sf.Path)
		}
		writeField(h, []byte(sf.Path))
		writeField(h, []byte(sf.Hash))
	}

	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp, nil
}

// writeField writes a length-prefixed field into the digest. The hasher
// never returns an error.
func writeField(h *blake3.Hasher, field []byte) {
	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], uint64(len(field)))
	_, _ = h.Write(length[:])
	_, _ = h.Write(field)
}
