// Package importer extracts import targets and version pragmas from contract
// sources and canonicalizes import paths against the project's remappings.
package importer

import (
	"path"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultMemoSize bounds the parse memo.
const DefaultMemoSize = 4096

// remapping rewrites one import prefix, compiler style: "prefix=target".
type remapping struct {
	prefix string
	target string
}

// Importer parses contract sources. Parses are memoized by content digest,
// so unchanged files across repeated builds of a warm process parse once.
// Safe for concurrent use; the memo handles its own locking.
type Importer struct {
	remappings []remapping
	memo       *lru.Cache[string, rawParse]
}

// New builds an Importer for the given remapping rules. Rules use the
// compiler's prefix=target form; the longest matching prefix wins.
func New(remappings []string, memoSize int) (*Importer, error) {
	parsed := make([]remapping, 0, len(remappings))
	for _, r := range remappings {
		prefix, target, ok := strings.Cut(r, "=")
		if !ok || prefix == "" {
			return nil, zerr.With(
				zerr.Wrap(domain.ErrParse, "malformed remapping, want prefix=target"),
				"remapping", r,
			)
		}
		parsed = append(parsed, remapping{prefix: prefix, target: target})
	}
	slices.SortStableFunc(parsed, func(a, b remapping) int {
		return len(b.prefix) - len(a.prefix)
	})

	memo, err := lru.New[string, rawParse](memoSize)
	if err != nil {
		return nil, zerr.Wrap(err, "creating parse memo")
	}
	return &Importer{remappings: parsed, memo: memo}, nil
}

// Parse extracts the imports and pragmas of one source file. Imports come
// back canonicalized and deduplicated, in declaration order; pragma
// expressions are validated before the parse is memoized.
func (imp *Importer) Parse(file, hash string, content []byte) (domain.SourceFile, error) {
	raw, ok := imp.memo.Get(hash)
	if !ok {
		var err error
		raw, err = parseRaw(file, content)
		if err != nil {
			return domain.SourceFile{}, err
		}
		for _, expr := range raw.pragmas {
			if _, err := domain.ParseConstraint(expr); err != nil {
				return domain.SourceFile{}, zerr.With(err, "path", file)
			}
		}
		imp.memo.Add(hash, raw)
	}
	return imp.assemble(file, hash, raw), nil
}

// ParseCached serves a parse from the memo alone, letting callers skip
// reading content for files whose digest is already known. The second
// return is false on a memo miss.
func (imp *Importer) ParseCached(file, hash string) (domain.SourceFile, bool) {
	raw, ok := imp.memo.Get(hash)
	if !ok {
		return domain.SourceFile{}, false
	}
	return imp.assemble(file, hash, raw), true
}

// assemble canonicalizes a memoized parse against the importing file's
// location.
func (imp *Importer) assemble(file, hash string, raw rawParse) domain.SourceFile {
	imports := make([]string, 0, len(raw.imports))
	seen := make(map[string]struct{}, len(raw.imports))
	for _, target := range raw.imports {
		canonical := imp.Resolve(file, target)
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		imports = append(imports, canonical)
	}

	return domain.SourceFile{
		Path:    file,
		Hash:    hash,
		Imports: imports,
		Pragmas: slices.Clone(raw.pragmas),
	}
}

// Resolve canonicalizes one import target declared in the file at from.
// Relative targets resolve against the importing file's directory; all
// others go through the remapping table.
func (imp *Importer) Resolve(from, target string) string {
	if strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../") {
		return path.Join(path.Dir(from), target)
	}
	for _, r := range imp.remappings {
		if strings.HasPrefix(target, r.prefix) {
			return path.Clean(r.target + strings.TrimPrefix(target, r.prefix))
		}
	}
	return path.Clean(target)
}
