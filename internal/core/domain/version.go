package domain

import (
	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// Version identifies one release of the external Solidity compiler. It is
// comparable and totally ordered by semantic versioning rules.
type Version struct {
	v *semver.Version
}

// ParseVersion parses a semantic version string such as "0.8.19".
func ParseVersion(s string) (Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, zerr.With(zerr.Wrap(err, "invalid compiler version"), "version", s)
	}
	return Version{v: v}, nil
}

// String returns the canonical version string.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

// IsZero reports whether the version is the unset zero value.
func (v Version) IsZero() bool {
	return v.v == nil
}

// Less reports whether v orders before other.
func (v Version) Less(other Version) bool {
	return v.v.LessThan(other.v)
}

// Equal reports whether v and other identify the same release.
func (v Version) Equal(other Version) bool {
	if v.v == nil || other.v == nil {
		return v.v == other.v
	}
	return v.v.Equal(other.v)
}

// MarshalText implements encoding.TextMarshaler for cache serialization.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Constraint is one declared range of compatible compiler versions, as written
// in a source file's version pragma. The original expression is retained for
// diagnostics.
type Constraint struct {
	expr string
	c    *semver.Constraints
}

// ParseConstraint parses a pragma constraint expression. Supported syntax is
// the pragma operator set (^, ~, >=, >, <=, <, =), whitespace conjunction, and
// "||" disjunction, e.g. ">=0.7.0 <0.9.0 || ^0.6.12".
func ParseConstraint(expr string) (Constraint, error) {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return Constraint{}, zerr.With(zerr.Wrap(ErrParse, "invalid version constraint"), "constraint", expr)
	}
	return Constraint{expr: expr, c: c}, nil
}

// Match reports whether the release v satisfies the constraint.
func (c Constraint) Match(v Version) bool {
	if c.c == nil {
		// An unset constraint admits every release; files without a pragma do
		// not restrict their component.
		return true
	}
	return c.c.Check(v.v)
}

// String returns the original constraint expression.
func (c Constraint) String() string {
	return c.expr
}

// IsZero reports whether the constraint is the unset zero value.
func (c Constraint) IsZero() bool {
	return c.c == nil
}

// MaxSatisfying returns the highest version among candidates that satisfies
// every constraint in the set. The boolean is false when none does. The
// candidate order does not matter.
func MaxSatisfying(candidates []Version, constraints []Constraint) (Version, bool) {
	var best Version
	for _, cand := range candidates {
		ok := true
		for _, c := range constraints {
			if !c.Match(cand) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if best.IsZero() || best.Less(cand) {
			best = cand
		}
	}
	return best, !best.IsZero()
}
