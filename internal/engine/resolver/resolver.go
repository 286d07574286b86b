// Package resolver selects one compiler release per connected component.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/smelt/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver intersects the version constraints of a component's members and
// picks the highest release the version manager can provide. Selection is
// deterministic: unchanged pragmas and an unchanged release index always
// yield the same version.
type Resolver struct {
	versions ports.VersionManager
	log      ports.Logger
}

// New creates a Resolver backed by the given version manager.
func New(versions ports.VersionManager, log ports.Logger) *Resolver {
	return &Resolver{versions: versions, log: log}
}

// Resolve turns components into jobs, one per component, each carrying its
// resolved compiler version and the project settings. A version pin applies
// to every component and bypasses pragma inference entirely.
func (r *Resolver) Resolve(ctx context.Context, project domain.Project, components [][]domain.SourceFile) ([]domain.Job, error) {
	candidates, err := r.candidates(ctx, project.Offline)
	if err != nil {
		return nil, err
	}

	jobs := make([]domain.Job, 0, len(components))
	for _, members := range components {
		v, err := r.resolveComponent(candidates, project.VersionPin, members, project.Offline)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, domain.Job{
			Version:  v,
			Settings: project.Settings,
			Sources:  members,
		})
	}
	return jobs, nil
}

// candidates is the release universe selection happens over: installed plus
// installable releases, or installed only when offline. A failing release
// index degrades to installed releases rather than failing the build.
func (r *Resolver) candidates(ctx context.Context, offline bool) ([]domain.Version, error) {
	installed, err := r.versions.Installed(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "listing installed compiler releases")
	}
	if offline {
		return installed, nil
	}

	available, err := r.versions.Available(ctx)
	if err != nil {
		r.log.Warn("release index unavailable, resolving against installed compilers only", "error", err)
		return installed, nil
	}
	return mergeVersions(installed, available), nil
}

func (r *Resolver) resolveComponent(candidates []domain.Version, pin domain.Version, members []domain.SourceFile, offline bool) (domain.Version, error) {
	if !pin.IsZero() {
		for _, c := range candidates {
			if c.Equal(pin) {
				return pin, nil
			}
		}
		return domain.Version{}, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrVersionUnavailable, "pinned compiler release not installed or installable"),
			"version", pin.String()),
			"offline", offline,
		)
	}

	var combined []domain.Constraint
	for _, m := range members {
		cs, err := m.Constraints()
		if err != nil {
			return domain.Version{}, err
		}
		combined = append(combined, cs...)
	}

	if v, ok := domain.MaxSatisfying(candidates, combined); ok {
		return v, nil
	}

	// No release satisfies the conjunction. If some single member's own
	// constraints already admit no release, the range targets a compiler we
	// cannot provide; otherwise the members genuinely disagree.
	for _, m := range members {
		cs, err := m.Constraints()
		if err != nil {
			return domain.Version{}, err
		}
		if _, ok := domain.MaxSatisfying(candidates, cs); !ok {
			return domain.Version{}, zerr.With(zerr.With(zerr.With(
				zerr.Wrap(domain.ErrVersionUnavailable, "no installed or installable compiler release satisfies constraint"),
				"path", m.Path),
				"constraints", strings.Join(m.Pragmas, " && ")),
				"offline", offline,
			)
		}
	}

	return domain.Version{}, zerr.With(
		zerr.Wrap(domain.ErrVersionConflict, "component members declare incompatible version constraints"),
		"constraints", describeConstraints(members),
	)
}

// describeConstraints renders every constrained member as "path: pragmas"
// so a conflict names each contributing file.
func describeConstraints(members []domain.SourceFile) string {
	parts := make([]string, 0, len(members))
	for _, m := range members {
		if len(m.Pragmas) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", m.Path, strings.Join(m.Pragmas, " && ")))
	}
	return strings.Join(parts, "; ")
}

// mergeVersions unions two ascending version lists.
func mergeVersions(a, b []domain.Version) []domain.Version {
	merged := make([]domain.Version, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Less(b[j]):
			merged = append(merged, a[i])
			i++
		case b[j].Less(a[i]):
			merged = append(merged, b[j])
			j++
		default:
			merged = append(merged, a[i])
			i++
			j++
		}
	}
	merged = append(merged, a[i:]...)
	merged = append(merged, b[j:]...)
	return merged
}
