// Package aggregator merges fresh and cached compilation outputs into one
// build result and owns the single write of the updated cache.
package aggregator

import (
	"context"
	"time"

	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/smelt/internal/core/ports"
)

// Aggregator combines job outputs across the whole project. It applies the
// fail-late policy: one failing job marks the build failed but never
// suppresses diagnostics or artifacts of its siblings.
type Aggregator struct {
	store ports.CacheStore
	log   ports.Logger
}

// New creates an Aggregator writing through the given store.
func New(store ports.CacheStore, log ports.Logger) *Aggregator {
	return &Aggregator{store: store, log: log}
}

// Merge folds cache hits and scheduler outcomes into the unified result,
// then persists the next cache: carried hit entries, entries for every job
// whose process ran to completion, and the file stamps for the live source
// set. Artifacts pass through the profile on the way into the result; cache
// entries keep the compiler's full answer.
//
// A failed cache write degrades to a warning: the previous cache file is
// still intact and the build's result is already decided.
func (a *Aggregator) Merge(ctx context.Context, profile domain.OutputProfile, hits []domain.PlannedJob, outcomes []domain.JobOutcome, stamps map[string]domain.FileStamp) *domain.BuildResult {
	result := &domain.BuildResult{
		Status:    domain.BuildSucceeded,
		Artifacts: make(domain.ArtifactSet),
	}
	next := domain.NewCacheFile()
	live := make(map[string]struct{})

	for _, pj := range hits {
		entry := pj.Cached
		result.CacheHits++
		result.Diagnostics = append(result.Diagnostics, entry.Diagnostics...)
		mergeArtifacts(result.Artifacts, entry.Artifacts, profile)
		next.Entries[pj.Fingerprint.String()] = *entry
		for _, p := range entry.Sources {
			live[p] = struct{}{}
		}
	}

	for _, outcome := range outcomes {
		for _, p := range outcome.Job.Paths() {
			live[p] = struct{}{}
		}
		switch outcome.Status {
		case domain.JobStatusCompiled:
			result.Compiled++
			result.Diagnostics = append(result.Diagnostics, outcome.Output.Diagnostics...)
			mergeArtifacts(result.Artifacts, outcome.Output.Artifacts, profile)
			next.Entries[outcome.Fingerprint.String()] = domain.CacheEntry{
				Version:     outcome.Job.Version,
				Sources:     outcome.Job.Paths(),
				Artifacts:   outcome.Output.Artifacts,
				Diagnostics: outcome.Output.Diagnostics,
				CreatedAt:   time.Now().Unix(),
			}
		case domain.JobStatusFailed:
			result.Failed++
			result.Diagnostics = append(result.Diagnostics, processDiagnostic(outcome))
		}
	}

	if len(result.Errors()) > 0 {
		result.Status = domain.BuildFailed
	}

	for p, stamp := range stamps {
		if _, ok := live[p]; ok {
			next.Files[p] = stamp
		}
	}
	if err := a.store.Save(ctx, next); err != nil {
		a.log.Warn("failed to persist build cache", "error", err)
	}

	return result
}

// mergeArtifacts copies src into dst with the profile's trim applied.
// Collisions cannot occur: a source path belongs to exactly one component,
// and contract names are unique within a source.
func mergeArtifacts(dst domain.ArtifactSet, src domain.ArtifactSet, profile domain.OutputProfile) {
	for path, contracts := range src {
		for name, artifact := range contracts {
			dst.Put(path, name, profile.Trim(artifact))
		}
	}
}

// processDiagnostic renders a job-scoped process failure as an error
// diagnostic attributed to the job's first source, so it travels with the
// merged diagnostics instead of aborting sibling jobs.
func processDiagnostic(outcome domain.JobOutcome) domain.Diagnostic {
	var loc *domain.SourceLocation
	if paths := outcome.Job.Paths(); len(paths) > 0 {
		loc = &domain.SourceLocation{File: paths[0], Start: -1, End: -1}
	}
	return domain.Diagnostic{
		Severity: domain.SeverityError,
		Message:  outcome.Err.Error(),
		Location: loc,
	}
}
