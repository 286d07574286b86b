// Package cache decides which jobs a build can skip. It loads the persisted
// cache, garbage-collects stale entries, and partitions jobs into cache hits
// and dirty work by fingerprint.
package cache

import (
	"context"

	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/smelt/internal/core/ports"
	"go.trai.ch/zerr"
)

// Engine is the read side of the build cache. The write side belongs to the
// aggregator alone, after every job has finished.
type Engine struct {
	store  ports.CacheStore
	reader ports.SourceReader
	log    ports.Logger
}

// NewEngine creates a cache engine over the given store.
func NewEngine(store ports.CacheStore, reader ports.SourceReader, log ports.Logger) *Engine {
	return &Engine{store: store, reader: reader, log: log}
}

// Snapshot loads the persisted cache and adapts it to the discovered source
// set: entries referencing files no longer present are dropped, and the
// surviving file stamps prime the reader's stat fast path. A missing,
// unreadable, or corrupt cache degrades to an empty one with a warning; it
// never fails the build. The returned snapshot is immutable for the rest of
// the build.
func (e *Engine) Snapshot(ctx context.Context, paths []string) *domain.CacheFile {
	snap, err := e.store.Load(ctx)
	if err != nil {
		e.log.Warn("discarding build cache", "error", err)
		snap = domain.NewCacheFile()
	}
	e.collect(snap, paths)
	e.reader.Prime(snap.Files)
	return snap
}

// collect drops entries and stamps that reference paths outside the live
// source set.
func (e *Engine) collect(snap *domain.CacheFile, paths []string) {
	live := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		live[p] = struct{}{}
	}

	dropped := 0
	for fp, entry := range snap.Entries {
		for _, src := range entry.Sources {
			if _, ok := live[src]; !ok {
				delete(snap.Entries, fp)
				dropped++
				break
			}
		}
	}
	for p := range snap.Files {
		if _, ok := live[p]; !ok {
			delete(snap.Files, p)
		}
	}
	if dropped > 0 {
		e.log.Debug("collected stale cache entries", "dropped", dropped)
	}
}

// Plan is the hit/dirty partition of one build's jobs.
type Plan struct {
	Jobs []domain.PlannedJob
}

// Partition fingerprints every job and classifies it against the snapshot.
// The pass is synchronous and single-shot: all fingerprints are known before
// any scheduling decision is made.
func (e *Engine) Partition(snap *domain.CacheFile, jobs []domain.Job) (*Plan, error) {
	plan := &Plan{Jobs: make([]domain.PlannedJob, 0, len(jobs))}
	for _, job := range jobs {
		fp, err := job.Fingerprint()
		if err != nil {
			return nil, zerr.Wrap(err, "fingerprinting job")
		}
		pj := domain.PlannedJob{Job: job, Fingerprint: fp}
		if entry, ok := snap.Entries[fp.String()]; ok {
			pj.Cached = &entry
		}
		plan.Jobs = append(plan.Jobs, pj)
	}
	return plan, nil
}

// Hydrate loads source content for every dirty job ahead of dispatch. Cache
// hits are never read.
func (e *Engine) Hydrate(plan *Plan) error {
	for i := range plan.Jobs {
		pj := &plan.Jobs[i]
		if pj.Cached != nil {
			continue
		}
		for j := range pj.Job.Sources {
			src := &pj.Job.Sources[j]
			if src.Hydrated() {
				continue
			}
			content, err := e.reader.Read(src.Path)
			if err != nil {
				return zerr.Wrap(err, "reading source for compilation")
			}
			src.Content = content
		}
	}
	return nil
}

// Dirty returns the jobs that must run.
func (p *Plan) Dirty() []domain.PlannedJob {
	var out []domain.PlannedJob
	for _, pj := range p.Jobs {
		if pj.Cached == nil {
			out = append(out, pj)
		}
	}
	return out
}

// Hits returns the jobs satisfied from the snapshot.
func (p *Plan) Hits() []domain.PlannedJob {
	var out []domain.PlannedJob
	for _, pj := range p.Jobs {
		if pj.Cached != nil {
			out = append(out, pj)
		}
	}
	return out
}
