package app

import (
	"context"
	"strings"
	"time"

	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/smelt/internal/core/ports"
	"go.trai.ch/smelt/internal/engine/aggregator"
	"go.trai.ch/smelt/internal/engine/cache"
	"go.trai.ch/smelt/internal/engine/graph"
	"go.trai.ch/smelt/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// session is the explicit context of one build: the loaded project plus the
// project-scoped collaborators, created at build start and discarded at
// build end. The only state that outlives it is the cache file the
// aggregator persists.
type session struct {
	app        *App
	project    *domain.Project
	fs         SourceFS
	versions   ports.VersionManager
	cache      *cache.Engine
	aggregator *aggregator.Aggregator
}

func (a *App) newSession(project *domain.Project) *session {
	fs := a.factories.Sources(project.Root)
	store := a.factories.Cache(project.AbsCachePath())
	return &session{
		app:        a,
		project:    project,
		fs:         fs,
		versions:   a.factories.Versions(project.CompilerDir),
		cache:      cache.NewEngine(store, fs, a.log),
		aggregator: aggregator.New(store, a.log),
	}
}

// run drives the pipeline: discover, parse, component partition, version
// resolution, cache partition, dispatch, merge. Parse, import resolution,
// and version conflicts abort before any compiler process starts; job-scoped
// failures surface inside the merged result instead.
func (s *session) run(ctx context.Context, force bool) (*domain.BuildResult, error) {
	start := time.Now()
	log := s.app.log

	paths, err := s.fs.Discover(ctx, s.project.SourceDirs)
	if err != nil {
		return nil, zerr.Wrap(err, "discovering sources")
	}
	if len(paths) == 0 {
		return nil, zerr.With(domain.ErrNoSources, "dirs", strings.Join(s.project.AbsSourceDirs(), ", "))
	}
	log.Debug("discovered sources", "count", len(paths))

	imp, err := s.app.importerFor(s.project.Settings.Remappings)
	if err != nil {
		return nil, err
	}

	// Snapshot before parsing so the stat fast path is primed for the
	// graph's hashing fan-out.
	snapshot := s.cache.Snapshot(ctx, paths)
	if force {
		clear(snapshot.Entries)
	}

	g, err := graph.NewBuilder(imp, s.fs, s.project.Jobs).Build(ctx, paths)
	if err != nil {
		return nil, err
	}
	components := g.Components()
	log.Debug("partitioned import graph", "components", len(components))

	jobs, err := resolver.New(s.versions, log).Resolve(ctx, *s.project, components)
	if err != nil {
		return nil, err
	}

	plan, err := s.cache.Partition(snapshot, jobs)
	if err != nil {
		return nil, err
	}
	dirty := plan.Dirty()
	s.app.markCached(plan.Hits())
	log.Info("planned compilation",
		"jobs", len(plan.Jobs),
		"cached", len(plan.Jobs)-len(dirty),
		"dirty", len(dirty),
	)

	if err := s.cache.Hydrate(plan); err != nil {
		return nil, err
	}
	bins, err := s.installCompilers(ctx, dirty)
	if err != nil {
		return nil, err
	}

	outcomes, runErr := s.app.scheduler.Run(ctx, dirty, bins, s.project.Jobs, s.project.JobTimeout)

	// Merge even when the build was cancelled: outcomes cover only jobs
	// that genuinely finished, so persisting them keeps the cache
	// consistent.
	result := s.aggregator.Merge(ctx, s.project.Profile, plan.Hits(), outcomes, s.fs.Stamps())
	result.Duration = time.Since(start)
	if runErr != nil {
		return nil, zerr.Wrap(runErr, "build cancelled")
	}

	s.app.logSummary(result)
	return result, nil
}

// installCompilers ensures a binary is present for every release the dirty
// jobs resolved to and maps version to binary path for the scheduler.
func (s *session) installCompilers(ctx context.Context, dirty []domain.PlannedJob) (map[string]string, error) {
	bins := make(map[string]string)
	for _, pj := range dirty {
		v := pj.Job.Version
		if _, ok := bins[v.String()]; ok {
			continue
		}
		bin, err := s.versions.Install(ctx, v)
		if err != nil {
			return nil, zerr.Wrap(err, "providing compiler binary")
		}
		bins[v.String()] = bin
	}
	return bins, nil
}
