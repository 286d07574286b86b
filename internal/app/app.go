// Package app orchestrates one build: source discovery, import graph
// construction, version resolution, cache partition, scheduling, and
// aggregation.
package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/smelt/internal/core/ports"
	"go.trai.ch/smelt/internal/engine/importer"
	"go.trai.ch/smelt/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// SourceFS is the union of source discovery and reading one build needs.
type SourceFS interface {
	ports.SourceScanner
	ports.SourceReader
}

// Factories construct the project-scoped collaborators of one build. The
// loaded configuration decides their roots and paths, so they cannot be
// process-wide singletons; each Build call creates and discards its own.
type Factories struct {
	Sources  func(root string) SourceFS
	Cache    func(path string) ports.CacheStore
	Versions func(dir string) ports.VersionManager
}

// App is the application layer: it owns the build pipeline and the clean and
// release-listing operations the CLI exposes.
type App struct {
	loader    ports.ConfigLoader
	scheduler *scheduler.Scheduler
	tracer    ports.Tracer
	log       ports.Logger
	factories Factories

	mu            sync.Mutex
	importer      *importer.Importer
	importerRules string
}

// New creates an App.
func New(loader ports.ConfigLoader, sched *scheduler.Scheduler, tracer ports.Tracer, log ports.Logger, factories Factories) *App {
	return &App{
		loader:    loader,
		scheduler: sched,
		tracer:    tracer,
		log:       log,
		factories: factories,
	}
}

// BuildOptions carries the per-invocation overrides of the CLI.
type BuildOptions struct {
	// Dir is the working directory the configuration is loaded from.
	Dir string
	// Force ignores prior cache entries so every job recompiles.
	Force bool
	// Jobs overrides the configured concurrency cap when positive.
	Jobs int
	// Pin overrides the configured compiler release when non-empty.
	Pin string
	// Offline forbids compiler downloads for this run.
	Offline bool
}

// Build runs one full compilation of the configured project. The returned
// result carries every job's diagnostics and artifacts whatever the overall
// status; the error covers configuration, graph, and resolution failures,
// which abort before any scheduling, and build-wide cancellation.
//
// A configured build timeout bounds the whole run; jobs still outstanding
// when it fires are killed and discarded, never cached.
func (a *App) Build(ctx context.Context, opts BuildOptions) (*domain.BuildResult, error) {
	project, err := a.loadProject(opts)
	if err != nil {
		return nil, err
	}
	if project.BuildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, project.BuildTimeout)
		defer cancel()
	}
	s := a.newSession(project)
	return s.run(ctx, opts.Force)
}

// importerFor returns the shared source parser, reusing the previous build's
// instance alongside its parse memo whenever the remapping rules are
// unchanged. Long-lived processes that build repeatedly skip re-reading and
// re-parsing unchanged files this way.
func (a *App) importerFor(remappings []string) (*importer.Importer, error) {
	key := strings.Join(remappings, "\x00")
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.importer == nil || a.importerRules != key {
		imp, err := importer.New(remappings, importer.DefaultMemoSize)
		if err != nil {
			return nil, err
		}
		a.importer, a.importerRules = imp, key
	}
	return a.importer, nil
}

// Clean drops the project's persisted build cache.
func (a *App) Clean(ctx context.Context, dir string) error {
	project, err := a.loader.Load(dir)
	if err != nil {
		return err
	}
	store := a.factories.Cache(project.AbsCachePath())
	if err := store.Clear(ctx); err != nil {
		return err
	}
	a.log.Info("build cache removed", "path", project.AbsCachePath())
	return nil
}

// Releases lists the installed and installable compiler releases for the
// project's install tree.
func (a *App) Releases(ctx context.Context, dir string) (installed, available []domain.Version, err error) {
	project, err := a.loader.Load(dir)
	if err != nil {
		return nil, nil, err
	}
	manager := a.factories.Versions(project.CompilerDir)
	if installed, err = manager.Installed(ctx); err != nil {
		return nil, nil, err
	}
	if available, err = manager.Available(ctx); err != nil {
		return nil, nil, err
	}
	return installed, available, nil
}

// loadProject loads the configuration and applies the CLI overrides.
func (a *App) loadProject(opts BuildOptions) (*domain.Project, error) {
	project, err := a.loader.Load(opts.Dir)
	if err != nil {
		return nil, zerr.Wrap(err, "loading project configuration")
	}
	if opts.Jobs > 0 {
		project.Jobs = opts.Jobs
	}
	if opts.Offline {
		project.Offline = true
	}
	if opts.Pin != "" {
		pin, err := domain.ParseVersion(opts.Pin)
		if err != nil {
			return nil, zerr.Wrap(err, "parsing compiler version override")
		}
		project.VersionPin = pin
	}
	return project, nil
}

// markCached records one tape vertex per cache hit so reused jobs show up in
// the progress view alongside compiled ones.
func (a *App) markCached(hits []domain.PlannedJob) {
	for _, pj := range hits {
		vtx := a.tracer.Vertex(pj.Fingerprint.String(), jobName(pj.Job))
		vtx.Complete(domain.VertexStatusCached, nil)
	}
}

func jobName(job domain.Job) string {
	return "solc " + job.Version.String()
}

// logSummary reports the hit/compile accounting of one finished build.
func (a *App) logSummary(result *domain.BuildResult) {
	a.log.Info("build finished",
		"status", string(result.Status),
		"jobs", result.Jobs(),
		"cached", result.CacheHits,
		"compiled", result.Compiled,
		"failed", result.Failed,
		"artifacts", result.Artifacts.Len(),
		"duration", result.Duration.Round(time.Millisecond).String(),
	)
}
