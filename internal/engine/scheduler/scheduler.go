// Package scheduler dispatches dirty compilation jobs as bounded concurrent
// compiler processes.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/smelt/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	// startRetryLimit bounds retries of spawn failures. Compiler-reported
	// failures are deterministic and never retried.
	startRetryLimit = 2
	// startRetryBackoff is the delay before the first spawn retry; it
	// doubles per attempt.
	startRetryBackoff = 100 * time.Millisecond
)

// Scheduler runs jobs on a bounded pool of compiler processes. Jobs are
// independent: no ordering holds between them beyond pool admission, and a
// failing job never aborts its siblings.
type Scheduler struct {
	compiler ports.Compiler
	tracer   ports.Tracer
	log      ports.Logger
}

// NewScheduler creates a Scheduler with the given dependencies.
func NewScheduler(compiler ports.Compiler, tracer ports.Tracer, log ports.Logger) *Scheduler {
	return &Scheduler{compiler: compiler, tracer: tracer, log: log}
}

// Run dispatches every job and collects its outcome. bins maps a resolved
// version to its compiler binary; workers caps concurrent processes, zero
// meaning one per CPU; timeout bounds each invocation, zero meaning none.
//
// Cancelling ctx terminates every outstanding process. Jobs killed that way
// are discarded rather than reported, so a cancelled build's outcomes cover
// only work that genuinely finished; the context error is returned alongside
// them.
func (s *Scheduler) Run(ctx context.Context, jobs []domain.PlannedJob, bins map[string]string, workers int, timeout time.Duration) ([]domain.JobOutcome, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu       sync.Mutex
		outcomes = make([]domain.JobOutcome, 0, len(jobs))
	)
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, pj := range jobs {
		g.Go(func() error {
			outcome, ok := s.runJob(ctx, pj, bins[pj.Job.Version.String()], timeout)
			if !ok {
				return ctx.Err()
			}
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Fingerprint.String() < outcomes[j].Fingerprint.String()
	})
	return outcomes, err
}

// runJob executes one job and classifies the result. The second return is
// false when the job was discarded by build-wide cancellation.
func (s *Scheduler) runJob(ctx context.Context, pj domain.PlannedJob, bin string, timeout time.Duration) (domain.JobOutcome, bool) {
	if ctx.Err() != nil {
		return domain.JobOutcome{}, false
	}

	vtx := s.tracer.Vertex(pj.Fingerprint.String(), jobName(pj.Job))

	if bin == "" {
		err := zerr.With(
			zerr.Wrap(domain.ErrCompilerProcess, "no compiler binary for resolved version"),
			"version", pj.Job.Version.String(),
		)
		vtx.Complete(domain.VertexStatusFailed, err)
		return s.failed(pj, err), true
	}

	jobCtx := ctx
	cancel := func() {}
	if timeout > 0 {
		jobCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	out, err := s.compileWithRetry(jobCtx, bin, pj.Job, vtx)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			// Build-wide cancellation: the job was killed, not failed.
			vtx.Complete(domain.VertexStatusFailed, ctx.Err())
			return domain.JobOutcome{}, false
		case errors.Is(jobCtx.Err(), context.DeadlineExceeded):
			terr := zerr.With(
				zerr.Wrap(domain.ErrTimeout, "compiler invocation exceeded deadline"),
				"timeout", timeout.String(),
			)
			vtx.Complete(domain.VertexStatusFailed, terr)
			return s.failed(pj, terr), true
		default:
			vtx.Complete(domain.VertexStatusFailed, err)
			return s.failed(pj, err), true
		}
	}

	status := domain.VertexStatusCompleted
	if out.HasErrors() {
		status = domain.VertexStatusFailed
	}
	vtx.Complete(status, nil)

	return domain.JobOutcome{
		Job:         pj.Job,
		Fingerprint: pj.Fingerprint,
		Status:      domain.JobStatusCompiled,
		Output:      out,
	}, true
}

// compileWithRetry invokes the compiler, retrying spawn failures a bounded
// number of times with doubling backoff.
func (s *Scheduler) compileWithRetry(ctx context.Context, bin string, job domain.Job, vtx ports.Vertex) (*domain.CompilerOutput, error) {
	backoff := startRetryBackoff
	for attempt := 0; ; attempt++ {
		out, err := s.compiler.Compile(ctx, bin, job, vtx.Stderr())
		if err == nil || attempt >= startRetryLimit || ctx.Err() != nil || !errors.Is(err, domain.ErrProcessStart) {
			return out, err
		}
		s.log.Warn("compiler failed to start, retrying",
			"version", job.Version.String(),
			"attempt", attempt+1,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return nil, err
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func (s *Scheduler) failed(pj domain.PlannedJob, err error) domain.JobOutcome {
	s.log.Error("compilation job failed", err,
		"version", pj.Job.Version.String(),
		"sources", len(pj.Job.Sources),
	)
	return domain.JobOutcome{
		Job:         pj.Job,
		Fingerprint: pj.Fingerprint,
		Status:      domain.JobStatusFailed,
		Err:         err,
	}
}

func jobName(job domain.Job) string {
	return fmt.Sprintf("solc %s [%d sources]", job.Version, len(job.Sources))
}
