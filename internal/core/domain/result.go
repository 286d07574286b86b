package domain

import "time"

// JobStatus represents the terminal state of one compilation job.
type JobStatus string

const (
	// JobStatusCached indicates the job's output was reused from the cache.
	JobStatusCached JobStatus = "cached"
	// JobStatusCompiled indicates the compiler ran and returned a decodable
	// response, whatever its diagnostics say.
	JobStatusCompiled JobStatus = "compiled"
	// JobStatusFailed indicates the compiler process could not produce a
	// response: spawn failure, timeout, or malformed output.
	JobStatusFailed JobStatus = "failed"
)

// JobOutcome ties a scheduled job to what became of it. Output is nil only
// when Status is JobStatusFailed; Err is non-nil only in that same case.
// Source-level compile errors are not process failures: they arrive inside
// Output.Diagnostics with error severity.
type JobOutcome struct {
	Job         Job
	Fingerprint Fingerprint
	Status      JobStatus
	Output      *CompilerOutput
	Err         error
}

// BuildStatus summarizes a whole build run.
type BuildStatus string

const (
	// BuildSucceeded indicates every job produced output and none of the
	// diagnostics were errors.
	BuildSucceeded BuildStatus = "succeeded"
	// BuildFailed indicates at least one job failed or reported an error
	// diagnostic.
	BuildFailed BuildStatus = "failed"
)

// BuildResult is the merged outcome of a build: every artifact attributed to
// its (source path, contract name), every diagnostic from every job, and the
// hit/miss accounting the CLI reports.
type BuildResult struct {
	Status      BuildStatus
	Artifacts   ArtifactSet
	Diagnostics []Diagnostic
	CacheHits   int
	Compiled    int
	Failed      int
	Duration    time.Duration
}

// Errors filters the diagnostics down to error severity.
func (r *BuildResult) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.IsError() {
			out = append(out, d)
		}
	}
	return out
}

// Warnings filters the diagnostics down to warning severity.
func (r *BuildResult) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// Jobs counts every job the build partitioned, hit or miss.
func (r *BuildResult) Jobs() int {
	return r.CacheHits + r.Compiled + r.Failed
}
