package domain

import "go.trai.ch/zerr"

var (
	// ErrParse is returned when a source file's pragma or import syntax is malformed.
	ErrParse = zerr.New("source parse failed")

	// ErrImportResolution is returned when an import target cannot be located
	// under any configured remapping or source root.
	ErrImportResolution = zerr.New("import could not be resolved")

	// ErrVersionConflict is returned when the version constraints of a connected
	// component have an empty intersection.
	ErrVersionConflict = zerr.New("version constraints conflict")

	// ErrVersionUnavailable is returned when no installed or installable compiler
	// release satisfies a component's combined constraint.
	ErrVersionUnavailable = zerr.New("no compiler release satisfies constraint")

	// ErrCompilerProcess is returned when an external compiler invocation exits
	// non-zero without diagnostics, crashes, or produces a malformed response.
	// It is scoped to the job that raised it.
	ErrCompilerProcess = zerr.New("compiler process failed")

	// ErrProcessStart wraps ErrCompilerProcess for failures to even launch
	// the compiler binary. It marks the one retryable failure class: a spawn
	// failure can be transient resource exhaustion, while a compiler-reported
	// failure is deterministic and retrying cannot change it.
	ErrProcessStart = zerr.Wrap(ErrCompilerProcess, "compiler process could not start")

	// ErrTimeout is returned when a compiler invocation exceeds its configured
	// deadline and is terminated. It is scoped to the job that raised it.
	ErrTimeout = zerr.New("compilation timed out")

	// ErrCacheCorruption marks a persisted cache that could not be decoded or
	// failed its checksum. It is always recovered by treating the cache as
	// empty; it never fails a build.
	ErrCacheCorruption = zerr.New("cache file corrupted")

	// ErrDuplicateSource is returned when the same canonical path is added to a
	// graph twice.
	ErrDuplicateSource = zerr.New("source already in graph")

	// ErrNoSources is returned when source discovery finds nothing to compile.
	ErrNoSources = zerr.New("no sources found")

	// ErrBuildFailed is returned by the CLI layer when the merged result carries
	// at least one error-severity diagnostic.
	ErrBuildFailed = zerr.New("build finished with errors")

	// ErrUnknownProfile is returned when the configured output profile name does
	// not match any of the supported variants.
	ErrUnknownProfile = zerr.New("unknown output profile")
)
