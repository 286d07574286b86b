package domain

// VertexStatus represents the lifecycle state of one unit of work as shown
// by the build tracer. Compilation jobs are the vertices of a build run.
type VertexStatus string

const (
	// VertexStatusPending indicates the job is waiting for a worker slot.
	VertexStatusPending VertexStatus = "pending"
	// VertexStatusRunning indicates the compiler process is executing.
	VertexStatusRunning VertexStatus = "running"
	// VertexStatusCompleted indicates the job finished successfully.
	VertexStatusCompleted VertexStatus = "completed"
	// VertexStatusFailed indicates the job failed.
	VertexStatusFailed VertexStatus = "failed"
	// VertexStatusCached indicates the job was satisfied from the cache.
	VertexStatusCached VertexStatus = "cached"
)

// IsTerminal checks if a status is a terminal state.
func (s VertexStatus) IsTerminal() bool {
	switch s {
	case VertexStatusCompleted, VertexStatusFailed, VertexStatusCached:
		return true
	default:
		return false
	}
}

// VertexStatusForJob maps a job's terminal state onto the tracer vocabulary.
// A compiled job that carried error diagnostics still completed as a
// process, so the caller passes failed explicitly when the output decides
// the build failed.
func VertexStatusForJob(s JobStatus) VertexStatus {
	switch s {
	case JobStatusCached:
		return VertexStatusCached
	case JobStatusCompiled:
		return VertexStatusCompleted
	case JobStatusFailed:
		return VertexStatusFailed
	default:
		return VertexStatusPending
	}
}

// LogLevel represents the severity of a log message, mirroring the standard
// slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
