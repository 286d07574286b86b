package ports

import (
	"io"

	"go.trai.ch/smelt/internal/core/domain"
)

// Tracer records build progress as a tape of vertices, one per unit of work.
//
//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks
type Tracer interface {
	// Vertex opens a unit of work on the tape. The id must be stable for
	// the work it names; jobs use their fingerprint.
	Vertex(id, name string) Vertex

	// Close flushes the tape.
	Close() error
}

// Vertex is one unit of work being traced.
type Vertex interface {
	// Stderr returns the writer the unit's diagnostic stream goes to.
	Stderr() io.Writer

	// Complete marks the vertex terminal. err is recorded only when status
	// is failed.
	Complete(status domain.VertexStatus, err error)
}
