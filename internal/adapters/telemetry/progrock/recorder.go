// Package progrock records build progress on a progrock tape, one vertex per
// compilation job.
package progrock

import (
	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/smelt/internal/core/ports"
)

// Recorder implements ports.Tracer over a progrock writer.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder over the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Vertex opens a vertex on the tape. The id must be stable for the work it
// names; jobs use their fingerprint, so a job keeps its identity across
// renders.
func (r *Recorder) Vertex(id, name string) ports.Vertex {
	v := r.rec.Vertex(digest.FromString(id), name)
	return &Vertex{vertex: v}
}

// Close flushes the tape.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
