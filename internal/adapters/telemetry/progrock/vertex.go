package progrock

import (
	"io"

	"github.com/vito/progrock"
	"go.trai.ch/smelt/internal/core/domain"
)

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder
}

// Stderr returns the writer the compiler process's error stream goes to.
func (v *Vertex) Stderr() io.Writer {
	return v.vertex.Stderr()
}

// Complete marks the vertex terminal.
func (v *Vertex) Complete(status domain.VertexStatus, err error) {
	switch status {
	case domain.VertexStatusCached:
		v.vertex.Cached()
	case domain.VertexStatusFailed:
		v.vertex.Done(err)
	default:
		v.vertex.Done(nil)
	}
}
