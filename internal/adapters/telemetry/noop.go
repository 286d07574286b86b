// Package telemetry provides the build progress tracer adapters.
package telemetry

import (
	"io"

	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/smelt/internal/core/ports"
)

// NoopTracer is a no-op implementation of ports.Tracer.
type NoopTracer struct{}

// NewNoop creates a NoopTracer.
func NewNoop() *NoopTracer {
	return &NoopTracer{}
}

// Vertex returns an inert vertex.
func (t *NoopTracer) Vertex(_, _ string) ports.Vertex {
	return noopVertex{}
}

// Close does nothing.
func (t *NoopTracer) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Stderr() io.Writer { return io.Discard }

func (noopVertex) Complete(_ domain.VertexStatus, _ error) {}
