// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/smelt/internal/core/domain"
)

// Compiler runs one compiler invocation for one job.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Compile feeds the job's sources and settings to the compiler binary
	// at bin and decodes its response. The job must be hydrated. The
	// process's stderr streams to stderr as it runs.
	//
	// A non-nil error means the process itself failed: spawn, timeout, or
	// an undecodable response. Source-level compile errors come back as
	// diagnostics inside the output, not as an error.
	Compile(ctx context.Context, bin string, job domain.Job, stderr io.Writer) (*domain.CompilerOutput, error)
}
