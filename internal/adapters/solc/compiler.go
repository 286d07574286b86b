// Package solc invokes the external Solidity compiler over its standard JSON
// interface: one process per job, request on stdin, response on stdout, one
// round trip.
package solc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os/exec"

	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/smelt/internal/core/ports"
	"go.trai.ch/zerr"
)

// Compiler implements ports.Compiler using os/exec.
type Compiler struct {
	log ports.Logger
}

// New creates a Compiler.
func New(log ports.Logger) *Compiler {
	return &Compiler{log: log}
}

// Compile runs bin in standard JSON mode on the job's sources and settings.
// Source-level compile errors come back inside the output as diagnostics;
// the returned error covers only process-level failures. A spawn failure is
// tagged domain.ErrProcessStart so the scheduler can retry it; everything
// the compiler itself decided is deterministic and never retried.
func (c *Compiler) Compile(ctx context.Context, bin string, job domain.Job, stderr io.Writer) (*domain.CompilerOutput, error) {
	if !job.Hydrated() {
		return nil, zerr.With(zerr.New("job dispatched without source content"), "version", job.Version.String())
	}

	payload, err := json.Marshal(newRequest(job))
	if err != nil {
		return nil, zerr.Wrap(err, "encoding compiler request")
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--standard-json") //nolint:gosec // bin comes from the version manager
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	c.log.Debug("invoking compiler",
		"version", job.Version.String(),
		"bin", bin,
		"sources", len(job.Sources),
	)

	if err := cmd.Start(); err != nil {
		serr := zerr.Wrap(domain.ErrProcessStart, err.Error())
		return nil, zerr.With(serr, "bin", bin)
	}
	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			// Killed by deadline or build cancellation; the scheduler
			// classifies which.
			return nil, zerr.Wrap(err, "compiler process killed")
		}
		perr := zerr.Wrap(domain.ErrCompilerProcess, "compiler exited abnormally")
		perr = zerr.With(perr, "version", job.Version.String())
		return nil, zerr.With(perr, "exit_code", exitCode(err))
	}

	var resp response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		perr := zerr.Wrap(domain.ErrCompilerProcess, "compiler produced a malformed response")
		return nil, zerr.With(perr, "version", job.Version.String())
	}
	return resp.toDomain(), nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
