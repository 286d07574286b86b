// Package main is the entry point for the smelt CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/smelt/cmd/smelt/commands"
	"go.trai.ch/smelt/internal/app"
	"go.trai.ch/smelt/internal/core/domain"
	_ "go.trai.ch/smelt/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// The logger is not available if initialization failed.
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		_ = components.Tracer.Close()
	}()

	cli := commands.New(components)
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrBuildFailed) {
			// Diagnostics were already printed by the build command.
			return 1
		}
		// zerr prints the full report with metadata under %+v.
		components.Logger.Error("command failed", err)
		return 1
	}
	return 0
}
