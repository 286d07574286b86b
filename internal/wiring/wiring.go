// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/smelt/internal/adapters/config"
	_ "go.trai.ch/smelt/internal/adapters/logger"
	_ "go.trai.ch/smelt/internal/adapters/solc"
	_ "go.trai.ch/smelt/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/smelt/internal/app"
	_ "go.trai.ch/smelt/internal/engine/scheduler"
)
