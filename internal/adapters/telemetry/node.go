package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	progrockadapter "go.trai.ch/smelt/internal/adapters/telemetry/progrock"
	"go.trai.ch/smelt/internal/core/ports"
)

// TracerNodeID is the unique identifier for the tracer adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

// envDisable turns progress recording off, leaving plain logs only.
const envDisable = "SMELT_NO_PROGRESS"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			if os.Getenv(envDisable) != "" {
				return NewNoop(), nil
			}
			return progrockadapter.New(), nil
		},
	})
}
