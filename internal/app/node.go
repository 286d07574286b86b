package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/smelt/internal/adapters/cache"     //nolint:depguard // Wired in app layer
	"go.trai.ch/smelt/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/smelt/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/smelt/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/smelt/internal/adapters/svm"       //nolint:depguard // Wired in app layer
	"go.trai.ch/smelt/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/smelt/internal/core/ports"
	"go.trai.ch/smelt/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components, providing
// controlled access to what the CLI layer needs.
type Components struct {
	App          *App
	Logger       ports.Logger
	Tracer       ports.Tracer
	ConfigLoader *config.Loader
}

// defaultFactories wires the real adapters into the per-build factory set.
func defaultFactories(log ports.Logger) Factories {
	return Factories{
		Sources: func(root string) SourceFS {
			return fs.New(root)
		},
		Cache: func(path string) ports.CacheStore {
			return cache.NewStore(path)
		},
		Versions: func(dir string) ports.VersionManager {
			return svm.New(dir, log)
		},
	}
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			scheduler.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[*config.Loader](ctx)
			if err != nil {
				return nil, err
			}

			sched, err := graft.Dep[*scheduler.Scheduler](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, sched, tracer, log, defaultFactories(log)), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			config.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[*config.Loader](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:          application,
		Logger:       log,
		Tracer:       tracer,
		ConfigLoader: loader,
	}, nil
}
