package ports

import (
	"context"

	"go.trai.ch/smelt/internal/core/domain"
)

// VersionManager handles discovery and installation of compiler releases.
//
//go:generate go run go.uber.org/mock/mockgen -source=versions.go -destination=mocks/mock_versions.go -package=mocks
type VersionManager interface {
	// Installed lists the compiler releases present in the local install
	// tree, ascending.
	Installed(ctx context.Context) ([]domain.Version, error)

	// Available lists the releases the manager could install, ascending.
	// Implementations may consult the network.
	Available(ctx context.Context) ([]domain.Version, error)

	// Install ensures the given release is present locally and returns the
	// absolute path to its binary. Installing an already present release
	// touches no network.
	Install(ctx context.Context, v domain.Version) (string, error)
}
