package resolver_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smelt/internal/adapters/logger"
	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/smelt/internal/core/ports/mocks"
	"go.trai.ch/smelt/internal/engine/resolver"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func versions(t *testing.T, strs ...string) []domain.Version {
	t.Helper()
	out := make([]domain.Version, 0, len(strs))
	for _, s := range strs {
		v, err := domain.ParseVersion(s)
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, slog.LevelError)
}

func member(path string, pragmas ...string) domain.SourceFile {
	return domain.SourceFile{Path: path, Hash: "h-" + path, Pragmas: pragmas}
}

func TestResolve_HighestSatisfying(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	vm := mocks.NewMockVersionManager(ctrl)
	vm.EXPECT().Installed(gomock.Any()).Return(versions(t, "0.8.9"), nil)
	vm.EXPECT().Available(gomock.Any()).Return(versions(t, "0.8.9", "0.8.19", "0.8.26", "0.9.0"), nil)

	r := resolver.New(vm, quietLogger())
	jobs, err := r.Resolve(context.Background(), domain.Project{}, [][]domain.SourceFile{
		{member("a.sol", "^0.8.0"), member("b.sol", ">=0.8.10")},
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "0.8.26", jobs[0].Version.String())
	assert.Equal(t, []string{"a.sol", "b.sol"}, jobs[0].Paths())
}

func TestResolve_OfflineUsesInstalledOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	vm := mocks.NewMockVersionManager(ctrl)
	vm.EXPECT().Installed(gomock.Any()).Return(versions(t, "0.8.19"), nil)
	// Available must not be consulted offline; no expectation set.

	r := resolver.New(vm, quietLogger())
	jobs, err := r.Resolve(context.Background(), domain.Project{Offline: true}, [][]domain.SourceFile{
		{member("a.sol", "^0.8.0")},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.8.19", jobs[0].Version.String())
}

func TestResolve_ReleaseIndexFailureDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	vm := mocks.NewMockVersionManager(ctrl)
	vm.EXPECT().Installed(gomock.Any()).Return(versions(t, "0.8.19"), nil)
	vm.EXPECT().Available(gomock.Any()).Return(nil, zerr.New("index fetch failed"))

	r := resolver.New(vm, quietLogger())
	jobs, err := r.Resolve(context.Background(), domain.Project{}, [][]domain.SourceFile{
		{member("a.sol", "^0.8.0")},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.8.19", jobs[0].Version.String())
}

func TestResolve_Pin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pin, err := domain.ParseVersion("0.8.19")
	require.NoError(t, err)

	vm := mocks.NewMockVersionManager(ctrl)
	vm.EXPECT().Installed(gomock.Any()).Return(versions(t, "0.8.19", "0.8.26"), nil)
	vm.EXPECT().Available(gomock.Any()).Return(nil, nil)

	r := resolver.New(vm, quietLogger())
	// The pin overrides pragmas that would otherwise pick 0.8.26.
	jobs, err := r.Resolve(context.Background(), domain.Project{VersionPin: pin}, [][]domain.SourceFile{
		{member("a.sol", "^0.8.0")},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.8.19", jobs[0].Version.String())
}

func TestResolve_PinUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pin, err := domain.ParseVersion("0.5.16")
	require.NoError(t, err)

	vm := mocks.NewMockVersionManager(ctrl)
	vm.EXPECT().Installed(gomock.Any()).Return(versions(t, "0.8.19"), nil)

	r := resolver.New(vm, quietLogger())
	_, err = r.Resolve(context.Background(), domain.Project{VersionPin: pin, Offline: true}, [][]domain.SourceFile{
		{member("a.sol")},
	})
	assert.ErrorIs(t, err, domain.ErrVersionUnavailable)
}

func TestResolve_Unsatisfiable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	vm := mocks.NewMockVersionManager(ctrl)
	vm.EXPECT().Installed(gomock.Any()).Return(versions(t, "0.8.19"), nil)
	vm.EXPECT().Available(gomock.Any()).Return(versions(t, "0.8.19"), nil)

	r := resolver.New(vm, quietLogger())
	_, err := r.Resolve(context.Background(), domain.Project{}, [][]domain.SourceFile{
		{member("a.sol", "^0.4.24")},
	})
	assert.ErrorIs(t, err, domain.ErrVersionUnavailable)
	assert.NotErrorIs(t, err, domain.ErrVersionConflict)
}

func TestResolve_Conflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	vm := mocks.NewMockVersionManager(ctrl)
	vm.EXPECT().Installed(gomock.Any()).Return(versions(t, "0.7.6", "0.8.19"), nil)
	vm.EXPECT().Available(gomock.Any()).Return(nil, nil)

	// Each member is satisfiable alone; the intersection is empty.
	r := resolver.New(vm, quietLogger())
	_, err := r.Resolve(context.Background(), domain.Project{}, [][]domain.SourceFile{
		{member("a.sol", "^0.7.0"), member("b.sol", "^0.8.0")},
	})
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestResolve_UnconstrainedComponent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	vm := mocks.NewMockVersionManager(ctrl)
	vm.EXPECT().Installed(gomock.Any()).Return(versions(t, "0.8.19", "0.8.26"), nil)

	// A file without a pragma joins any release; highest wins.
	r := resolver.New(vm, quietLogger())
	jobs, err := r.Resolve(context.Background(), domain.Project{Offline: true}, [][]domain.SourceFile{
		{member("a.sol")},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.8.26", jobs[0].Version.String())
}
