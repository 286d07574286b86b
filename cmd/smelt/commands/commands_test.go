package commands_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smelt/cmd/smelt/commands"
	cachestore "go.trai.ch/smelt/internal/adapters/cache"
	"go.trai.ch/smelt/internal/adapters/config"
	"go.trai.ch/smelt/internal/adapters/fs"
	"go.trai.ch/smelt/internal/adapters/logger"
	"go.trai.ch/smelt/internal/adapters/telemetry"
	"go.trai.ch/smelt/internal/app"
	"go.trai.ch/smelt/internal/build"
	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/smelt/internal/core/ports"
	"go.trai.ch/smelt/internal/core/ports/mocks"
	"go.trai.ch/smelt/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type stubVersions struct {
	installed []domain.Version
	available []domain.Version
}

func (s *stubVersions) Installed(context.Context) ([]domain.Version, error) {
	return s.installed, nil
}

func (s *stubVersions) Available(context.Context) ([]domain.Version, error) {
	return s.available, nil
}

func (s *stubVersions) Install(_ context.Context, v domain.Version) (string, error) {
	return "/opt/solc/" + v.String() + "/solc-" + v.String(), nil
}

func parseVersions(t *testing.T, strs ...string) []domain.Version {
	t.Helper()
	out := make([]domain.Version, 0, len(strs))
	for _, s := range strs {
		v, err := domain.ParseVersion(s)
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func newComponents(t *testing.T, compiler ports.Compiler, versions ports.VersionManager) *app.Components {
	t.Helper()
	log := logger.NewWithWriter(io.Discard, slog.LevelError)
	tracer := telemetry.NewNoop()
	loader := config.NewLoader(log)
	application := app.New(
		loader,
		scheduler.NewScheduler(compiler, tracer, log),
		tracer,
		log,
		app.Factories{
			Sources:  func(root string) app.SourceFS { return fs.New(root) },
			Cache:    func(path string) ports.CacheStore { return cachestore.NewStore(path) },
			Versions: func(string) ports.VersionManager { return versions },
		},
	)
	return &app.Components{
		App:          application,
		Logger:       log,
		Tracer:       tracer,
		ConfigLoader: loader,
	}
}

// execute runs one CLI invocation and captures stdout.
func execute(t *testing.T, components *app.Components, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(components)
	cli.SetArgs(args)

	var out bytes.Buffer
	cli.SetOut(&out)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func writeProject(t *testing.T, sources map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFilename), nil, 0o600))
	for rel, content := range sources {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func compileStub(_ context.Context, _ string, job domain.Job, _ io.Writer) (*domain.CompilerOutput, error) {
	out := &domain.CompilerOutput{Artifacts: make(domain.ArtifactSet)}
	for _, sf := range job.Sources {
		name := filepath.Base(sf.Path)
		out.Artifacts.Put(sf.Path, name[:len(name)-len(".sol")], domain.Artifact{Bytecode: "0x60"})
	}
	return out, nil
}

func TestVersionCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	out, err := execute(t, newComponents(t, mocks.NewMockCompiler(ctrl), &stubVersions{}), "version")
	require.NoError(t, err)
	assert.Equal(t, build.Version+"\n", out)
}

func TestBuildCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := writeProject(t, map[string]string{
		"contracts/A.sol": `pragma solidity ^0.8.0; contract A {}`,
	})
	t.Chdir(dir)

	compiler := mocks.NewMockCompiler(ctrl)
	compiler.EXPECT().
		Compile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(compileStub)

	versions := &stubVersions{installed: parseVersions(t, "0.8.26")}
	out, err := execute(t, newComponents(t, compiler, versions), "build")
	require.NoError(t, err)
	assert.Contains(t, out, "1 jobs: 0 cached, 1 compiled, 0 failed")
}

func TestBuildCommand_WarningsInSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := writeProject(t, map[string]string{
		"contracts/A.sol": `pragma solidity ^0.8.0; contract A {}`,
	})
	t.Chdir(dir)

	compiler := mocks.NewMockCompiler(ctrl)
	compiler.EXPECT().
		Compile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, bin string, job domain.Job, w io.Writer) (*domain.CompilerOutput, error) {
			out, _ := compileStub(ctx, bin, job, w)
			out.Diagnostics = append(out.Diagnostics, domain.Diagnostic{
				Severity: domain.SeverityWarning,
				Message:  "unused local variable",
			})
			return out, nil
		})

	versions := &stubVersions{installed: parseVersions(t, "0.8.26")}
	out, err := execute(t, newComponents(t, compiler, versions), "build")
	require.NoError(t, err, "warnings alone never fail the build")
	assert.Contains(t, out, "1 jobs: 0 cached, 1 compiled, 0 failed, 1 warnings")
}

func TestBuildCommand_FailedBuildExitsNonZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := writeProject(t, map[string]string{
		"contracts/A.sol": `pragma solidity ^0.8.0; contract A {}`,
	})
	t.Chdir(dir)

	compiler := mocks.NewMockCompiler(ctrl)
	compiler.EXPECT().
		Compile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.CompilerOutput{
			Diagnostics: []domain.Diagnostic{
				{Severity: domain.SeverityError, Message: "undeclared identifier"},
			},
			Artifacts: make(domain.ArtifactSet),
		}, nil)

	versions := &stubVersions{installed: parseVersions(t, "0.8.26")}
	_, err := execute(t, newComponents(t, compiler, versions), "build")
	assert.ErrorIs(t, err, domain.ErrBuildFailed)
}

func TestBuildCommand_ConfigFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	custom := filepath.Join(dir, "alt.yaml")
	require.NoError(t, os.WriteFile(custom, []byte("sources: [src]\n"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o750))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "src", "A.sol"),
		[]byte(`pragma solidity ^0.8.0; contract A {}`), 0o600))
	t.Chdir(dir)

	compiler := mocks.NewMockCompiler(ctrl)
	compiler.EXPECT().
		Compile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(compileStub)

	versions := &stubVersions{installed: parseVersions(t, "0.8.26")}
	out, err := execute(t, newComponents(t, compiler, versions), "--config", custom, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "1 compiled")
}

func TestCleanCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := writeProject(t, nil)
	cachePath := filepath.Join(dir, ".smelt", "cache.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(cachePath), 0o750))
	require.NoError(t, os.WriteFile(cachePath, []byte("{}"), 0o600))
	t.Chdir(dir)

	_, err := execute(t, newComponents(t, mocks.NewMockCompiler(ctrl), &stubVersions{}), "clean")
	require.NoError(t, err)

	_, err = os.Stat(cachePath)
	assert.True(t, os.IsNotExist(err))
}

func TestVersionsCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := writeProject(t, nil)
	t.Chdir(dir)

	versions := &stubVersions{
		installed: parseVersions(t, "0.8.19"),
		available: parseVersions(t, "0.8.19", "0.8.26"),
	}

	out, err := execute(t, newComponents(t, mocks.NewMockCompiler(ctrl), versions), "versions")
	require.NoError(t, err)
	assert.Contains(t, out, "0.8.19 (installed)")
	assert.Contains(t, out, "0.8.26")

	out, err = execute(t, newComponents(t, mocks.NewMockCompiler(ctrl), versions), "versions", "--installed")
	require.NoError(t, err)
	assert.Contains(t, out, "0.8.19 (installed)")
	assert.NotContains(t, out, "0.8.26")
}

func TestUnknownCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := execute(t, newComponents(t, mocks.NewMockCompiler(ctrl), &stubVersions{}), "deploy")
	assert.Error(t, err)
}
