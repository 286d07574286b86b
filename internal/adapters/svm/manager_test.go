package svm_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smelt/internal/adapters/logger"
	"go.trai.ch/smelt/internal/adapters/svm"
	"go.trai.ch/smelt/internal/core/domain"
)

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, slog.LevelError)
}

func installRelease(t *testing.T, dir, version string) {
	t.Helper()
	releaseDir := filepath.Join(dir, version)
	require.NoError(t, os.MkdirAll(releaseDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(releaseDir, "solc-"+version), []byte("#!/bin/sh\n"), 0o700))
}

func names(vs []domain.Version) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

func TestInstalled(t *testing.T) {
	dir := t.TempDir()
	installRelease(t, dir, "0.8.19")
	installRelease(t, dir, "0.8.9")
	installRelease(t, dir, "0.8.10")

	// A version directory without its binary is a half-finished install.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "0.8.26"), 0o750))
	// Non-version entries are ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "downloads"), 0o750))

	m := svm.New(dir, quietLogger())
	installed, err := m.Installed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0.8.9", "0.8.10", "0.8.19"}, names(installed))
}

func TestInstalled_MissingTree(t *testing.T) {
	m := svm.New(filepath.Join(t.TempDir(), "absent"), quietLogger())
	installed, err := m.Installed(context.Background())
	require.NoError(t, err)
	assert.Empty(t, installed)
}

func TestAvailable(t *testing.T) {
	dir := t.TempDir()
	index := `{"releases": {
		"0.8.26": "solc-linux-amd64-v0.8.26",
		"0.8.19": "solc-linux-amd64-v0.8.19",
		"nightly": "solc-nightly"
	}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "releases.json"), []byte(index), 0o600))

	m := svm.New(dir, quietLogger())
	available, err := m.Available(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0.8.19", "0.8.26"}, names(available))
}

func TestAvailable_MissingIndex(t *testing.T) {
	m := svm.New(t.TempDir(), quietLogger())
	available, err := m.Available(context.Background())
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestAvailable_GarbageIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "releases.json"), []byte("not json"), 0o600))

	m := svm.New(dir, quietLogger())
	_, err := m.Available(context.Background())
	assert.Error(t, err)
}

func TestInstall_AlreadyPresent(t *testing.T) {
	dir := t.TempDir()
	installRelease(t, dir, "0.8.19")

	v, err := domain.ParseVersion("0.8.19")
	require.NoError(t, err)

	// A present release resolves to its binary without shelling out.
	m := svm.New(dir, quietLogger())
	bin, err := m.Install(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "0.8.19", "solc-0.8.19"), bin)
}
