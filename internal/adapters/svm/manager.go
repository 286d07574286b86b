// Package svm locates and installs Solidity compiler releases using the svm
// directory layout: one subdirectory per version holding a solc-<version>
// binary, plus a releases.json index of installable releases maintained by
// the installer.
package svm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/smelt/internal/core/ports"
	"go.trai.ch/zerr"
)

// indexFile is the release index the installer keeps at the svm root.
const indexFile = "releases.json"

// Manager implements ports.VersionManager over an svm install tree.
// Installation itself is owned by the svm CLI; the manager only shells out
// to it and verifies the result.
type Manager struct {
	dir string
	log ports.Logger
}

// New creates a Manager over the given svm directory. An empty dir selects
// the conventional ~/.svm location.
func New(dir string, log ports.Logger) *Manager {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Manager{dir: dir, log: log}
}

// DefaultDir returns the conventional svm install tree location.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".svm"
	}
	return filepath.Join(home, ".svm")
}

// Installed lists the releases present in the install tree, ascending. A
// missing tree means nothing is installed yet, not an error. Entries whose
// binary is absent are skipped: a half-finished install must not be offered
// to the resolver.
func (m *Manager) Installed(_ context.Context) ([]domain.Version, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "reading compiler install tree"), "dir", m.dir)
	}

	var out []domain.Version
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := domain.ParseVersion(e.Name())
		if err != nil {
			continue
		}
		if _, err := os.Stat(m.binaryPath(v)); err != nil {
			continue
		}
		out = append(out, v)
	}
	sortVersions(out)
	return out, nil
}

// Available lists the releases the installer's index knows about, ascending.
// A missing index is an empty universe, and resolution degrades to installed
// releases.
func (m *Manager) Available(_ context.Context) ([]domain.Version, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, indexFile)) //nolint:gosec // fixed name under the svm root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "reading release index"), "dir", m.dir)
	}

	var index struct {
		Releases map[string]string `json:"releases"`
	}
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "parsing release index"), "dir", m.dir)
	}

	out := make([]domain.Version, 0, len(index.Releases))
	for name := range index.Releases {
		v, err := domain.ParseVersion(name)
		if err != nil {
			m.log.Debug("skipping unparsable release index entry", "release", name)
			continue
		}
		out = append(out, v)
	}
	sortVersions(out)
	return out, nil
}

// Install ensures the release is present and returns the absolute path to
// its binary. An already installed release touches neither the network nor
// the svm CLI.
func (m *Manager) Install(ctx context.Context, v domain.Version) (string, error) {
	bin := m.binaryPath(v)
	if _, err := os.Stat(bin); err == nil {
		return bin, nil
	}

	m.log.Info("installing compiler release", "version", v.String())
	cmd := exec.CommandContext(ctx, "svm", "install", v.String())
	cmd.Env = append(os.Environ(), "SVM_HOME="+m.dir)
	if output, err := cmd.CombinedOutput(); err != nil {
		ierr := zerr.Wrap(err, "compiler release installation failed")
		ierr = zerr.With(ierr, "version", v.String())
		return "", zerr.With(ierr, "output", strings.TrimSpace(string(output)))
	}

	if _, err := os.Stat(bin); err != nil {
		ierr := zerr.With(zerr.New("installer finished but binary is missing"), "version", v.String())
		return "", zerr.With(ierr, "path", bin)
	}
	return bin, nil
}

func (m *Manager) binaryPath(v domain.Version) string {
	return filepath.Join(m.dir, v.String(), fmt.Sprintf("solc-%s", v))
}

func sortVersions(vs []domain.Version) {
	slices.SortFunc(vs, func(a, b domain.Version) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
}
