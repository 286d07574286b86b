// Package config loads and validates the smelt.yaml project configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/smelt/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up in the working
// directory when no explicit path is given.
const DefaultFilename = "smelt.yaml"

const (
	defaultSourceDir = "contracts"
	defaultCachePath = ".smelt/cache.json"
	defaultOptRuns   = 200
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	// Filename is the config file name or path, resolved against the
	// working directory passed to Load.
	Filename string

	log ports.Logger
}

// NewLoader creates a Loader for the default filename.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{Filename: DefaultFilename, log: log}
}

// Load reads the configuration from the given working directory and returns
// the validated project.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	path := l.Filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "reading project configuration"), "path", path)
	}

	var dto projectDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "parsing project configuration"), "path", path)
	}

	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, zerr.Wrap(err, "resolving project root")
	}
	return l.build(root, dto)
}

// build validates the decoded DTO into a domain.Project, applying defaults.
func (l *Loader) build(root string, dto projectDTO) (*domain.Project, error) {
	profile, err := domain.ProfileByName(dto.Profile)
	if err != nil {
		return nil, err
	}

	var pin domain.Version
	if dto.Solc != "" && dto.Solc != "auto" {
		if pin, err = domain.ParseVersion(dto.Solc); err != nil {
			return nil, zerr.Wrap(err, "parsing solc version pin")
		}
	}

	var timeout time.Duration
	if dto.Timeout != "" {
		if timeout, err = time.ParseDuration(dto.Timeout); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "parsing job timeout"), "timeout", dto.Timeout)
		}
	}

	var buildTimeout time.Duration
	if dto.BuildTimeout != "" {
		if buildTimeout, err = time.ParseDuration(dto.BuildTimeout); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "parsing build timeout"), "build-timeout", dto.BuildTimeout)
		}
	}

	if dto.Jobs < 0 {
		return nil, zerr.With(zerr.New("jobs must not be negative"), "jobs", dto.Jobs)
	}

	sources := dto.Sources
	if len(sources) == 0 {
		sources = []string{defaultSourceDir}
	}
	cachePath := dto.Cache
	if cachePath == "" {
		cachePath = defaultCachePath
	}
	runs := dto.Optimizer.Runs
	if runs == 0 {
		runs = defaultOptRuns
	}

	project := &domain.Project{
		Root:       root,
		SourceDirs: sources,
		Settings: domain.Settings{
			Optimizer: domain.Optimizer{
				Enabled: dto.Optimizer.Enabled,
				Runs:    runs,
			},
			EVMVersion:      dto.EVMVersion,
			ViaIR:           dto.ViaIR,
			Remappings:      dto.Remappings,
			OutputSelection: append(profile.Selection(), dto.Output...),
		},
		Profile:      profile,
		VersionPin:   pin,
		Offline:      dto.Offline,
		Jobs:         dto.Jobs,
		JobTimeout:   timeout,
		BuildTimeout: buildTimeout,
		CachePath:    cachePath,
		CompilerDir:  dto.CompilerDir,
	}

	l.log.Debug("loaded project configuration",
		"root", root,
		"sources", len(project.SourceDirs),
		"profile", profile.Name(),
	)
	return project, nil
}
