package domain

import (
	"path/filepath"
	"time"
)

// Project is the validated build configuration for one contract tree. The
// config loader produces it once per run; everything downstream treats it as
// read-only.
type Project struct {
	// Root is the absolute project directory, the base for every relative
	// path below.
	Root string
	// SourceDirs are the directories scanned for contract sources,
	// relative to Root.
	SourceDirs []string
	// Settings are the compiler settings shared by every job in the run.
	Settings Settings
	// Profile bounds which compiler outputs the build requests and keeps.
	Profile OutputProfile
	// VersionPin forces every job onto one compiler release when set.
	VersionPin Version
	// Offline forbids compiler downloads; resolution uses installed
	// releases only.
	Offline bool
	// Jobs caps concurrent compiler processes. Zero means one per CPU.
	Jobs int
	// JobTimeout is the wall clock budget for one compiler invocation.
	// Zero means no limit.
	JobTimeout time.Duration
	// BuildTimeout is the wall clock budget for the whole build. Zero
	// means no limit.
	BuildTimeout time.Duration
	// CachePath locates the persisted build cache, relative to Root.
	CachePath string
	// CompilerDir is the compiler install tree shared across projects.
	CompilerDir string
}

// AbsSourceDirs resolves the configured source directories against Root.
func (p Project) AbsSourceDirs() []string {
	dirs := make([]string, len(p.SourceDirs))
	for i, d := range p.SourceDirs {
		dirs[i] = filepath.Join(p.Root, d)
	}
	return dirs
}

// AbsCachePath resolves the cache file location against Root.
func (p Project) AbsCachePath() string {
	return filepath.Join(p.Root, p.CachePath)
}
