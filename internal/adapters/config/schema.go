package config

// projectDTO mirrors the smelt.yaml document. It is decoded as written and
// validated into a domain.Project in a second pass, so YAML concerns never
// leak past this package.
type projectDTO struct {
	// Sources lists the directories scanned for contracts, relative to the
	// project root.
	Sources []string `yaml:"sources"`

	// Remappings are import remapping rules in "prefix=target" form.
	Remappings []string `yaml:"remappings"`

	// Solc pins one compiler release for the whole project, or "auto" to
	// infer the release from the source pragmas.
	Solc string `yaml:"solc"`

	// Offline forbids compiler downloads.
	Offline bool `yaml:"offline"`

	// Jobs caps concurrent compiler processes. Zero means one per CPU.
	Jobs int `yaml:"jobs"`

	// Timeout is the wall clock budget per compiler invocation, as a Go
	// duration string. Empty means no limit.
	Timeout string `yaml:"timeout"`

	// BuildTimeout is the wall clock budget for the whole build, as a Go
	// duration string. Empty means no limit.
	BuildTimeout string `yaml:"build-timeout"`

	// Profile selects the artifact output profile: full, minimal, or abi.
	Profile string `yaml:"profile"`

	// Output adds extra solc output selectors on top of the profile's.
	Output []string `yaml:"output"`

	Optimizer optimizerDTO `yaml:"optimizer"`

	// EVMVersion selects the target EVM ruleset. Empty means the compiler
	// default.
	EVMVersion string `yaml:"evm-version"`

	// ViaIR routes code generation through the Yul pipeline.
	ViaIR bool `yaml:"via-ir"`

	// Cache locates the persisted build cache, relative to the root.
	Cache string `yaml:"cache"`

	// CompilerDir overrides the shared compiler install tree.
	CompilerDir string `yaml:"compiler-dir"`
}

type optimizerDTO struct {
	Enabled bool `yaml:"enabled"`
	Runs    int  `yaml:"runs"`
}
