package domain

import "encoding/json"

// Severity classifies a compiler diagnostic.
type Severity string

const (
	// SeverityError marks a diagnostic that fails the build.
	SeverityError Severity = "error"
	// SeverityWarning marks a diagnostic that is reported but not fatal.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks an informational note emitted by newer compiler
	// releases.
	SeverityInfo Severity = "info"
)

// SourceLocation points a diagnostic at a byte range of one source file.
// Start and End are byte offsets; -1 means the compiler reported none.
type SourceLocation struct {
	File  string `json:"file"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Diagnostic is one compiler message. Error severity is fatal to overall
// build success; warnings and infos are not.
type Diagnostic struct {
	Severity  Severity        `json:"severity"`
	Message   string          `json:"message"`
	Formatted string          `json:"formattedMessage,omitempty"`
	Code      string          `json:"errorCode,omitempty"`
	Location  *SourceLocation `json:"sourceLocation,omitempty"`
}

// IsError reports whether the diagnostic fails the build.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// Artifact is the compiled output of one contract, keyed externally by
// (source path, contract name). Fields mirror the compiler's standard JSON
// response; ABI stays raw because its shape belongs to the external contract,
// not to this system.
type Artifact struct {
	ABI               json.RawMessage   `json:"abi,omitempty"`
	Bytecode          string            `json:"bytecode,omitempty"`
	DeployedBytecode  string            `json:"deployedBytecode,omitempty"`
	Metadata          string            `json:"metadata,omitempty"`
	MethodIdentifiers map[string]string `json:"methodIdentifiers,omitempty"`
}

// ArtifactSet maps source path to contract name to artifact, the attribution
// shape the merged build result exposes.
type ArtifactSet map[string]map[string]Artifact

// Put inserts an artifact, allocating the inner map on first use.
func (s ArtifactSet) Put(path, name string, a Artifact) {
	contracts, ok := s[path]
	if !ok {
		contracts = make(map[string]Artifact)
		s[path] = contracts
	}
	contracts[name] = a
}

// Get looks up the artifact for (source path, contract name).
func (s ArtifactSet) Get(path, name string) (Artifact, bool) {
	a, ok := s[path][name]
	return a, ok
}

// Len counts the artifacts across all sources.
func (s ArtifactSet) Len() int {
	n := 0
	for _, contracts := range s {
		n += len(contracts)
	}
	return n
}

// CompilerOutput is one job's decoded response: its diagnostics and the
// artifacts of every contract the member sources declare.
type CompilerOutput struct {
	Diagnostics []Diagnostic
	Artifacts   ArtifactSet
}

// HasErrors reports whether any diagnostic is error severity.
func (o *CompilerOutput) HasErrors() bool {
	for _, d := range o.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}
