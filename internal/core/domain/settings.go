package domain

import (
	"encoding/json"
	"slices"

	"go.trai.ch/zerr"
)

// Optimizer holds the solc optimizer parameters.
type Optimizer struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Runs    int  `json:"runs" yaml:"runs"`
}

// Settings is the compiler configuration shared by every job of a build.
// Any field change invalidates every job fingerprint, forcing recompilation
// even when no source byte changed.
type Settings struct {
	Optimizer Optimizer `json:"optimizer"`

	// EVMVersion selects the target EVM ruleset ("paris", "shanghai", ...).
	// Empty means the compiler default for the resolved release.
	EVMVersion string `json:"evmVersion,omitempty"`

	// ViaIR routes code generation through the Yul pipeline.
	ViaIR bool `json:"viaIR,omitempty"`

	// Remappings are import remapping rules in "prefix=target" form.
	Remappings []string `json:"remappings,omitempty"`

	// OutputSelection lists the solc output fields requested for every
	// contract, e.g. "abi" or "evm.bytecode". Derived from the configured
	// output profile plus any extras from configuration.
	OutputSelection []string `json:"outputSelection"`
}

// Canonical returns a deterministic encoding of the settings for
// fingerprinting: slice fields are sorted and deduplicated, then the struct is
// marshaled with the fixed field order JSON gives a struct. Two settings
// values with equal Canonical bytes configure the compiler identically.
func (s Settings) Canonical() ([]byte, error) {
	c := s
	c.Remappings = sortedUnique(s.Remappings)
	c.OutputSelection = sortedUnique(s.OutputSelection)
	data, err := json.Marshal(c)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to canonicalize settings")
	}
	return data, nil
}

func sortedUnique(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	slices.Sort(out)
	return slices.Compact(out)
}
