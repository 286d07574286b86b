package domain

import "go.trai.ch/zerr"

// OutputProfile is the capability set controlling which compiler outputs a
// build requests and keeps. A profile is chosen once at configuration time;
// the aggregator calls through the interface and never inspects the variant.
type OutputProfile interface {
	// Name identifies the profile in configuration and logs.
	Name() string
	// Selection lists the compiler output selectors the profile requests
	// for every contract.
	Selection() []string
	// Trim strips artifact fields outside the profile's capability set.
	Trim(Artifact) Artifact
}

const (
	// ProfileFull keeps everything the compiler can attribute to a contract.
	ProfileFull = "full"
	// ProfileMinimal keeps the interface description and both bytecode
	// objects, enough to deploy and call.
	ProfileMinimal = "minimal"
	// ProfileABI keeps only the interface description.
	ProfileABI = "abi"
)

// ProfileByName resolves a configured profile name to its variant. The empty
// name selects ProfileFull.
func ProfileByName(name string) (OutputProfile, error) {
	switch name {
	case ProfileFull, "":
		return fullProfile{}, nil
	case ProfileMinimal:
		return minimalProfile{}, nil
	case ProfileABI:
		return abiProfile{}, nil
	default:
		return nil, zerr.With(
			zerr.Wrap(ErrUnknownProfile, "resolving output profile"),
			"profile", name,
		)
	}
}

type fullProfile struct{}

func (fullProfile) Name() string { return ProfileFull }

func (fullProfile) Selection() []string {
	return []string{
		"abi",
		"evm.bytecode.object",
		"evm.deployedBytecode.object",
		"evm.methodIdentifiers",
		"metadata",
	}
}

func (fullProfile) Trim(a Artifact) Artifact { return a }

type minimalProfile struct{}

func (minimalProfile) Name() string { return ProfileMinimal }

func (minimalProfile) Selection() []string {
	return []string{"abi", "evm.bytecode.object", "evm.deployedBytecode.object"}
}

func (minimalProfile) Trim(a Artifact) Artifact {
	return Artifact{
		ABI:              a.ABI,
		Bytecode:         a.Bytecode,
		DeployedBytecode: a.DeployedBytecode,
	}
}

type abiProfile struct{}

func (abiProfile) Name() string { return ProfileABI }

func (abiProfile) Selection() []string { return []string{"abi"} }

func (abiProfile) Trim(a Artifact) Artifact {
	return Artifact{ABI: a.ABI}
}
