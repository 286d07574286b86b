package solc

import (
	"encoding/json"

	"go.trai.ch/smelt/internal/core/domain"
)

// The types below mirror solc's standard JSON interface. The shape is an
// external contract owned by the compiler; field names and nesting must stay
// bit-compatible with what the binary accepts and produces.

type request struct {
	Language string                 `json:"language"`
	Sources  map[string]sourceInput `json:"sources"`
	Settings settingsInput          `json:"settings"`
}

type sourceInput struct {
	Content string `json:"content"`
}

type settingsInput struct {
	Remappings      []string                       `json:"remappings,omitempty"`
	Optimizer       optimizerInput                 `json:"optimizer"`
	EVMVersion      string                         `json:"evmVersion,omitempty"`
	ViaIR           bool                           `json:"viaIR,omitempty"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

type optimizerInput struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs,omitempty"`
}

type response struct {
	Errors    []responseError                      `json:"errors"`
	Contracts map[string]map[string]contractOutput `json:"contracts"`
	Sources   map[string]sourceID                  `json:"sources"`
}

type sourceID struct {
	ID int `json:"id"`
}

type responseError struct {
	Severity         string          `json:"severity"`
	Message          string          `json:"message"`
	FormattedMessage string          `json:"formattedMessage"`
	ErrorCode        string          `json:"errorCode"`
	SourceLocation   *sourceLocation `json:"sourceLocation"`
}

type sourceLocation struct {
	File  string `json:"file"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type contractOutput struct {
	ABI      json.RawMessage `json:"abi"`
	Metadata string          `json:"metadata"`
	EVM      evmOutput       `json:"evm"`
}

type evmOutput struct {
	Bytecode          bytecodeOutput    `json:"bytecode"`
	DeployedBytecode  bytecodeOutput    `json:"deployedBytecode"`
	MethodIdentifiers map[string]string `json:"methodIdentifiers"`
}

type bytecodeOutput struct {
	Object string `json:"object"`
}

// newRequest assembles the standard JSON request for one job.
func newRequest(job domain.Job) request {
	sources := make(map[string]sourceInput, len(job.Sources))
	for _, sf := range job.Sources {
		sources[sf.Path] = sourceInput{Content: string(sf.Content)}
	}
	return request{
		Language: "Solidity",
		Sources:  sources,
		Settings: settingsInput{
			Remappings: job.Settings.Remappings,
			Optimizer: optimizerInput{
				Enabled: job.Settings.Optimizer.Enabled,
				Runs:    job.Settings.Optimizer.Runs,
			},
			EVMVersion: job.Settings.EVMVersion,
			ViaIR:      job.Settings.ViaIR,
			OutputSelection: map[string]map[string][]string{
				"*": {"*": job.Settings.OutputSelection},
			},
		},
	}
}

// toDomain maps a decoded response onto the domain model.
func (r response) toDomain() *domain.CompilerOutput {
	out := &domain.CompilerOutput{Artifacts: make(domain.ArtifactSet)}

	for _, e := range r.Errors {
		d := domain.Diagnostic{
			Severity:  severity(e.Severity),
			Message:   e.Message,
			Formatted: e.FormattedMessage,
			Code:      e.ErrorCode,
		}
		if e.SourceLocation != nil {
			d.Location = &domain.SourceLocation{
				File:  e.SourceLocation.File,
				Start: e.SourceLocation.Start,
				End:   e.SourceLocation.End,
			}
		}
		out.Diagnostics = append(out.Diagnostics, d)
	}

	for path, contracts := range r.Contracts {
		for name, c := range contracts {
			out.Artifacts.Put(path, name, domain.Artifact{
				ABI:               c.ABI,
				Bytecode:          c.EVM.Bytecode.Object,
				DeployedBytecode:  c.EVM.DeployedBytecode.Object,
				Metadata:          c.Metadata,
				MethodIdentifiers: c.EVM.MethodIdentifiers,
			})
		}
	}
	return out
}

// severity maps the compiler's severity strings onto the domain vocabulary.
// Unknown strings are treated as errors: failing loudly on a new severity
// beats silently passing a build that might be broken.
func severity(s string) domain.Severity {
	switch s {
	case "warning":
		return domain.SeverityWarning
	case "info":
		return domain.SeverityInfo
	default:
		return domain.SeverityError
	}
}
