// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package stage

// Provenance records where a stage assignment came from.
type Provenance uint8

const (
	// ByOverride means the caller supplied an explicit stage.
	ByOverride Provenance = iota

	// ByPragma means a #pragma shader_stage(...) directive decided.
	ByPragma

	// ByExtension means the file extension decided.
	ByExtension
)

// String returns a human-readable provenance name.
func (p Provenance) String() string {
	switch p {
	case ByOverride:
		return "override"
	case ByPragma:
		return "pragma"
	case ByExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// Assignment binds a file to its resolved stage and records how the
// decision was made.
type Assignment struct {
	File       string
	Stage      Stage
	Provenance Provenance
}

// AmbiguousError reports a file whose stage could not be determined
// by override, pragma, or extension.
type AmbiguousError struct {
	File string
}

func (e *AmbiguousError) Error() string {
	return e.File + ": cannot determine shader stage; use -fshader-stage, " +
		"a shader_stage pragma, or a recognized file extension"
}

// Resolve determines the stage of a source file.
//
// Precedence: override, then the first shader_stage pragma in the
// source, then the extension mapping. An override dominates a
// conflicting pragma without error; conflicting pragmas are only an
// error when no override is present. If nothing applies the result is
// an AmbiguousError.
func Resolve(file, source string, override Stage) (Assignment, error) {
	if override != StageUnknown {
		return Assignment{File: file, Stage: override, Provenance: ByOverride}, nil
	}
	s, err := scanPragma(file, source)
	if err != nil {
		return Assignment{}, err
	}
	if s != StageUnknown {
		return Assignment{File: file, Stage: s, Provenance: ByPragma}, nil
	}
	if s, ok := FromExtension(file); ok {
		return Assignment{File: file, Stage: s, Provenance: ByExtension}, nil
	}
	return Assignment{}, &AmbiguousError{File: file}
}
