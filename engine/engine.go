// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package engine defines the contract between the compilation driver
// and a shading-language compiler. The driver treats the engine as
// opaque: it hands over source text, a resolved stage, and an include
// callback, and receives back a binary module or diagnostics.
package engine

import (
	"github.com/gogpu/wgslc/include"
	"github.com/gogpu/wgslc/stage"
)

// Target selects the output language of compilation.
type Target uint8

const (
	// TargetSPIRV produces a SPIR-V binary module. It is the only
	// target that supports linking.
	TargetSPIRV Target = iota

	// TargetGLSL produces GLSL source text.
	TargetGLSL

	// TargetMSL produces Metal Shading Language source text.
	TargetMSL

	// TargetHLSL produces HLSL source text.
	TargetHLSL
)

// String returns the lowercase target name used on the command line.
func (t Target) String() string {
	switch t {
	case TargetSPIRV:
		return "spirv"
	case TargetGLSL:
		return "glsl"
	case TargetMSL:
		return "msl"
	case TargetHLSL:
		return "hlsl"
	default:
		return "unknown"
	}
}

// ParseTarget converts a target name to a Target.
func ParseTarget(name string) (Target, bool) {
	switch name {
	case "spirv", "spv":
		return TargetSPIRV, true
	case "glsl":
		return TargetGLSL, true
	case "msl", "metal":
		return TargetMSL, true
	case "hlsl":
		return TargetHLSL, true
	}
	return TargetSPIRV, false
}

// Extension returns the artifact file extension for the target.
func (t Target) Extension() string {
	switch t {
	case TargetGLSL:
		return ".glsl"
	case TargetMSL:
		return ".metal"
	case TargetHLSL:
		return ".hlsl"
	default:
		return ".spv"
	}
}

// Includer is the callback surface an engine uses to resolve the
// #include directives it encounters. include.Includer implements it.
type Includer interface {
	Resolve(req include.Request) (*include.Result, error)
	Release(token include.ReleaseToken) error
}

// Options configures one engine invocation.
type Options struct {
	// Target selects the output language. Default is SPIR-V.
	Target Target

	// Debug includes debug info in the output where the target
	// supports it.
	Debug bool

	// Validate runs IR validation before code generation.
	Validate bool
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{Target: TargetSPIRV, Validate: true}
}

// Result is the outcome of one compile invocation. Exactly one of the
// two shapes holds: Success with a Binary, or failure with at least
// one error Diagnostic.
type Result struct {
	// Binary is the compiled module (or generated text for text
	// targets). Nil on failure.
	Binary []byte

	// Source is the fully preprocessed source text that was compiled.
	// Retained because linking re-lowers the combined sources.
	Source string

	// Diagnostics holds errors and warnings, in source order.
	Diagnostics []Diagnostic

	// Success reports whether compilation produced a module.
	Success bool
}

// LinkUnit is one compiled module handed to Link.
type LinkUnit struct {
	Name   string
	Stage  stage.Stage
	Binary []byte
	Source string
}

// Engine is a shading-language compiler. Implementations are not
// assumed reentrant; callers serialize all invocations.
type Engine interface {
	// Compile compiles one translation unit. name is the root file's
	// identity, used in diagnostics. The engine calls inc for every
	// #include it encounters and releases every buffer it obtains
	// before returning.
	Compile(name, source string, st stage.Stage, inc Includer, opts Options) *Result

	// Link combines compiled units into a single module. The engine
	// defines the compatibility rules; violations return a
	// *LinkError.
	Link(units []LinkUnit, opts Options) ([]byte, error)
}

// LinkError reports units that cannot be combined into one module.
type LinkError struct {
	// Files are the identities of the offending units.
	Files []string

	// Reason describes the collision.
	Reason string
}

func (e *LinkError) Error() string {
	msg := "cannot link: " + e.Reason
	for _, f := range e.Files {
		msg += " " + f
	}
	return msg
}
