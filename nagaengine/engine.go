// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package nagaengine adapts the naga compiler to the engine contract
// consumed by the compilation driver.
//
// naga compiles WGSL to SPIR-V, GLSL, MSL, or HLSL but has neither a
// preprocessor nor a binary-level linker. This package supplies both
// ends: #include directives are expanded through the driver's
// Includer callback before parsing, and linking lowers the
// concatenated preprocessed sources of all units into one
// multi-entry-point module.
//
// naga keeps no process-global state, so the engine lifecycle is just
// New; there is nothing to shut down.
package nagaengine

import (
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/wgslc/engine"
	"github.com/gogpu/wgslc/stage"
)

// Engine compiles WGSL through naga.
type Engine struct{}

// New creates a naga-backed engine.
func New() *Engine { return &Engine{} }

// Compile implements engine.Engine.
func (e *Engine) Compile(name, source string, st stage.Stage, inc engine.Includer, opts engine.Options) *engine.Result {
	pp := &preprocessor{inc: inc}
	var out strings.Builder
	if !pp.expand(name, source, 0, &out) {
		return &engine.Result{Diagnostics: pp.diags}
	}
	flat := out.String()

	module, diags := lower(name, flat, opts)
	if diags != nil {
		return &engine.Result{Source: flat, Diagnostics: diags}
	}

	irStage, ok := toIRStage(st)
	if !ok {
		return &engine.Result{Source: flat, Diagnostics: []engine.Diagnostic{
			engine.Errorf(name, "stage %s is not supported by this engine", st),
		}}
	}
	if !hasEntryPoint(module, irStage) {
		return &engine.Result{Source: flat, Diagnostics: []engine.Diagnostic{
			engine.Errorf(name, "no %s entry point found in module", st),
		}}
	}

	binary, err := generate(module, opts)
	if err != nil {
		return &engine.Result{Source: flat, Diagnostics: []engine.Diagnostic{
			engine.Errorf(name, "%v", err),
		}}
	}
	return &engine.Result{Binary: binary, Source: flat, Success: true}
}

// Link implements engine.Engine. Units are compatible when no two
// share a pipeline stage and no two declare the same entry point
// name; the combined module then carries one entry point per stage.
func (e *Engine) Link(units []engine.LinkUnit, opts engine.Options) ([]byte, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("nothing to link")
	}
	if opts.Target != engine.TargetSPIRV {
		return nil, fmt.Errorf("linking requires the spirv target, not %s", opts.Target)
	}

	byStage := make(map[stage.Stage]string)
	byName := make(map[string]string)
	for _, u := range units {
		if prev, ok := byStage[u.Stage]; ok {
			return nil, &engine.LinkError{
				Files:  []string{prev, u.Name},
				Reason: fmt.Sprintf("duplicate %s entry points in", u.Stage),
			}
		}
		byStage[u.Stage] = u.Name

		module, diags := lower(u.Name, u.Source, opts)
		if diags != nil {
			return nil, fmt.Errorf("re-lowering %s for link: %s", u.Name, diags[0].Message)
		}
		for _, ep := range module.EntryPoints {
			if prev, ok := byName[ep.Name]; ok && prev != u.Name {
				return nil, &engine.LinkError{
					Files:  []string{prev, u.Name},
					Reason: fmt.Sprintf("entry point %q defined in both", ep.Name),
				}
			}
			byName[ep.Name] = u.Name
		}
	}

	var combined strings.Builder
	for _, u := range units {
		combined.WriteString(u.Source)
		combined.WriteByte('\n')
	}
	module, diags := lower("<linked>", combined.String(), opts)
	if diags != nil {
		names := make([]string, len(units))
		for i, u := range units {
			names[i] = u.Name
		}
		return nil, &engine.LinkError{Files: names, Reason: diags[0].Message}
	}
	return generate(module, opts)
}

// lower parses and lowers source to IR, running validation when
// requested. Failures come back as diagnostics attributed to name.
func lower(name, source string, opts engine.Options) (*ir.Module, []engine.Diagnostic) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, []engine.Diagnostic{engine.Errorf(name, "%v", err)}
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, []engine.Diagnostic{engine.Errorf(name, "%v", err)}
	}
	if opts.Validate {
		verrs, err := naga.Validate(module)
		if err != nil {
			return nil, []engine.Diagnostic{engine.Errorf(name, "%v", err)}
		}
		if len(verrs) > 0 {
			diags := make([]engine.Diagnostic, len(verrs))
			for i := range verrs {
				diags[i] = engine.Errorf(name, "%v", &verrs[i])
			}
			return nil, diags
		}
	}
	return module, nil
}

func generate(module *ir.Module, opts engine.Options) ([]byte, error) {
	switch opts.Target {
	case engine.TargetGLSL:
		text, _, err := glsl.Compile(module, glsl.DefaultOptions())
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	case engine.TargetMSL:
		text, _, err := msl.Compile(module, msl.DefaultOptions())
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	case engine.TargetHLSL:
		text, _, err := hlsl.Compile(module, hlsl.DefaultOptions())
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	default:
		return naga.GenerateSPIRV(module, spirv.Options{
			Version: spirv.Version1_3,
			Debug:   opts.Debug,
		})
	}
}

// toIRStage maps a driver stage to naga's IR stage. naga targets the
// core rasterization and compute pipeline only.
func toIRStage(st stage.Stage) (ir.ShaderStage, bool) {
	switch st {
	case stage.StageVertex:
		return ir.StageVertex, true
	case stage.StageFragment:
		return ir.StageFragment, true
	case stage.StageCompute:
		return ir.StageCompute, true
	default:
		return 0, false
	}
}

func hasEntryPoint(module *ir.Module, st ir.ShaderStage) bool {
	for _, ep := range module.EntryPoints {
		if ep.Stage == st {
			return true
		}
	}
	return false
}
