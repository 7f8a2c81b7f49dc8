// Package wgslc is a glslc-style compilation driver for the naga
// shader compiler.
//
// wgslc takes one or more shader source files, determines each file's
// pipeline stage (from an explicit override, a shader_stage pragma,
// or the file extension), resolves #include directives against a
// configurable search path with exact cycle detection, and drives the
// compiler engine over the resolved sources. Results are assembled
// into per-file objects, a single linked module, a make-style
// dependency listing, or preprocessed text.
//
// Example usage:
//
//	binary, err := wgslc.CompileFile("shader.vert", wgslc.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The heavy lifting is delegated: package driver orchestrates runs,
// package include implements the include-resolution protocol, package
// stage infers pipeline stages, package assemble produces final
// artifacts, and package nagaengine binds naga as the compiler
// engine.
package wgslc

import (
	"context"
	"errors"

	"github.com/gogpu/wgslc/driver"
	"github.com/gogpu/wgslc/engine"
	"github.com/gogpu/wgslc/include"
	"github.com/gogpu/wgslc/nagaengine"
	"github.com/gogpu/wgslc/stage"
)

// Options configures the convenience entry points.
type Options struct {
	// IncludeDirs is the ordered include search path.
	IncludeDirs []string

	// Stage forces the pipeline stage. StageUnknown lets pragma and
	// extension inference decide.
	Stage stage.Stage

	// Target selects the output language.
	Target engine.Target

	// Debug includes debug info in the output.
	Debug bool

	// Validate runs IR validation before code generation.
	Validate bool

	// CacheIncludes reuses include content within a translation unit.
	CacheIncludes bool
}

// DefaultOptions returns sensible default options: SPIR-V output with
// validation enabled and stage inference.
func DefaultOptions() Options {
	return Options{Target: engine.TargetSPIRV, Validate: true}
}

// CompileFile compiles a single shader file to the configured target.
// Compilation failures are reported as an error carrying the rendered
// diagnostics.
func CompileFile(path string, opts Options) ([]byte, error) {
	return compileOne(driver.Request{Path: path, StageOverride: opts.Stage}, opts)
}

// CompileSource compiles in-memory source under a synthetic name,
// such as "<stdin>". The stage must come from opts.Stage or a
// shader_stage pragma, since a synthetic name rarely has a meaningful
// extension.
func CompileSource(name, source string, opts Options) ([]byte, error) {
	req := driver.Request{
		Source:        include.NewVirtual(name, []byte(source)),
		StageOverride: opts.Stage,
	}
	return compileOne(req, opts)
}

func compileOne(req driver.Request, opts Options) ([]byte, error) {
	d := driver.New(nagaengine.New())
	run := d.Run(context.Background(), []driver.Request{req}, driver.Options{
		IncludeDirs:   opts.IncludeDirs,
		CacheIncludes: opts.CacheIncludes,
		Engine: engine.Options{
			Target:   opts.Target,
			Debug:    opts.Debug,
			Validate: opts.Validate,
		},
	})
	if run.Failed() {
		return nil, errors.New(engine.Render(run.Diagnostics()))
	}
	return run.Files[0].Unit.Binary, nil
}
