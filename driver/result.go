package driver

import (
	"github.com/gogpu/wgslc/engine"
	"github.com/gogpu/wgslc/include"
	"github.com/gogpu/wgslc/stage"
)

// CompiledUnit is one successfully compiled translation unit.
type CompiledUnit struct {
	// Path is the input identity as given in the request.
	Path string

	// Stage is the resolved pipeline stage.
	Stage stage.Stage

	// Binary is the engine's output module.
	Binary []byte

	// Source is the fully preprocessed source, retained for linking.
	Source string
}

// FileResult is the outcome for one input file. Exactly one of Unit
// and Diagnostics is set.
type FileResult struct {
	// Path is the input identity as given in the request.
	Path string

	// Stage is the resolved stage, or StageUnknown when resolution
	// failed.
	Stage stage.Stage

	// Unit is the compiled unit on success.
	Unit *CompiledUnit

	// Diagnostics holds the failure, when Unit is nil.
	Diagnostics []engine.Diagnostic

	// Deps lists every file read while compiling this input, root
	// first. Nil when the root file itself could not be read.
	Deps *include.DependencyRecord
}

// Failed reports whether this file did not compile.
func (r *FileResult) Failed() bool { return r.Unit == nil }

// RunResult aggregates one run. Files appear in request order; in
// fail-fast mode files never attempted are absent.
type RunResult struct {
	Files []FileResult
}

// Failed reports whether any attempted file failed.
func (r *RunResult) Failed() bool {
	for i := range r.Files {
		if r.Files[i].Failed() {
			return true
		}
	}
	return false
}

// Units returns the compiled units of all successful files, in
// request order.
func (r *RunResult) Units() []*CompiledUnit {
	var units []*CompiledUnit
	for i := range r.Files {
		if r.Files[i].Unit != nil {
			units = append(units, r.Files[i].Unit)
		}
	}
	return units
}

// Diagnostics returns every diagnostic of the run, grouped by file in
// request order.
func (r *RunResult) Diagnostics() []engine.Diagnostic {
	var diags []engine.Diagnostic
	for i := range r.Files {
		diags = append(diags, r.Files[i].Diagnostics...)
	}
	return diags
}
