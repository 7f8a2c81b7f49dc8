// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package assemble turns a run's compiled units into final artifacts:
// one object per input, a single linked module, a make-style
// dependency listing, or preprocessed source text.
package assemble

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gogpu/wgslc/driver"
	"github.com/gogpu/wgslc/engine"
)

// Mode selects the final artifact shape.
type Mode uint8

const (
	// ModeSeparate emits one artifact per compiled input.
	ModeSeparate Mode = iota

	// ModeLinked combines every compiled unit into a single module.
	ModeLinked

	// ModeDeps emits a dependency listing instead of binaries.
	ModeDeps

	// ModePreprocess emits the flattened source text of each input.
	ModePreprocess
)

// Artifact is one final output: a name and its raw bytes.
type Artifact struct {
	Name string
	Data []byte
}

// Linker combines compiled units into one module. *driver.Driver
// implements it with the run's engine serialization.
type Linker interface {
	Link(units []engine.LinkUnit, opts engine.Options) ([]byte, error)
}

// Options configures assembly.
type Options struct {
	// Linker performs linked-mode combination. Required for
	// ModeLinked.
	Linker Linker

	// Engine mirrors the options the units were compiled with.
	Engine engine.Options

	// Output overrides the artifact name: the linked module name in
	// ModeLinked, the sole artifact name for single-input
	// ModeSeparate and ModePreprocess, and the rule target in
	// ModeDeps.
	Output string
}

// ErrRunFailed is returned when assembly is requested for a run with
// failures; the run's own diagnostics are the authoritative report.
var ErrRunFailed = errors.New("run has failing files; assembly not attempted")

// Error reports compiled units that cannot be assembled, naming the
// offending files.
type Error struct {
	Files  []string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot assemble %s: %s", strings.Join(e.Files, ", "), e.Reason)
}

// Assemble produces the run's final artifacts. It requires every
// requested file to have compiled; otherwise it returns ErrRunFailed
// and the caller surfaces the run's diagnostics directly.
func Assemble(run *driver.RunResult, mode Mode, opts Options) ([]Artifact, error) {
	if run.Failed() || len(run.Files) == 0 {
		return nil, ErrRunFailed
	}

	switch mode {
	case ModeSeparate:
		return separate(run, opts)
	case ModeLinked:
		return linked(run, opts)
	case ModeDeps:
		return deps(run, opts)
	case ModePreprocess:
		return preprocessed(run, opts)
	default:
		return nil, fmt.Errorf("unknown assembly mode %d", mode)
	}
}

func separate(run *driver.RunResult, opts Options) ([]Artifact, error) {
	units := run.Units()
	if opts.Output != "" && len(units) > 1 {
		return nil, fmt.Errorf("cannot write %d objects to the single output %s", len(units), opts.Output)
	}
	artifacts := make([]Artifact, 0, len(units))
	for _, u := range units {
		name := opts.Output
		if name == "" {
			name = ObjectName(u.Path, opts.Engine.Target)
		}
		artifacts = append(artifacts, Artifact{Name: name, Data: u.Binary})
	}
	return artifacts, nil
}

func linked(run *driver.RunResult, opts Options) ([]Artifact, error) {
	if opts.Linker == nil {
		return nil, fmt.Errorf("linked mode requires a linker")
	}
	units := run.Units()
	linkUnits := make([]engine.LinkUnit, len(units))
	for i, u := range units {
		linkUnits[i] = engine.LinkUnit{
			Name:   u.Path,
			Stage:  u.Stage,
			Binary: u.Binary,
			Source: u.Source,
		}
	}
	binary, err := opts.Linker.Link(linkUnits, opts.Engine)
	if err != nil {
		var linkErr *engine.LinkError
		if errors.As(err, &linkErr) {
			return nil, &Error{Files: linkErr.Files, Reason: linkErr.Reason}
		}
		return nil, err
	}
	name := opts.Output
	if name == "" {
		name = "a" + opts.Engine.Target.Extension()
	}
	return []Artifact{{Name: name, Data: binary}}, nil
}

func deps(run *driver.RunResult, opts Options) ([]Artifact, error) {
	var b strings.Builder
	for i := range run.Files {
		fr := &run.Files[i]
		if fr.Deps == nil {
			continue
		}
		target := opts.Output
		if target == "" {
			target = ObjectName(fr.Path, opts.Engine.Target)
		}
		b.WriteString(RenderRule(target, fr.Deps.Identities()))
	}
	// Dependency listings go to standard output, like glslc -M.
	return []Artifact{{Name: "-", Data: []byte(b.String())}}, nil
}

func preprocessed(run *driver.RunResult, opts Options) ([]Artifact, error) {
	units := run.Units()
	if opts.Output != "" && len(units) > 1 {
		return nil, fmt.Errorf("cannot write %d preprocessed inputs to the single output %s", len(units), opts.Output)
	}
	artifacts := make([]Artifact, 0, len(units))
	for _, u := range units {
		name := opts.Output
		if name == "" {
			name = "-"
		}
		artifacts = append(artifacts, Artifact{Name: name, Data: []byte(u.Source)})
	}
	return artifacts, nil
}

// ObjectName derives the default artifact name for an input:
// shader.vert becomes shader.spv (or .glsl/.metal/.hlsl for text
// targets).
func ObjectName(path string, target engine.Target) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "<stdin>" {
		base = "a"
	}
	return base + target.Extension()
}
