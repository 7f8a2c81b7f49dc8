// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package stage determines the pipeline stage of a shader source file.
//
// A stage can come from three places, in decreasing precedence:
//   - an explicit per-file override supplied by the caller
//   - a #pragma shader_stage(...) directive inside the source
//   - the file's extension (.vert, .frag, .comp, ...)
//
// Resolution is a pure function of the file's name, its content, and
// the override. A file whose stage cannot be determined is a hard
// error, never a silent default.
package stage

import "fmt"

// Stage identifies the pipeline role a compiled shader module fills.
type Stage uint8

const (
	// StageUnknown means no stage has been assigned.
	StageUnknown Stage = iota

	StageVertex
	StageFragment
	StageCompute
	StageGeometry
	StageTessControl
	StageTessEvaluation

	// Ray tracing pipeline stages.
	StageRayGen
	StageIntersect
	StageAnyHit
	StageClosestHit
	StageMiss
	StageCallable

	// Mesh pipeline stages.
	StageTask
	StageMesh
)

// String returns the canonical lowercase stage name, as accepted by
// #pragma shader_stage(...) and the -fshader-stage flag.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	case StageGeometry:
		return "geometry"
	case StageTessControl:
		return "tesscontrol"
	case StageTessEvaluation:
		return "tesseval"
	case StageRayGen:
		return "raygen"
	case StageIntersect:
		return "intersect"
	case StageAnyHit:
		return "anyhit"
	case StageClosestHit:
		return "closesthit"
	case StageMiss:
		return "miss"
	case StageCallable:
		return "callable"
	case StageTask:
		return "task"
	case StageMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// stageNames maps every accepted spelling to its stage. The glslc
// spellings (tesscontrol, tesseval) are canonical; a few common
// aliases are accepted on input.
var stageNames = map[string]Stage{
	"vertex":          StageVertex,
	"fragment":        StageFragment,
	"compute":         StageCompute,
	"geometry":        StageGeometry,
	"tesscontrol":     StageTessControl,
	"tesseval":        StageTessEvaluation,
	"tessevaluation":  StageTessEvaluation,
	"raygen":          StageRayGen,
	"intersect":       StageIntersect,
	"anyhit":          StageAnyHit,
	"closesthit":      StageClosestHit,
	"miss":            StageMiss,
	"callable":        StageCallable,
	"task":            StageTask,
	"mesh":            StageMesh,
}

// Parse converts a stage name to a Stage.
func Parse(name string) (Stage, error) {
	if s, ok := stageNames[name]; ok {
		return s, nil
	}
	return StageUnknown, fmt.Errorf("unknown shader stage %q", name)
}

// extensions is the canonical extension-to-stage mapping. Extensions
// are matched against the final dot-suffix of the file name.
var extensions = map[string]Stage{
	".vert":  StageVertex,
	".frag":  StageFragment,
	".comp":  StageCompute,
	".geom":  StageGeometry,
	".tesc":  StageTessControl,
	".tese":  StageTessEvaluation,
	".rgen":  StageRayGen,
	".rint":  StageIntersect,
	".rahit": StageAnyHit,
	".rchit": StageClosestHit,
	".rmiss": StageMiss,
	".rcall": StageCallable,
	".task":  StageTask,
	".mesh":  StageMesh,
}

// FromExtension maps a file name's extension to a stage. The second
// return value reports whether the extension is recognized.
func FromExtension(name string) (Stage, bool) {
	ext := ""
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			ext = name[i:]
			break
		}
		if name[i] == '/' || name[i] == '\\' {
			break
		}
	}
	s, ok := extensions[ext]
	return s, ok
}
