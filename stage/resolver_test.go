package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFromExtension(t *testing.T) {
	tests := []struct {
		file string
		want Stage
	}{
		{"shader.vert", StageVertex},
		{"shader.frag", StageFragment},
		{"shader.comp", StageCompute},
		{"shader.geom", StageGeometry},
		{"shader.tesc", StageTessControl},
		{"shader.tese", StageTessEvaluation},
		{"shader.rgen", StageRayGen},
		{"shader.rint", StageIntersect},
		{"shader.rahit", StageAnyHit},
		{"shader.rchit", StageClosestHit},
		{"shader.rmiss", StageMiss},
		{"shader.rcall", StageCallable},
		{"shader.task", StageTask},
		{"shader.mesh", StageMesh},
		{"dir/nested/shader.vert", StageVertex},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			a, err := Resolve(tt.file, "// no pragma here\n", StageUnknown)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Stage)
			assert.Equal(t, ByExtension, a.Provenance)
		})
	}
}

func TestResolveOverrideDominates(t *testing.T) {
	// Override beats both the extension and a conflicting pragma;
	// with an override present the pragma conflict is not an error.
	source := "#pragma shader_stage(fragment)\n#pragma shader_stage(compute)\n"
	a, err := Resolve("shader.vert", source, StageGeometry)
	require.NoError(t, err)
	assert.Equal(t, StageGeometry, a.Stage)
	assert.Equal(t, ByOverride, a.Provenance)
}

func TestResolvePragmaBeatsExtension(t *testing.T) {
	a, err := Resolve("shader.vert", "#pragma shader_stage(fragment)\n", StageUnknown)
	require.NoError(t, err)
	assert.Equal(t, StageFragment, a.Stage)
	assert.Equal(t, ByPragma, a.Provenance)
}

func TestResolvePragmaFirstOccurrenceWins(t *testing.T) {
	source := "#pragma shader_stage(vertex)\n// ...\n#pragma shader_stage(vertex)\n"
	a, err := Resolve("shader.glsl", source, StageUnknown)
	require.NoError(t, err)
	assert.Equal(t, StageVertex, a.Stage)
}

func TestResolvePragmaConflict(t *testing.T) {
	source := "#pragma shader_stage(vertex)\n#pragma shader_stage(fragment)\n"
	_, err := Resolve("shader.glsl", source, StageUnknown)

	var conflict *PragmaConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, StageVertex, conflict.First)
	assert.Equal(t, StageFragment, conflict.Second)
	assert.Equal(t, 2, conflict.Line)
}

func TestResolveAmbiguous(t *testing.T) {
	_, err := Resolve("shader.glsl", "fn main() {}\n", StageUnknown)

	var ambiguous *AmbiguousError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "shader.glsl", ambiguous.File)
}

func TestResolvePragmaSpellings(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   Stage
	}{
		{"plain", "#pragma shader_stage(compute)", StageCompute},
		{"leading space", "   #  pragma shader_stage(vertex)", StageVertex},
		{"arg space", "#pragma shader_stage( fragment )", StageFragment},
		{"alias", "#pragma shader_stage(tessevaluation)", StageTessEvaluation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Resolve("x.glsl", tt.source, StageUnknown)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Stage)
		})
	}
}

func TestResolveIgnoresUnknownPragmas(t *testing.T) {
	source := "#pragma once\n#pragma shader_stage(bogus)\n"
	_, err := Resolve("x.glsl", source, StageUnknown)

	var ambiguous *AmbiguousError
	require.ErrorAs(t, err, &ambiguous)
}
