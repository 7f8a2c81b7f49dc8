package nagaengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/wgslc/engine"
	"github.com/gogpu/wgslc/include"
	"github.com/gogpu/wgslc/stage"
)

const vertexSource = `
@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

const fragmentSource = `
@fragment
fn fs_main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
    return color;
}
`

// minimal shaders do not pass full IR validation, mirroring the naga
// test suite
var testOptions = engine.Options{Target: engine.TargetSPIRV, Validate: false}

func spirvMagic(t *testing.T, binary []byte) uint32 {
	t.Helper()
	require.GreaterOrEqual(t, len(binary), 4, "SPIR-V output too short")
	return uint32(binary[0]) | uint32(binary[1])<<8 | uint32(binary[2])<<16 | uint32(binary[3])<<24
}

func newUnit(t *testing.T, dir, name, source string) (*include.SourceFile, *include.Includer) {
	t.Helper()
	src := loadRoot(t, dir, name, source)
	return src, include.New(src, nil)
}

func TestCompileVertexShader(t *testing.T) {
	dir := t.TempDir()
	src, inc := newUnit(t, dir, "shader.vert", vertexSource)

	eng := New()
	res := eng.Compile(src.Identity(), src.Text(), stage.StageVertex, inc, testOptions)

	require.True(t, res.Success, "diags: %v", res.Diagnostics)
	assert.Equal(t, uint32(0x07230203), spirvMagic(t, res.Binary))
}

func TestCompileWithInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "common.wgsl", `
fn origin() -> vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`)
	src, inc := newUnit(t, dir, "shader.vert", `
#include "common.wgsl"
@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return origin();
}
`)

	eng := New()
	res := eng.Compile(src.Identity(), src.Text(), stage.StageVertex, inc, testOptions)

	require.True(t, res.Success, "diags: %v", res.Diagnostics)
	assert.Contains(t, res.Source, "fn origin()")
	assert.Equal(t, 2, inc.Deps().Len())
	assert.Equal(t, 0, inc.Outstanding())
}

func TestCompileStageMismatch(t *testing.T) {
	dir := t.TempDir()
	// Fragment entry point in a file compiled as a vertex shader.
	src, inc := newUnit(t, dir, "shader.vert", fragmentSource)

	eng := New()
	res := eng.Compile(src.Identity(), src.Text(), stage.StageVertex, inc, testOptions)

	require.False(t, res.Success)
	require.NotEmpty(t, res.Diagnostics)
	assert.Contains(t, res.Diagnostics[0].Message, "no vertex entry point")
}

func TestCompileUnsupportedStage(t *testing.T) {
	dir := t.TempDir()
	src, inc := newUnit(t, dir, "shader.rgen", vertexSource)

	eng := New()
	res := eng.Compile(src.Identity(), src.Text(), stage.StageRayGen, inc, testOptions)

	require.False(t, res.Success)
	assert.Contains(t, res.Diagnostics[0].Message, "not supported")
}

func TestCompileParseErrorBecomesDiagnostic(t *testing.T) {
	dir := t.TempDir()
	src, inc := newUnit(t, dir, "shader.vert", "@vertex fn ( {{{\n")

	eng := New()
	res := eng.Compile(src.Identity(), src.Text(), stage.StageVertex, inc, testOptions)

	require.False(t, res.Success)
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, src.Identity(), res.Diagnostics[0].File)
}

func TestCompileMissingIncludeFails(t *testing.T) {
	dir := t.TempDir()
	src, inc := newUnit(t, dir, "shader.vert", "#include \"nope.wgsl\"\n"+vertexSource)

	eng := New()
	res := eng.Compile(src.Identity(), src.Text(), stage.StageVertex, inc, testOptions)

	require.False(t, res.Success)
	assert.Contains(t, res.Diagnostics[0].Message, "nope.wgsl")
}

func TestLinkVertexAndFragment(t *testing.T) {
	eng := New()
	units := []engine.LinkUnit{
		{Name: "a.vert", Stage: stage.StageVertex, Source: vertexSource},
		{Name: "a.frag", Stage: stage.StageFragment, Source: fragmentSource},
	}

	binary, err := eng.Link(units, testOptions)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x07230203), spirvMagic(t, binary))
}

func TestLinkDuplicateStage(t *testing.T) {
	eng := New()
	units := []engine.LinkUnit{
		{Name: "a.vert", Stage: stage.StageVertex, Source: vertexSource},
		{Name: "b.vert", Stage: stage.StageVertex, Source: vertexSource},
	}

	_, err := eng.Link(units, testOptions)

	var linkErr *engine.LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, []string{"a.vert", "b.vert"}, linkErr.Files)
}

func TestLinkEntryPointNameCollision(t *testing.T) {
	vs := `
@vertex
fn main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`
	fs := `
@fragment
fn main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
    return color;
}
`
	eng := New()
	units := []engine.LinkUnit{
		{Name: "a.vert", Stage: stage.StageVertex, Source: vs},
		{Name: "a.frag", Stage: stage.StageFragment, Source: fs},
	}

	_, err := eng.Link(units, testOptions)

	var linkErr *engine.LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Contains(t, linkErr.Reason, "main")
}

func TestLinkRequiresSPIRV(t *testing.T) {
	eng := New()
	units := []engine.LinkUnit{{Name: "a.vert", Stage: stage.StageVertex, Source: vertexSource}}

	_, err := eng.Link(units, engine.Options{Target: engine.TargetGLSL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spirv")
}

func TestLinkNothing(t *testing.T) {
	eng := New()
	_, err := eng.Link(nil, testOptions)
	assert.Error(t, err)
}

func TestCompileGLSLTarget(t *testing.T) {
	dir := t.TempDir()
	src, inc := newUnit(t, dir, "shader.frag", fragmentSource)

	eng := New()
	res := eng.Compile(src.Identity(), src.Text(), stage.StageFragment, inc,
		engine.Options{Target: engine.TargetGLSL, Validate: false})

	require.True(t, res.Success, "diags: %v", res.Diagnostics)
	assert.Contains(t, string(res.Binary), "#version")
}

func TestCompileMSLTarget(t *testing.T) {
	dir := t.TempDir()
	src, inc := newUnit(t, dir, "shader.frag", fragmentSource)

	eng := New()
	res := eng.Compile(src.Identity(), src.Text(), stage.StageFragment, inc,
		engine.Options{Target: engine.TargetMSL, Validate: false})

	require.True(t, res.Success, "diags: %v", res.Diagnostics)
	assert.Contains(t, string(res.Binary), "metal")
}
