package include

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDependencyRecordOrderAndDedup(t *testing.T) {
	r := NewDependencyRecord("/src/shader.frag")

	assert.True(t, r.Add("/src/foo.glsl"))
	assert.True(t, r.Add("/src/bar.glsl"))
	assert.False(t, r.Add("/src/foo.glsl"), "repeat inclusion must not duplicate")
	assert.False(t, r.Add("/src/shader.frag"), "root must not duplicate")

	assert.Equal(t, []string{"/src/shader.frag", "/src/foo.glsl", "/src/bar.glsl"}, r.Identities())
	assert.Equal(t, "/src/shader.frag", r.Root())
	assert.Equal(t, 3, r.Len())
}
