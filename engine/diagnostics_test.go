package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		name string
		diag Diagnostic
		want string
	}{
		{
			name: "with location",
			diag: ErrorfAt("shader.vert", 3, 7, "unexpected token"),
			want: "shader.vert:3:7: error: unexpected token",
		},
		{
			name: "without location",
			diag: Errorf("shader.vert", "no entry point"),
			want: "shader.vert: error: no entry point",
		},
		{
			name: "warning",
			diag: Diagnostic{File: "a.frag", Severity: SeverityWarning, Message: "unused binding"},
			want: "a.frag: warning: unused binding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.diag.String())
		})
	}
}

func TestHasErrors(t *testing.T) {
	warn := Diagnostic{File: "a", Severity: SeverityWarning, Message: "w"}
	assert.False(t, HasErrors([]Diagnostic{warn}))
	assert.False(t, HasErrors(nil))
	assert.True(t, HasErrors([]Diagnostic{warn, Errorf("a", "e")}))
}

func TestRender(t *testing.T) {
	diags := []Diagnostic{
		ErrorfAt("a.vert", 1, 1, "first"),
		Errorf("b.frag", "second"),
	}
	assert.Equal(t, "a.vert:1:1: error: first\nb.frag: error: second\n", Render(diags))
}
