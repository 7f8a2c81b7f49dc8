// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package nagaengine

import (
	"strings"

	"github.com/gogpu/wgslc/engine"
	"github.com/gogpu/wgslc/include"
	"github.com/gogpu/wgslc/stage"
)

// preprocessor performs textual #include expansion. naga has no
// preprocessor of its own, so the engine resolves directives here,
// calling back into the Includer for each one. shader_stage pragma
// lines are stripped, since the parsed language has no # directives.
type preprocessor struct {
	inc   engine.Includer
	diags []engine.Diagnostic
}

// expand appends the expanded text of one file to out. requester is
// the file's identity for attribution of nested requests. It returns
// false once a diagnostic has been recorded.
func (p *preprocessor) expand(requester, source string, depth int, out *strings.Builder) bool {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		name, kind, isInclude, malformed := parseIncludeLine(line)
		if malformed {
			p.diags = append(p.diags, engine.ErrorfAt(requester, i+1, 1,
				"#include expects \"FILENAME\" or <FILENAME>"))
			return false
		}
		if !isInclude {
			if stage.IsStagePragmaLine(line) {
				continue
			}
			out.WriteString(line)
			if i < len(lines)-1 {
				out.WriteByte('\n')
			}
			continue
		}

		req := include.Request{
			Requester: requester,
			Name:      name,
			Kind:      kind,
			Depth:     depth,
		}
		res, err := p.inc.Resolve(req)
		if err != nil {
			p.diags = append(p.diags, engine.ErrorfAt(requester, i+1, 1, "%v", err))
			return false
		}
		ok := p.expand(res.Identity, string(res.Content), depth+1, out)
		// The buffer is borrowed; it goes back whether or not the
		// nested expansion succeeded.
		if relErr := p.inc.Release(res.Token); relErr != nil && ok {
			p.diags = append(p.diags, engine.Errorf(requester, "%v", relErr))
			return false
		}
		if !ok {
			return false
		}
	}
	return true
}

// parseIncludeLine recognizes #include "name" and #include <name>.
// malformed is true for a #include directive whose argument has
// neither form.
func parseIncludeLine(line string) (name string, kind include.Kind, isInclude, malformed bool) {
	text := strings.TrimSpace(line)
	if !strings.HasPrefix(text, "#") {
		return
	}
	text = strings.TrimSpace(strings.TrimPrefix(text, "#"))
	if !strings.HasPrefix(text, "include") {
		return
	}
	arg := strings.TrimSpace(strings.TrimPrefix(text, "include"))
	switch {
	case len(arg) >= 2 && arg[0] == '"':
		end := strings.IndexByte(arg[1:], '"')
		if end <= 0 {
			return "", 0, true, true
		}
		return arg[1 : 1+end], include.KindQuoted, true, false
	case len(arg) >= 2 && arg[0] == '<':
		end := strings.IndexByte(arg[1:], '>')
		if end <= 0 {
			return "", 0, true, true
		}
		return arg[1 : 1+end], include.KindAngled, true, false
	default:
		return "", 0, true, true
	}
}
