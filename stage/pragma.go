// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package stage

import (
	"bufio"
	"strings"
)

const pragmaPrefix = "shader_stage("

// PragmaConflictError reports two shader_stage pragmas in one file
// naming different stages. The first pragma wins only when all later
// pragmas agree with it.
type PragmaConflictError struct {
	File   string
	First  Stage
	Second Stage
	Line   int // 1-based line of the conflicting pragma
}

func (e *PragmaConflictError) Error() string {
	return e.File + ": conflicting shader_stage pragmas: " +
		e.First.String() + " then " + e.Second.String()
}

// scanPragma scans source text for #pragma shader_stage(...) and
// returns the stage of the first directive found. Later directives
// naming a different stage are a conflict. Directives with an
// unrecognized stage name are ignored, matching the usual compiler
// treatment of unknown pragmas.
func scanPragma(file, source string) (Stage, error) {
	found := StageUnknown
	line := 0

	sc := bufio.NewScanner(strings.NewReader(source))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(text, "#") {
			continue
		}
		text = strings.TrimSpace(strings.TrimPrefix(text, "#"))
		if !strings.HasPrefix(text, "pragma") {
			continue
		}
		text = strings.TrimSpace(strings.TrimPrefix(text, "pragma"))
		if !strings.HasPrefix(text, pragmaPrefix) {
			continue
		}
		arg := strings.TrimPrefix(text, pragmaPrefix)
		end := strings.IndexByte(arg, ')')
		if end < 0 {
			continue
		}
		s, err := Parse(strings.TrimSpace(arg[:end]))
		if err != nil {
			continue
		}
		if found == StageUnknown {
			found = s
			continue
		}
		if s != found {
			return StageUnknown, &PragmaConflictError{
				File:   file,
				First:  found,
				Second: s,
				Line:   line,
			}
		}
	}
	return found, nil
}

// IsStagePragmaLine reports whether a single source line is a
// shader_stage pragma. Engines that do not understand the directive
// strip such lines before parsing.
func IsStagePragmaLine(line string) bool {
	text := strings.TrimSpace(line)
	if !strings.HasPrefix(text, "#") {
		return false
	}
	text = strings.TrimSpace(strings.TrimPrefix(text, "#"))
	if !strings.HasPrefix(text, "pragma") {
		return false
	}
	text = strings.TrimSpace(strings.TrimPrefix(text, "pragma"))
	return strings.HasPrefix(text, pragmaPrefix)
}
