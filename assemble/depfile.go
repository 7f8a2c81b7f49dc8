// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package assemble

import "strings"

// depLineWidth is the column at which dependency rules wrap. Purely
// cosmetic; the logical content is the ordered identity list.
const depLineWidth = 80

// RenderRule renders one make-style dependency rule:
//
//	target: dep1 dep2 ... depN
//
// Long rules continue with a trailing backslash. The returned string
// ends with a newline.
func RenderRule(target string, deps []string) string {
	var b strings.Builder
	b.WriteString(target)
	b.WriteByte(':')
	col := len(target) + 1

	for _, dep := range deps {
		// +1 for the separating space; +2 leaves room for " \".
		if col+1+len(dep)+2 > depLineWidth && col > len(target)+1 {
			b.WriteString(" \\\n")
			b.WriteByte(' ')
			col = 1
		}
		b.WriteByte(' ')
		b.WriteString(dep)
		col += 1 + len(dep)
	}
	b.WriteByte('\n')
	return b.String()
}
