// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

// String returns the lowercase severity name used in rendered
// diagnostics.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Location is a 1-based source position.
type Location struct {
	Line   int
	Column int
}

// Diagnostic is one engine or resolution message attributed to a
// file.
type Diagnostic struct {
	File     string
	Severity Severity
	Message  string

	// Loc is nil when the position is unknown.
	Loc *Location
}

// String renders the diagnostic as
// file:line:column: severity: message, dropping the position when
// unknown.
func (d Diagnostic) String() string {
	if d.Loc != nil {
		return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Loc.Line, d.Loc.Column, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.File, d.Severity, d.Message)
}

// Errorf builds an error diagnostic without location information.
func Errorf(file, format string, args ...any) Diagnostic {
	return Diagnostic{File: file, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// ErrorfAt builds an error diagnostic at a known line and column.
func ErrorfAt(file string, line, col int, format string, args ...any) Diagnostic {
	return Diagnostic{
		File:     file,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Loc:      &Location{Line: line, Column: col},
	}
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Render formats diagnostics one per line.
func Render(diags []Diagnostic) string {
	var b strings.Builder
	for _, d := range diags {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}
