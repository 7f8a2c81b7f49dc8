// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package include

import (
	"fmt"
	"os"
	"path/filepath"
)

// SourceFile is the immutable identity and content of a loaded
// source. Identity is a canonicalized absolute path for real files or
// a synthetic name (for example "<stdin>") for virtual sources.
type SourceFile struct {
	identity string
	content  []byte
	virtual  bool
}

// Identity returns the file's canonical identity.
func (f *SourceFile) Identity() string { return f.identity }

// Content returns the file's content. Callers must not mutate it.
func (f *SourceFile) Content() []byte { return f.content }

// Text returns the file's content as a string.
func (f *SourceFile) Text() string { return string(f.content) }

// Virtual reports whether the source did not come from the
// filesystem.
func (f *SourceFile) Virtual() bool { return f.virtual }

// Dir returns the directory quoted includes from this file resolve
// against first. Virtual sources resolve against the working
// directory.
func (f *SourceFile) Dir() string {
	if f.virtual {
		return "."
	}
	return filepath.Dir(f.identity)
}

// Load reads a file from disk and canonicalizes its identity.
func Load(path string) (*SourceFile, error) {
	identity, err := Canonicalize(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	content, err := os.ReadFile(identity)
	if err != nil {
		return nil, err
	}
	return &SourceFile{identity: identity, content: content}, nil
}

// NewVirtual wraps in-memory content, such as standard input, in a
// SourceFile with a synthetic identity.
func NewVirtual(name string, content []byte) *SourceFile {
	return &SourceFile{identity: name, content: content, virtual: true}
}

// Canonicalize converts a path to the identity used for cycle
// detection and dependency de-duplication. Two relative spellings of
// the same file canonicalize to the same identity.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
