// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package include resolves #include-style requests against the
// filesystem on behalf of a compiler engine.
//
// Every translation unit gets its own Includer. The Includer owns an
// explicit inclusion stack: each successful resolution pushes the
// resolved identity, and the engine releases the returned buffer when
// it is done with the included file, which pops the stack. Cycle
// detection is therefore an exact membership check on the stack, not
// a depth heuristic, although a secondary depth cap guards against
// pathological search-path configurations.
//
// Quoted includes ("name") search the requesting file's directory and
// then the configured search dirs; angled includes (<name>) search
// only the configured dirs. Search order is total, so resolution is
// deterministic.
//
// Each Includer also accumulates a DependencyRecord: the ordered,
// de-duplicated list of file identities actually read, root first,
// suitable for make-style dependency output.
package include
