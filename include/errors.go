// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package include

import (
	"fmt"
	"strings"
)

// NotFoundError reports an include request that no search-path
// candidate satisfied.
type NotFoundError struct {
	// Requester is the identity of the including file.
	Requester string

	// Name is the unresolved include string as written.
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: cannot open include file %q: no such file in search path", e.Requester, e.Name)
}

// CycleError reports an include whose resolved identity is already on
// the inclusion stack. Chain holds the full cycle, from the first
// occurrence of the repeated identity down to its recurrence.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "cyclic include: " + strings.Join(e.Chain, " -> ")
}

// DepthError reports that the inclusion stack exceeded the maximum
// depth cap. Exact cycle detection makes this unreachable for true
// cycles; it guards against unbounded non-cyclic nesting.
type DepthError struct {
	Requester string
	Name      string
	Depth     int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%s: including %q exceeds maximum include depth %d", e.Requester, e.Name, e.Depth)
}

// IOError reports a read failure on a file that resolution had
// already located, for example a permission error or a race with
// deletion. It is distinct from NotFoundError, which is a
// resolution-time failure.
type IOError struct {
	Identity string
	Err      error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: read failed: %v", e.Identity, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ReleaseError reports a protocol violation in the release of include
// buffers: releases must mirror resolutions in LIFO order.
type ReleaseError struct {
	Token ReleaseToken
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("release token %d does not match the innermost pending include", e.Token)
}
