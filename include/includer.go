// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package include

import (
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxDepth is the secondary cap on include nesting. Cycle
// detection is exact, so the cap only bounds non-cyclic nesting.
const DefaultMaxDepth = 100

// Kind distinguishes the two include request forms.
type Kind uint8

const (
	// KindQuoted is #include "name": the requesting file's directory
	// is searched before the configured search dirs.
	KindQuoted Kind = iota

	// KindAngled is #include <name>: only the configured search dirs
	// are searched.
	KindAngled
)

// Request describes one include resolution. It exists only for the
// duration of a Resolve call.
type Request struct {
	// Requester is the identity of the file containing the directive.
	Requester string

	// Name is the include string as written in the source.
	Name string

	// Kind selects quoted or angled search order.
	Kind Kind

	// Depth is the engine's own nesting depth, informational; the
	// Includer enforces depth from its stack.
	Depth int
}

// ReleaseToken identifies a resolved buffer that must be returned to
// the Includer when the engine is done with it.
type ReleaseToken uint64

// Result is a successful resolution. The Includer retains ownership
// of Content until Release is called with Token; the engine only
// borrows the bytes.
type Result struct {
	Identity string
	Content  []byte
	Token    ReleaseToken
}

type frame struct {
	identity string
	token    ReleaseToken
}

// Includer resolves include requests for one translation unit. It is
// not safe for concurrent use; the engine invoking it is serialized,
// so resolutions within a unit are inherently sequential.
type Includer struct {
	searchDirs []string
	stack      []frame
	nextToken  ReleaseToken
	deps       *DependencyRecord
	maxDepth   int
	cache      *lru.Cache[string, []byte]
}

// Option configures an Includer.
type Option func(*Includer)

// WithMaxDepth overrides the secondary depth cap.
func WithMaxDepth(n int) Option {
	return func(inc *Includer) { inc.maxDepth = n }
}

// WithContentCache enables an LRU content cache of the given size.
// Without it, re-inclusion of the same file via separate non-cyclic
// paths re-reads content from disk each time.
func WithContentCache(size int) Option {
	return func(inc *Includer) {
		cache, err := lru.New[string, []byte](size)
		if err == nil {
			inc.cache = cache
		}
	}
}

// New creates an Includer scoped to one root file. The inclusion
// stack starts with the root's identity and the dependency record is
// seeded with it.
func New(root *SourceFile, searchDirs []string, opts ...Option) *Includer {
	inc := &Includer{
		searchDirs: searchDirs,
		stack:      []frame{{identity: root.Identity()}},
		deps:       NewDependencyRecord(root.Identity()),
		maxDepth:   DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(inc)
	}
	return inc
}

// Resolve satisfies one include request.
//
// Candidates are tried in total order: for quoted requests the
// requesting file's directory first, then each search dir in
// declaration order; for angled requests the search dirs only. The
// first existing candidate wins. A read failure on an existing
// candidate is an IOError; the search does not continue past it.
//
// On success the resolved identity is pushed onto the inclusion
// stack and appended to the dependency record. The caller must
// Release the returned token once the included file (and everything
// it transitively included) has been consumed.
func (inc *Includer) Resolve(req Request) (*Result, error) {
	if len(inc.stack) > inc.maxDepth {
		return nil, &DepthError{Requester: req.Requester, Name: req.Name, Depth: inc.maxDepth}
	}

	identity, found := inc.locate(req)
	if !found {
		return nil, &NotFoundError{Requester: req.Requester, Name: req.Name}
	}

	if chain := inc.cycle(identity); chain != nil {
		return nil, &CycleError{Chain: chain}
	}

	content, err := inc.read(identity)
	if err != nil {
		return nil, err
	}

	inc.nextToken++
	token := inc.nextToken
	inc.stack = append(inc.stack, frame{identity: identity, token: token})
	inc.deps.Add(identity)

	return &Result{Identity: identity, Content: content, Token: token}, nil
}

// Release returns ownership of a resolved buffer and pops its frame.
// Releases must mirror resolutions in LIFO order.
func (inc *Includer) Release(token ReleaseToken) error {
	top := len(inc.stack) - 1
	if top < 1 || inc.stack[top].token != token {
		return &ReleaseError{Token: token}
	}
	inc.stack = inc.stack[:top]
	return nil
}

// Outstanding returns the number of resolved buffers not yet
// released. The driver checks this is zero after the engine returns.
func (inc *Includer) Outstanding() int {
	return len(inc.stack) - 1
}

// Deps returns the dependency record accumulated so far.
func (inc *Includer) Deps() *DependencyRecord { return inc.deps }

// locate walks the candidate directories and returns the canonical
// identity of the first existing candidate.
func (inc *Includer) locate(req Request) (string, bool) {
	var dirs []string
	if req.Kind == KindQuoted {
		dirs = append(dirs, filepath.Dir(req.Requester))
	}
	dirs = append(dirs, inc.searchDirs...)

	for _, dir := range dirs {
		identity, err := Canonicalize(filepath.Join(dir, req.Name))
		if err != nil {
			continue
		}
		info, err := os.Stat(identity)
		if err != nil {
			// Any stat failure is a resolution-time miss; read
			// failures after successful resolution become IOErrors
			// in read.
			continue
		}
		if info.IsDir() {
			continue
		}
		return identity, true
	}
	return "", false
}

// cycle returns the inclusion chain ending in identity when identity
// is already on the stack, or nil.
func (inc *Includer) cycle(identity string) []string {
	for i, fr := range inc.stack {
		if fr.identity == identity {
			chain := make([]string, 0, len(inc.stack)-i+1)
			for _, f := range inc.stack[i:] {
				chain = append(chain, f.identity)
			}
			return append(chain, identity)
		}
	}
	return nil
}

func (inc *Includer) read(identity string) ([]byte, error) {
	if inc.cache != nil {
		if content, ok := inc.cache.Get(identity); ok {
			return content, nil
		}
	}
	content, err := os.ReadFile(identity)
	if err != nil {
		return nil, &IOError{Identity: identity, Err: err}
	}
	if inc.cache != nil {
		inc.cache.Add(identity, content)
	}
	return content, nil
}
