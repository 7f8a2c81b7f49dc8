// Package driver orchestrates multi-file shader compilation: stage
// resolution, include-scoped engine invocation, and diagnostic
// collection.
//
// The engine carries no reentrancy guarantee, so every engine call in
// a run is serialized behind one mutex. Root-file reads are
// independent of the engine and are prefetched concurrently to hide
// I/O latency; each root file gets its own Includer, so prefetching
// never touches another file's inclusion stack.
package driver

import (
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/wgslc/engine"
	"github.com/gogpu/wgslc/include"
	"github.com/gogpu/wgslc/stage"
)

// Request asks for one file to be compiled.
type Request struct {
	// Path names the input file. Ignored when Source is set.
	Path string

	// Source supplies pre-loaded content for virtual inputs such as
	// standard input. Nil for filesystem inputs.
	Source *include.SourceFile

	// StageOverride forces the pipeline stage. StageUnknown means no
	// override.
	StageOverride stage.Stage
}

// identity returns the request's display identity.
func (r Request) identity() string {
	if r.Source != nil {
		return r.Source.Identity()
	}
	return r.Path
}

// Options configures one run.
type Options struct {
	// IncludeDirs is the ordered search path for include resolution.
	// Quoted and angled includes draw from the same list.
	IncludeDirs []string

	// FailFast aborts the run after the first failing file; files
	// after it are not attempted.
	FailFast bool

	// CacheIncludes enables per-unit LRU caching of include content.
	// Off by default: re-inclusion re-reads from disk.
	CacheIncludes bool

	// MaxIncludeDepth overrides the secondary include depth cap.
	// Zero keeps the default.
	MaxIncludeDepth int

	// Engine is passed through to every engine invocation.
	Engine engine.Options
}

// Driver runs compilations against one engine.
type Driver struct {
	engine engine.Engine
	logger log.Logger

	// mu serializes every engine invocation; the engine makes no
	// reentrancy promise.
	mu sync.Mutex
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger replaces the driver's logger.
func WithLogger(logger log.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

// New creates a Driver bound to an engine for its lifetime.
func New(eng engine.Engine, opts ...Option) *Driver {
	d := &Driver{
		engine: eng,
		logger: log.Logger{
			Level:  log.WarnLevel,
			Writer: &log.IOWriter{Writer: os.Stderr},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run compiles the requested files in order and collects one
// CompiledUnit or one set of Diagnostics per attempted input.
//
// ctx is consulted between files only; a dispatched engine call runs
// to completion.
func (d *Driver) Run(ctx context.Context, requests []Request, opts Options) *RunResult {
	runID := uuid.NewString()
	d.logger.Info().Str("run", runID).Int("files", len(requests)).Msg("compilation run started")

	sources, loadErrs := d.prefetch(requests)

	result := &RunResult{}
	for i, req := range requests {
		if ctx.Err() != nil {
			d.logger.Warn().Str("run", runID).Err(ctx.Err()).Msg("run canceled between files")
			break
		}

		fr := d.compileOne(req, sources[i], loadErrs[i], opts)
		result.Files = append(result.Files, fr)

		if fr.Failed() {
			d.logger.Warn().Str("run", runID).Str("file", fr.Path).Msg("compilation failed")
			if opts.FailFast {
				break
			}
			continue
		}
		d.logger.Info().
			Str("run", runID).
			Str("file", fr.Path).
			Str("stage", fr.Stage.String()).
			Int("bytes", len(fr.Unit.Binary)).
			Msg("compiled")
	}
	return result
}

// Link combines compiled units through the engine, under the same
// serialization as compiles.
func (d *Driver) Link(units []engine.LinkUnit, opts engine.Options) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.Link(units, opts)
}

// prefetch loads all filesystem root files concurrently. Engine calls
// stay serialized; only the reads overlap.
func (d *Driver) prefetch(requests []Request) ([]*include.SourceFile, []error) {
	sources := make([]*include.SourceFile, len(requests))
	loadErrs := make([]error, len(requests))

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, req := range requests {
		if req.Source != nil {
			sources[i] = req.Source
			continue
		}
		g.Go(func() error {
			sources[i], loadErrs[i] = include.Load(req.Path)
			return nil
		})
	}
	// Load errors are reported per file, never as a group failure.
	_ = g.Wait()
	return sources, loadErrs
}

// compileOne takes one input through stage resolution and the engine.
func (d *Driver) compileOne(req Request, src *include.SourceFile, loadErr error, opts Options) FileResult {
	identity := req.identity()
	if loadErr != nil {
		return FileResult{
			Path:        identity,
			Diagnostics: []engine.Diagnostic{engine.Errorf(identity, "cannot read input: %v", loadErr)},
		}
	}

	assignment, err := stage.Resolve(identity, src.Text(), req.StageOverride)
	if err != nil {
		// No engine invocation for a file without a stage.
		return FileResult{
			Path:        identity,
			Diagnostics: []engine.Diagnostic{engine.Errorf(identity, "%v", err)},
		}
	}

	incOpts := []include.Option{}
	if opts.CacheIncludes {
		incOpts = append(incOpts, include.WithContentCache(64))
	}
	if opts.MaxIncludeDepth > 0 {
		incOpts = append(incOpts, include.WithMaxDepth(opts.MaxIncludeDepth))
	}
	inc := include.New(src, opts.IncludeDirs, incOpts...)

	// The Includer lives exactly as long as the engine call: every
	// buffer handed out must be back before the result is used.
	d.mu.Lock()
	res := d.engine.Compile(identity, src.Text(), assignment.Stage, inc, opts.Engine)
	d.mu.Unlock()

	if n := inc.Outstanding(); n > 0 {
		d.logger.Warn().Str("file", identity).Int("unreleased", n).Msg("engine leaked include buffers")
	}

	fr := FileResult{
		Path:  identity,
		Stage: assignment.Stage,
		Deps:  inc.Deps(),
	}
	if !res.Success {
		diags := res.Diagnostics
		if len(diags) == 0 {
			diags = []engine.Diagnostic{engine.Errorf(identity, "engine reported failure without diagnostics")}
		}
		fr.Diagnostics = diags
		return fr
	}
	fr.Unit = &CompiledUnit{
		Path:   identity,
		Stage:  assignment.Stage,
		Binary: res.Binary,
		Source: res.Source,
	}
	return fr
}
