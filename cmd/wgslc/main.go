// Command wgslc is a glslc-style compilation driver for naga.
//
// Usage:
//
//	wgslc [options] <input>...
//
// Examples:
//
//	wgslc shader.vert shader.frag            # Link into a.spv
//	wgslc -c shader.vert                     # Compile to shader.spv
//	wgslc -I shaders/include -c shader.frag  # With include path
//	wgslc -M shader.frag                     # Dependency listing
//	wgslc -E shader.frag                     # Preprocess only
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"

	"github.com/gogpu/wgslc/assemble"
	"github.com/gogpu/wgslc/config"
	"github.com/gogpu/wgslc/driver"
	"github.com/gogpu/wgslc/engine"
	"github.com/gogpu/wgslc/include"
	"github.com/gogpu/wgslc/nagaengine"
	"github.com/gogpu/wgslc/stage"
)

const wgslcVersion = "0.1.0-dev"

// dirList collects repeated -I flags in declaration order.
type dirList []string

func (d *dirList) String() string { return strings.Join(*d, string(os.PathListSeparator)) }

func (d *dirList) Set(value string) error {
	*d = append(*d, value)
	return nil
}

var (
	includeDirs   dirList
	output        = flag.String("o", "", "output file (default: derived from input, or a.spv when linking)")
	stageName     = flag.String("fshader-stage", "", "force the shader stage for all inputs (vertex, fragment, compute, ...)")
	compileOnly   = flag.Bool("c", false, "compile each input to its own object instead of linking")
	depsOnly      = flag.Bool("M", false, "emit a make-style dependency listing instead of compiling output")
	depTarget     = flag.String("MT", "", "target name for the -M dependency rule")
	preprocess    = flag.Bool("E", false, "preprocess only; print flattened source")
	targetName    = flag.String("target", "", "output language: spirv, glsl, msl, hlsl (default spirv)")
	failFast      = flag.Bool("failfast", false, "stop after the first failing file")
	cacheIncludes = flag.Bool("cache-includes", false, "reuse include content within a translation unit")
	validate      = flag.Bool("validate", true, "validate IR before code generation")
	debug         = flag.Bool("debug", false, "include debug info")
	verbose       = flag.Bool("v", false, "verbose logging")
	version       = flag.Bool("version", false, "print version")
)

func main() {
	flag.Var(&includeDirs, "I", "add a directory to the include search path (repeatable)")
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("wgslc version %s\n", wgslcVersion)
		return
	}

	inputs := flag.Args()
	if len(inputs) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input files specified")
		usage()
		os.Exit(1)
	}

	os.Exit(run(inputs))
}

func run(inputs []string) int {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", config.DefaultFile, err)
		return 1
	}

	runOpts, engOpts, mode, ok := buildOptions(cfg)
	if !ok {
		return 1
	}

	requests, ok := buildRequests(inputs)
	if !ok {
		return 1
	}

	level := log.WarnLevel
	if *verbose {
		level = log.InfoLevel
	}
	logger := log.Logger{Level: level, Writer: &log.ConsoleWriter{Writer: os.Stderr}}

	d := driver.New(nagaengine.New(), driver.WithLogger(logger))
	result := d.Run(context.Background(), requests, runOpts)

	if result.Failed() {
		fmt.Fprint(os.Stderr, engine.Render(result.Diagnostics()))
		return 1
	}

	artifacts, err := assemble.Assemble(result, mode, assemble.Options{
		Linker: d,
		Engine: engOpts,
		Output: assembleOutput(mode),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	for _, a := range artifacts {
		if err := writeArtifact(a); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", a.Name, err)
			return 1
		}
	}
	return 0
}

func buildOptions(cfg *config.Config) (driver.Options, engine.Options, assemble.Mode, bool) {
	engOpts := engine.DefaultOptions()
	engOpts.Debug = *debug || cfg.Debug
	engOpts.Validate = *validate

	name := *targetName
	if name == "" {
		name = cfg.Target
	}
	if name != "" {
		target, ok := engine.ParseTarget(name)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown target %q\n", name)
			return driver.Options{}, engine.Options{}, 0, false
		}
		engOpts.Target = target
	}

	mode := assemble.ModeLinked
	switch {
	case *depsOnly:
		mode = assemble.ModeDeps
	case *preprocess:
		mode = assemble.ModePreprocess
	case *compileOnly:
		mode = assemble.ModeSeparate
	case engOpts.Target != engine.TargetSPIRV:
		// Text targets have no linker; fall back to per-file output.
		mode = assemble.ModeSeparate
	}

	runOpts := driver.Options{
		IncludeDirs:     append(append([]string{}, cfg.IncludeDirs...), includeDirs...),
		FailFast:        *failFast || cfg.FailFast,
		CacheIncludes:   *cacheIncludes || cfg.CacheIncludes,
		MaxIncludeDepth: cfg.MaxIncludeDepth,
		Engine:          engOpts,
	}
	return runOpts, engOpts, mode, true
}

func buildRequests(inputs []string) ([]driver.Request, bool) {
	var override stage.Stage
	if *stageName != "" {
		var err error
		override, err = stage.Parse(*stageName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return nil, false
		}
	}

	requests := make([]driver.Request, 0, len(inputs))
	for _, input := range inputs {
		req := driver.Request{Path: input, StageOverride: override}
		if input == "-" {
			content, err := io.ReadAll(os.Stdin)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
				return nil, false
			}
			req.Path = ""
			req.Source = include.NewVirtual("<stdin>", content)
		}
		requests = append(requests, req)
	}
	return requests, true
}

// assembleOutput maps the -o / -MT flags to the assembler's output
// override for the selected mode.
func assembleOutput(mode assemble.Mode) string {
	if mode == assemble.ModeDeps && *depTarget != "" {
		return *depTarget
	}
	if mode == assemble.ModeDeps {
		return ""
	}
	return *output
}

func writeArtifact(a assemble.Artifact) error {
	if a.Name == "-" {
		_, err := os.Stdout.Write(a.Data)
		return err
	}
	return os.WriteFile(a.Name, a.Data, 0644)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: wgslc [options] <input>...\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  wgslc a.vert a.frag             Link into a.spv\n")
	fmt.Fprintf(os.Stderr, "  wgslc -c shader.vert            Compile to shader.spv\n")
	fmt.Fprintf(os.Stderr, "  wgslc -M shader.frag            Print dependency rule\n")
	fmt.Fprintf(os.Stderr, "  wgslc -fshader-stage=vertex -   Compile stdin as a vertex shader\n")
}
