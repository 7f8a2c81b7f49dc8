// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package config loads optional project-level defaults from a
// wgslc.toml file. Command-line flags override anything set here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is the project config file name looked up in the
// working directory.
const DefaultFile = "wgslc.toml"

// Config carries project-wide compilation defaults.
type Config struct {
	// IncludeDirs is prepended to the search path, in order.
	IncludeDirs []string `toml:"include_dirs"`

	// Target is the default output language ("spirv", "glsl", "msl",
	// "hlsl").
	Target string `toml:"target"`

	// FailFast aborts a run on the first failing file.
	FailFast bool `toml:"fail_fast"`

	// CacheIncludes reuses include content within one translation
	// unit instead of re-reading it.
	CacheIncludes bool `toml:"cache_includes"`

	// MaxIncludeDepth caps include nesting. Zero keeps the built-in
	// default.
	MaxIncludeDepth int `toml:"max_include_depth"`

	// Debug includes debug info in generated modules.
	Debug bool `toml:"debug"`
}

// Load reads and parses a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault loads DefaultFile from the working directory. A missing
// file is not an error and yields a zero config.
func LoadDefault() (*Config, error) {
	cfg, err := Load(DefaultFile)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}
