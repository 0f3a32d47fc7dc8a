// go-amiibo
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-amiibo.
//
// go-amiibo is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-amiibo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-amiibo; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package config loads the optional amiitool YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration. Every field may be overridden by a
// command-line flag.
type Config struct {
	Keys      string    `yaml:"keys"`
	OutputDir string    `yaml:"output_dir"`
	Logging   LogConfig `yaml:"logging"`
}

// LogConfig controls debug output.
type LogConfig struct {
	Debug      bool   `yaml:"debug"`
	SessionDir string `yaml:"session_dir"`
}

// DefaultPaths lists the locations searched when no config path is given.
func DefaultPaths() []string {
	paths := []string{"amiitool.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "amiitool", "config.yaml"))
	}
	return paths
}

// Load reads and validates the config at path.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	cfg.resolvePaths(path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Find loads the first config that exists in paths. A missing config is not
// an error: it returns an empty Config.
func Find(paths ...string) (*Config, string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("stat config %s: %w", p, err)
		}
		cfg, err := Load(p)
		if err != nil {
			return nil, "", err
		}
		return cfg, p, nil
	}
	return &Config{}, "", nil
}

// Validate checks the referenced paths.
func (c *Config) Validate() error {
	if c.Keys != "" {
		if err := validateReadableFile(c.Keys, "config.keys"); err != nil {
			return err
		}
	}
	if c.OutputDir != "" {
		if err := validateDir(c.OutputDir, "config.output_dir"); err != nil {
			return err
		}
	}
	if c.Logging.SessionDir != "" {
		if err := validateDir(c.Logging.SessionDir, "config.logging.session_dir"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) resolvePaths(configPath string) {
	configDir := filepath.Dir(configPath)
	c.Keys = resolvePath(configDir, c.Keys)
	c.OutputDir = resolvePath(configDir, c.OutputDir)
	c.Logging.SessionDir = resolvePath(configDir, c.Logging.SessionDir)
}

func resolvePath(baseDir, path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Clean(filepath.Join(baseDir, trimmed))
}

func validateReadableFile(path, field string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s must point to a file, got directory", field)
	}
	return nil
}

func validateDir(path, field string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s must point to a directory", field)
	}
	return nil
}
