// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hackeros/steambox/plan"
)

// Config is the master configuration for Steambox.
type Config struct {
	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Provisioning configures how the base system is installed.
	Provisioning ProvisioningConfig `yaml:"provisioning"`

	// Resources configures the session's resource limits.
	Resources ResourcesConfig `yaml:"resources"`

	// Session is the default session launched by run when no session
	// is named on the command line.
	Session string `yaml:"session"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the container root directory.
	// Default: ${XDG_DATA_HOME:-$HOME/.local/share}/steambox/root
	Root string `yaml:"root"`

	// Overlay is the base directory for the persistent overlay
	// layers. Default: sibling of Root.
	Overlay string `yaml:"overlay"`
}

// ProvisioningConfig configures base-system installation.
type ProvisioningConfig struct {
	// ReleaseVer is the distribution release installed into the root.
	ReleaseVer string `yaml:"releasever"`

	// Packages replaces the default package set when non-empty.
	Packages []string `yaml:"packages"`

	// ExtraPackages is installed in addition to the package set.
	ExtraPackages []string `yaml:"extra_packages"`
}

// ResourcesConfig configures session resource limits. Empty fields
// keep the built-in defaults.
type ResourcesConfig struct {
	// CPUQuota is a percentage string, e.g. "90%".
	CPUQuota string `yaml:"cpu_quota"`

	// MemoryMax is a size string, e.g. "16G".
	MemoryMax string `yaml:"memory_max"`

	// TasksMax caps the session's process count.
	TasksMax int `yaml:"tasks_max"`

	// IOWeight is the relative block-IO weight (1-10000).
	IOWeight int `yaml:"io_weight"`
}

// Default returns the default configuration. These defaults are a
// complete working configuration; a config file is optional and only
// overrides what it names.
func Default() *Config {
	return &Config{
		Provisioning: ProvisioningConfig{
			ReleaseVer: "41",
		},
		Resources: ResourcesConfig{
			CPUQuota:  plan.DefaultResources.CPUQuota,
			MemoryMax: plan.DefaultResources.MemoryMax,
			TasksMax:  plan.DefaultResources.TasksMax,
			IOWeight:  plan.DefaultResources.IOWeight,
		},
	}
}

// Load loads configuration from the STEAMBOX_CONFIG environment
// variable. If the variable is unset the defaults are returned; if it
// names a file that cannot be read, that is an error rather than a
// silent fallback.
func Load() (*Config, error) {
	path := os.Getenv("STEAMBOX_CONFIG")
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging
// over the defaults. The only expansion performed is ${HOME} and
// similar path variables for portability; environment variables never
// override config values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// path fields.
func (c *Config) expandVariables() {
	c.Paths.Root = expandVars(c.Paths.Root)
	c.Paths.Overlay = expandVars(c.Paths.Overlay)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.Root != "" && !filepath.IsAbs(c.Paths.Root) {
		errs = append(errs, fmt.Errorf("paths.root must be absolute: %s", c.Paths.Root))
	}
	if c.Paths.Overlay != "" && !filepath.IsAbs(c.Paths.Overlay) {
		errs = append(errs, fmt.Errorf("paths.overlay must be absolute: %s", c.Paths.Overlay))
	}

	if q := c.Resources.CPUQuota; q != "" && !strings.HasSuffix(q, "%") {
		errs = append(errs, fmt.Errorf("resources.cpu_quota must be a percentage: %s", q))
	}
	if c.Resources.TasksMax < 0 {
		errs = append(errs, fmt.Errorf("resources.tasks_max must not be negative"))
	}
	if w := c.Resources.IOWeight; w < 0 || w > 10000 {
		errs = append(errs, fmt.Errorf("resources.io_weight must be in 1-10000: %d", w))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ResourceLimits returns the effective session resource limits, with
// empty fields filled from the built-in defaults.
func (c *Config) ResourceLimits() plan.Resources {
	limits := plan.DefaultResources
	if c.Resources.CPUQuota != "" {
		limits.CPUQuota = c.Resources.CPUQuota
	}
	if c.Resources.MemoryMax != "" {
		limits.MemoryMax = c.Resources.MemoryMax
	}
	if c.Resources.TasksMax > 0 {
		limits.TasksMax = c.Resources.TasksMax
	}
	if c.Resources.IOWeight > 0 {
		limits.IOWeight = c.Resources.IOWeight
	}
	return limits
}
