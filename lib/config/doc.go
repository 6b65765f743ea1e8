// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for Steambox.
//
// Configuration is loaded from a single file named by either the
// STEAMBOX_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There is no ~/.config discovery and no
// automatic file search; with nothing named, the built-in defaults
// apply. Environment variables never override values inside a config
// file. The only expansion performed is ${HOME}-style variable
// substitution in path fields, for portability.
//
// Key exports:
//
//   - [Config] -- master struct with Paths, Provisioning, Resources
//   - [Default] -- a complete working default configuration
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends only on the plan package for the built-in
// resource limits.
package config
