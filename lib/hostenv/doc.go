// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

// Package hostenv collects every ambient host signal the orchestrator
// depends on (home and data directories, display variables, user
// identity, PATH lookups, device-node probe locations) into one
// explicit [Host] value that is passed to the probe, overlay, and plan
// packages. Nothing below the command layer reads os.Getenv or probes
// /dev directly, which keeps the core testable without a real process
// environment.
package hostenv
