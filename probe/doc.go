// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

// Package probe detects the host GPU vendor and display server for the
// sandboxed Steam environment. It is a leaf package: both probes read
// only through an injected [hostenv.Host] and have no side effects.
// Results are recomputed on every lifecycle operation because host
// state (an unplugged display, a changed session) can drift between
// invocations.
package probe
