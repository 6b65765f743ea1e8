// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for the Steambox
// commands. These functions centralize the two legitimate raw I/O
// patterns that exist before or after the structured logger:
//
//   - Fatal error reporting to stderr when the logger may not be
//     initialized (pre-logger).
//   - Process exit after main() returns, preserving the sandboxed
//     session's own exit code when there is one.
//
// All other raw I/O in the commands goes through the structured
// logger or the terminal UI.
package process
