// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

// Package progress implements the line-oriented progress protocol used
// by long provisioning invocations: any output line matching
// "Progress: <number>%" denotes fractional completion. [Scan] and
// [Broadcaster.Writer] consume a stream incrementally without
// buffering it, and [Broadcaster] fans the resulting events out to any
// number of front ends.
package progress
