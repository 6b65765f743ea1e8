// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

// Package lifecycle sequences the environment probes, the overlay
// storage, and the external runtime through the create, run, update,
// kill, restart, remove, and status operations of the sandboxed Steam
// environment.
//
// The [Orchestrator] is a small state machine over [State]. Every
// mutating operation runs both probes before touching the filesystem
// or spawning a process, so environment faults (no GPU, missing NVIDIA
// toolkit, no display session) surface before anything has changed on
// disk. Execution is single-threaded and synchronous: one external
// process at a time, run to completion, exit codes propagated
// unchanged. Cancellation is all-or-nothing, which is why create and
// the overlay provisioning are idempotent and safe to re-run after an
// interrupted attempt.
//
// The container root's marker directory is the sole persistent record
// of "created"; everything else (launch plans, probe results) is
// recomputed per operation. Removing the environment deletes only the
// container root: the overlay's upper layer, which holds the user's
// installed games and saves, is deliberately never deleted by any
// lifecycle operation.
package lifecycle
