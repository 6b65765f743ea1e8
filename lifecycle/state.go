// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

// State is the lifecycle position of the managed environment. It is
// owned exclusively by the orchestrator; Running exists only for the
// duration of a synchronous Run call.
type State int

const (
	StateUninitialized State = iota
	StateCreated
	StateRunning
	StateStopped
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}
