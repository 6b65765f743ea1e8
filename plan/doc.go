// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

// Package plan computes the launch policy for the sandboxed Steam
// environment: an ordered bind-mount list, environment variables,
// device-class allowances, capability grants, and resource ceilings.
//
// [Build] is a pure function from the probed GPU and display profiles,
// the overlay paths, and the captured host environment to a
// [LaunchPlan].
// Vendor-conditional policy is the interesting part: Mesa hosts get
// their DRI driver directories, NVIDIA hosts get the canonical device
// nodes plus a deterministic prefix scan of the host driver libraries
// ([MatchLibraries], sorted so identical host state always yields an
// identical plan). The fixed allowance, capability, and resource
// constants live in policy.go; nothing in the plan is computed from
// load or other dynamic host state.
//
// The plan is input to the external runtime, never persisted, and
// rebuilt fresh on every run.
package plan
