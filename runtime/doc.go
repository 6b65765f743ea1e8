// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

// Package runtime executes invocations against the isolated
// environment. The orchestrator computes a [plan.LaunchPlan] and hands
// it here as an [Invocation]; [Local] renders it into a bubblewrap
// command line ([BwrapArgs]) wrapped in a systemd transient scope
// ([Scope]) that carries the resource ceilings and device-class
// allowances, and runs it to completion with inherited streams.
// Provisioning invocations (package installation into the container
// root) carry no plan and run as plain host processes.
//
// The exit status is the only signal observed from any invocation;
// non-zero exits surface as [ExitError] so front ends can propagate
// the code unchanged.
package runtime
