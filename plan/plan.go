// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package plan

// MountSpec describes one bind mount in the launch plan.
type MountSpec struct {
	// Source is the host path.
	Source string

	// Dest is the in-environment path.
	Dest string

	// Mode is MountRO or MountRW.
	Mode string

	// Device marks a device-node bind (bwrap --dev-bind).
	Device bool
}

// Mount modes.
const (
	MountRO = "ro"
	MountRW = "rw"
)

// Resources holds the fixed resource ceilings applied to the
// environment's process tree via the runtime's cgroup properties.
type Resources struct {
	// CPUQuota is a systemd CPUQuota value, e.g. "90%".
	CPUQuota string

	// MemoryMax is a systemd memory ceiling, e.g. "16G".
	MemoryMax string

	// TasksMax bounds the task count.
	TasksMax int

	// IOWeight is the cgroup v2 io.weight value (1-10000).
	IOWeight int
}

// LaunchPlan is the full policy handed to the external runtime: an
// ordered bind list, a unique-keyed environment, device-class
// allowances, capability grants, and resource ceilings. It is purely
// derived state, rebuilt fresh on every run and never persisted.
type LaunchPlan struct {
	Binds        []MountSpec
	Environment  map[string]string
	DeviceAllow  []string
	Capabilities []string
	Resources    Resources
}

// bind appends a read-only or read-write bind mount.
func (p *LaunchPlan) bind(source, dest, mode string) {
	p.Binds = append(p.Binds, MountSpec{Source: source, Dest: dest, Mode: mode})
}

// devBind appends a device-node bind.
func (p *LaunchPlan) devBind(source, dest string) {
	p.Binds = append(p.Binds, MountSpec{Source: source, Dest: dest, Mode: MountRW, Device: true})
}

// setenv records an environment variable. Keys are unique; later
// writes win, matching map semantics.
func (p *LaunchPlan) setenv(key, value string) {
	p.Environment[key] = value
}
