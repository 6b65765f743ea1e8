// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"fmt"

	"github.com/hackeros/steambox/plan"
)

// Scope wraps a command in a systemd transient scope carrying the
// plan's resource ceilings and device-class allowances as unit
// properties. Limits apply to the whole sandboxed process tree.
type Scope struct {
	Name      string
	Resources plan.Resources
	Devices   []string
}

// NewScope builds a scope from a launch plan.
func NewScope(name string, p *plan.LaunchPlan) *Scope {
	return &Scope{
		Name:      name,
		Resources: p.Resources,
		Devices:   p.DeviceAllow,
	}
}

// Wrap prefixes a command with systemd-run and the scope properties.
func (s *Scope) Wrap(command []string) []string {
	args := []string{"systemd-run", "--user", "--scope", "--quiet"}

	if s.Name != "" {
		args = append(args, "--unit="+s.Name)
	}

	if s.Resources.CPUQuota != "" {
		args = append(args, "--property=CPUQuota="+s.Resources.CPUQuota)
	}
	if s.Resources.MemoryMax != "" {
		args = append(args, "--property=MemoryMax="+s.Resources.MemoryMax)
	}
	if s.Resources.TasksMax > 0 {
		args = append(args, fmt.Sprintf("--property=TasksMax=%d", s.Resources.TasksMax))
	}
	if s.Resources.IOWeight > 0 {
		args = append(args, fmt.Sprintf("--property=IOWeight=%d", s.Resources.IOWeight))
	}

	for _, device := range s.Devices {
		args = append(args, fmt.Sprintf("--property=DeviceAllow=%s rwm", device))
	}

	args = append(args, "--")
	args = append(args, command...)
	return args
}
