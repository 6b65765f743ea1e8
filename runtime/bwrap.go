// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"path/filepath"
	"sort"

	"github.com/hackeros/steambox/plan"
)

// BwrapArgs renders a launch plan into bubblewrap arguments. The
// container root becomes the filesystem root; every bind in the plan
// is emitted in order, the environment is cleared and re-set from the
// plan with sorted keys, and the capability grants are added inside
// the namespace.
func BwrapArgs(root string, p *plan.LaunchPlan, command []string) []string {
	args := []string{
		"--bind", root, "/",
		"--proc", "/proc",
		"--dev", "/dev",
		"--unshare-pid",
		"--unshare-uts",
		"--die-with-parent",
	}

	for _, capability := range p.Capabilities {
		args = append(args, "--cap-add", capability)
	}

	for _, bind := range p.Binds {
		switch {
		case bind.Device:
			args = append(args, "--dev-bind", bind.Source, bind.Dest)
		case bind.Mode == plan.MountRO:
			args = append(args, "--ro-bind", bind.Source, bind.Dest)
		default:
			args = append(args, "--bind", bind.Source, bind.Dest)
		}
	}

	args = append(args, "--clearenv")
	keys := make([]string, 0, len(p.Environment))
	for key := range p.Environment {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args = append(args, "--setenv", key, p.Environment[key])
	}

	args = append(args, "--")
	args = append(args, command...)
	return args
}

// scopeName derives the transient scope unit name from the container
// root so concurrent environments under different roots get distinct
// units.
func scopeName(root string) string {
	return "steambox-" + filepath.Base(filepath.Clean(root))
}
