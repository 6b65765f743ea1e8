// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

import (
	"fmt"

	"github.com/hackeros/steambox/plan"
)

// Session names accepted by Run. An empty session selects the default
// interactive client.
const (
	SessionDefault  = ""
	SessionGamepad  = "deck"
	SessionTerminal = "terminal"
)

// gamepadAliases are the accepted spellings of the big-picture session.
var gamepadAliases = map[string]bool{
	SessionGamepad:            true,
	"gamescope-session-steam": true,
}

// sessionCommand maps a session name to the in-environment command
// line. Every session starts with a shell step that composes the
// overlay onto the client's home path before the client runs, so user
// data always lands in the persistent upper layer.
func sessionCommand(session string) []string {
	mount := fmt.Sprintf("mount -t overlay overlay -o lowerdir=%s,upperdir=%s,workdir=%s %s",
		plan.OverlayEmptyMount, plan.OverlayUpperMount, plan.OverlayWorkMount, plan.EnvironmentHome)

	var client string
	switch {
	case gamepadAliases[session]:
		client = "gamescope -e -- steam -gamepadui"
	case session == SessionTerminal:
		client = "exec bash -l"
	default:
		client = "steam -silent || steam"
	}

	return []string{"/bin/sh", "-c", mount + " && " + client}
}
