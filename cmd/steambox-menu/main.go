// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

// steambox-menu is an interactive front end for the steambox command.
// It presents the lifecycle operations as a menu and renders a
// progress bar for the long-running ones.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hackeros/steambox/lib/process"
)

func main() {
	bin, err := findBinary()
	if err != nil {
		process.Fatal(err)
	}

	program := tea.NewProgram(newModel(bin), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		process.Fatal(fmt.Errorf("menu failed: %w", err))
	}
}

// findBinary locates the steambox command: next to this executable
// first, then on PATH.
func findBinary() (string, error) {
	if self, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(self), "steambox")
		if _, err := os.Stat(sibling); err == nil {
			return sibling, nil
		}
	}
	path, err := exec.LookPath("steambox")
	if err != nil {
		return "", fmt.Errorf("steambox binary not found next to steambox-menu or on PATH")
	}
	return path, nil
}
