// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package hostenv

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Host captures everything the orchestrator reads from the invoking
// process's environment. Production code uses System(); tests construct
// a Host pointing at synthetic directories and environment maps so no
// package ever queries the real process environment directly.
type Host struct {
	// Getenv looks up an environment variable. Required.
	Getenv func(string) string

	// LookPath resolves an executable on the search path. Required.
	LookPath func(string) (string, error)

	// Root is prepended to absolute host paths before probing
	// (/dev, /usr, /etc). "/" on a real system; a temp directory
	// in tests.
	Root string

	// UID identifies the invoking user; it anchors the runtime
	// directory fallback.
	UID int
}

// System returns a Host backed by the real process environment.
func System() *Host {
	return &Host{
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
		Root:     "/",
		UID:      os.Getuid(),
	}
}

// Path maps an absolute host path through the probe root.
func (h *Host) Path(p string) string {
	if h.Root == "" || h.Root == "/" {
		return filepath.Clean(p)
	}
	return filepath.Join(h.Root, p)
}

// HomeDir returns the invoking user's home directory.
func (h *Host) HomeDir() (string, error) {
	if home := h.Getenv("HOME"); home != "" {
		return home, nil
	}
	return "", fmt.Errorf("HOME is not set")
}

// DataHome returns the per-user data directory, honoring the
// XDG_DATA_HOME override and falling back to ~/.local/share.
func (h *Host) DataHome() (string, error) {
	if dir := h.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := h.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}

// RuntimeDir returns the invoking user's runtime directory. The
// XDG_RUNTIME_DIR value wins; otherwise the conventional /run/user/<uid>
// path is used.
func (h *Host) RuntimeDir() string {
	if dir := h.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return fmt.Sprintf("/run/user/%d", h.UID)
}
