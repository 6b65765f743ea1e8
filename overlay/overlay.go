// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package overlay

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hackeros/steambox/lib/hostenv"
)

// Paths holds the four directories backing the environment's writable
// storage. Upper receives persistent writes, Work is kernel scratch
// space, and Empty is the read-only lower layer. Upper contents are
// never deleted by any lifecycle operation.
type Paths struct {
	Base  string
	Upper string
	Work  string
	Empty string
}

// dirName is the overlay directory under the per-user data location.
const dirName = "overlay"

// Resolve computes the overlay directories from the per-user data-home
// convention and idempotently ensures all four exist. Calling it on an
// already-provisioned host is a no-op.
func Resolve(host *hostenv.Host) (Paths, error) {
	dataHome, err := host.DataHome()
	if err != nil {
		return Paths{}, err
	}

	return ResolveAt(filepath.Join(dataHome, "steambox", dirName))
}

// ResolveAt is Resolve with an explicit base directory, for
// configurations that relocate the overlay storage.
func ResolveAt(base string) (Paths, error) {
	paths := Paths{
		Base:  base,
		Upper: filepath.Join(base, "upper"),
		Work:  filepath.Join(base, "work"),
		Empty: filepath.Join(base, "empty"),
	}

	for _, dir := range []string{paths.Base, paths.Upper, paths.Work, paths.Empty} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Paths{}, fmt.Errorf("cannot create overlay directory %s: %w", dir, err)
		}
	}

	return paths, nil
}

// Ensure distinguishes first-time provisioning from steady-state reuse.
// If Upper is missing, or exists but holds nothing yet, Upper and Work
// are (re)created together. Once the user has written anything into
// Upper the call is a pure no-op, so data survives restart/run cycles.
func (p Paths) Ensure() error {
	entries, err := os.ReadDir(p.Upper)
	if err == nil && len(entries) > 0 {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot inspect overlay upper layer %s: %w", p.Upper, err)
	}

	for _, dir := range []string{p.Upper, p.Work} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create overlay directory %s: %w", dir, err)
		}
	}
	return nil
}

// Provisioned reports whether the upper layer already holds user data.
func (p Paths) Provisioned() bool {
	entries, err := os.ReadDir(p.Upper)
	return err == nil && len(entries) > 0
}
