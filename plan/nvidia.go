// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// MatchLibraries filters a directory listing down to the names that
// start with one of the given prefixes and returns them sorted. It is
// a pure function so tests can supply synthetic listings; sorting
// makes plan construction reproducible for identical host state.
func MatchLibraries(entries []string, prefixes []string) []string {
	var matched []string
	for _, name := range entries {
		for _, prefix := range prefixes {
			if strings.HasPrefix(name, prefix) {
				matched = append(matched, name)
				break
			}
		}
	}
	sort.Strings(matched)
	return matched
}

// listDir returns the file names in a directory. A missing directory
// yields an empty listing; any other failure is a filesystem error
// that aborts plan construction.
func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot scan %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// listExecutables returns the executable file names in a directory,
// with the same missing-directory semantics as listDir.
func listExecutables(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot scan %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Mode()&0o111 == 0 {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}
