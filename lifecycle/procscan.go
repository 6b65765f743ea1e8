// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// matchProcesses scans the process table for entries whose command
// line references the given path. procRoot is /proc in production and
// a synthetic tree in tests. Unreadable entries are skipped; processes
// come and go while we scan.
func matchProcesses(procRoot, path string) []int {
	entries, err := os.ReadDir(procRoot)
	if err != nil {
		return nil
	}

	self := os.Getpid()
	var pids []int
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		if pid == self {
			continue
		}
		data, err := os.ReadFile(filepath.Join(procRoot, entry.Name(), "cmdline"))
		if err != nil {
			continue
		}
		cmdline := strings.ReplaceAll(string(data), "\x00", " ")
		if strings.Contains(cmdline, path) {
			pids = append(pids, pid)
		}
	}
	return pids
}
