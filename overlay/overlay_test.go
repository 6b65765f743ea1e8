// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package overlay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hackeros/steambox/lib/hostenv"
)

func testHost(t *testing.T) *hostenv.Host {
	t.Helper()
	data := t.TempDir()
	return &hostenv.Host{
		Getenv: func(key string) string {
			if key == "XDG_DATA_HOME" {
				return data
			}
			return ""
		},
		LookPath: func(string) (string, error) { return "", os.ErrNotExist },
		Root:     "/",
		UID:      1000,
	}
}

func TestResolveCreatesDirectories(t *testing.T) {
	paths, err := Resolve(testHost(t))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	for _, dir := range []string{paths.Base, paths.Upper, paths.Work, paths.Empty} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("missing directory %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestResolveIdempotent(t *testing.T) {
	host := testHost(t)

	first, err := Resolve(host)
	if err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}
	second, err := Resolve(host)
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if first != second {
		t.Errorf("Resolve not stable: %+v != %+v", first, second)
	}
}

func TestEnsurePreservesUpperContents(t *testing.T) {
	paths, err := Resolve(testHost(t))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	marker := filepath.Join(paths.Upper, "steamapps")
	if err := os.MkdirAll(marker, 0o755); err != nil {
		t.Fatal(err)
	}
	save := filepath.Join(marker, "save.dat")
	if err := os.WriteFile(save, []byte("progress"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Two consecutive calls with no intervening change must be no-ops.
	for i := 0; i < 2; i++ {
		if err := paths.Ensure(); err != nil {
			t.Fatalf("Ensure call %d failed: %v", i+1, err)
		}
	}

	data, err := os.ReadFile(save)
	if err != nil {
		t.Fatalf("upper contents lost: %v", err)
	}
	if string(data) != "progress" {
		t.Errorf("upper file changed: %q", data)
	}
}

func TestEnsureRecreatesMissingUpper(t *testing.T) {
	paths, err := Resolve(testHost(t))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if err := os.RemoveAll(paths.Upper); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(paths.Work); err != nil {
		t.Fatal(err)
	}

	if err := paths.Ensure(); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	for _, dir := range []string{paths.Upper, paths.Work} {
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("missing directory after Ensure: %s", dir)
		}
	}
}

func TestProvisioned(t *testing.T) {
	paths, err := Resolve(testHost(t))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if paths.Provisioned() {
		t.Error("fresh overlay should not report provisioned")
	}
	if err := os.WriteFile(filepath.Join(paths.Upper, ".steam"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if !paths.Provisioned() {
		t.Error("overlay with upper contents should report provisioned")
	}
}
