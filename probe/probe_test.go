// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hackeros/steambox/lib/hostenv"
)

// fakeHost builds a Host rooted in a temp directory with a stubbed
// environment and PATH lookup.
func fakeHost(t *testing.T, env map[string]string, toolkit bool) *hostenv.Host {
	t.Helper()
	return &hostenv.Host{
		Getenv: func(key string) string { return env[key] },
		LookPath: func(name string) (string, error) {
			if toolkit {
				return "/usr/bin/" + name, nil
			}
			return "", errors.New("not found")
		},
		Root: t.TempDir(),
		UID:  1000,
	}
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	mkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDetectGPUNoDevices(t *testing.T) {
	host := fakeHost(t, nil, false)

	_, err := DetectGPU(host)
	if !errors.Is(err, ErrNoGPU) {
		t.Fatalf("expected ErrNoGPU, got %v", err)
	}
}

func TestDetectGPUNoRenderNodes(t *testing.T) {
	host := fakeHost(t, nil, false)
	// Card node but no render node: still no usable GPU.
	touch(t, filepath.Join(host.Root, "dev/dri/card0"))

	_, err := DetectGPU(host)
	if !errors.Is(err, ErrNoGPU) {
		t.Fatalf("expected ErrNoGPU, got %v", err)
	}
}

func TestDetectGPUMesa(t *testing.T) {
	host := fakeHost(t, nil, false)
	touch(t, filepath.Join(host.Root, "dev/dri/renderD128"))

	gpu, err := DetectGPU(host)
	if err != nil {
		t.Fatalf("DetectGPU failed: %v", err)
	}
	if gpu.Vendor != VendorMesa {
		t.Errorf("vendor = %q, want %q", gpu.Vendor, VendorMesa)
	}
	if gpu.ToolkitPresent {
		t.Error("ToolkitPresent should be false for Mesa")
	}
}

func TestDetectGPUNvidiaMissingToolkit(t *testing.T) {
	host := fakeHost(t, nil, false)
	touch(t, filepath.Join(host.Root, "dev/dri/renderD128"))
	touch(t, filepath.Join(host.Root, "dev/nvidia0"))

	_, err := DetectGPU(host)
	if !errors.Is(err, ErrNvidiaMissing) {
		t.Fatalf("expected ErrNvidiaMissing, got %v", err)
	}
}

func TestDetectGPUNvidia(t *testing.T) {
	host := fakeHost(t, nil, true)
	touch(t, filepath.Join(host.Root, "dev/dri/renderD128"))
	touch(t, filepath.Join(host.Root, "dev/nvidia0"))

	gpu, err := DetectGPU(host)
	if err != nil {
		t.Fatalf("DetectGPU failed: %v", err)
	}
	if gpu.Vendor != VendorNvidia {
		t.Errorf("vendor = %q, want %q", gpu.Vendor, VendorNvidia)
	}
	if !gpu.ToolkitPresent {
		t.Error("ToolkitPresent should be true")
	}
}

func TestDetectDisplay(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		kind  DisplayKind
		value string
	}{
		{"none", nil, DisplayNone, ""},
		{"x11", map[string]string{"DISPLAY": ":0"}, DisplayX11, ":0"},
		{"wayland", map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, DisplayWayland, "wayland-0"},
		{
			// Wayland wins when both signals are set.
			"both",
			map[string]string{"DISPLAY": ":0", "WAYLAND_DISPLAY": "wayland-1"},
			DisplayWayland, "wayland-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			display := DetectDisplay(fakeHost(t, tt.env, false))
			if display.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", display.Kind, tt.kind)
			}
			if display.Value != tt.value {
				t.Errorf("value = %q, want %q", display.Value, tt.value)
			}
		})
	}
}
