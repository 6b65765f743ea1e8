// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hackeros/steambox/lib/hostenv"
)

// Environment errors. All three are fatal, detected before any mutating
// action, and never retried.
var (
	// ErrNoGPU means the host exposes no DRM render device nodes.
	ErrNoGPU = errors.New("no GPU render devices found under /dev/dri")

	// ErrNvidiaMissing means an NVIDIA device node is present but the
	// container toolkit is not discoverable on the execution path.
	ErrNvidiaMissing = errors.New("NVIDIA device detected but nvidia-container-toolkit is not installed")

	// ErrNoDisplay means neither a Wayland nor an X11 session was found.
	ErrNoDisplay = errors.New("no graphical session found (X11/Wayland)")
)

// Vendor identifies the GPU driver family.
type Vendor string

const (
	VendorNone   Vendor = "none"
	VendorMesa   Vendor = "mesa"
	VendorNvidia Vendor = "nvidia"
)

// GPUProfile describes the host GPU as seen by the launch policy.
// Recomputed on every create/run; never cached across invocations.
type GPUProfile struct {
	Vendor Vendor

	// ToolkitPresent is true when the NVIDIA container toolkit was
	// found on the execution path. Always false for Mesa.
	ToolkitPresent bool
}

// nvidiaToolkit is the binary that must be discoverable on PATH before
// an NVIDIA host is usable.
const nvidiaToolkit = "nvidia-container-toolkit"

// DetectGPU probes the host's DRM device nodes and reports the driver
// family. Hosts without a render node fail with [ErrNoGPU]; hosts with
// an NVIDIA device node but no container toolkit fail with
// [ErrNvidiaMissing]. No side effects.
func DetectGPU(host *hostenv.Host) (GPUProfile, error) {
	entries, err := os.ReadDir(host.Path("/dev/dri"))
	if err != nil {
		if os.IsNotExist(err) {
			return GPUProfile{Vendor: VendorNone}, ErrNoGPU
		}
		return GPUProfile{Vendor: VendorNone}, fmt.Errorf("cannot read DRM device directory: %w", err)
	}

	render := false
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "renderD") {
			render = true
			break
		}
	}
	if !render {
		return GPUProfile{Vendor: VendorNone}, ErrNoGPU
	}

	if _, err := os.Stat(host.Path("/dev/nvidia0")); err == nil {
		if _, err := host.LookPath(nvidiaToolkit); err != nil {
			return GPUProfile{Vendor: VendorNvidia}, ErrNvidiaMissing
		}
		return GPUProfile{Vendor: VendorNvidia, ToolkitPresent: true}, nil
	}

	return GPUProfile{Vendor: VendorMesa}, nil
}

// DisplayKind identifies the display-server protocol.
type DisplayKind string

const (
	DisplayNone    DisplayKind = "none"
	DisplayX11     DisplayKind = "x11"
	DisplayWayland DisplayKind = "wayland"
)

// DisplayProfile describes the host display session. Value carries the
// raw socket name (WAYLAND_DISPLAY or DISPLAY) for injection into the
// environment.
type DisplayProfile struct {
	Kind  DisplayKind
	Value string
}

// DetectDisplay inspects the session environment. Wayland takes
// priority over X11 when both signals are present. A None result is
// not an error here; lifecycle operations that launch an interactive
// session reject it with [ErrNoDisplay].
func DetectDisplay(host *hostenv.Host) DisplayProfile {
	if wayland := host.Getenv("WAYLAND_DISPLAY"); wayland != "" {
		return DisplayProfile{Kind: DisplayWayland, Value: wayland}
	}
	if x11 := host.Getenv("DISPLAY"); x11 != "" {
		return DisplayProfile{Kind: DisplayX11, Value: x11}
	}
	return DisplayProfile{Kind: DisplayNone}
}
