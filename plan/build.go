// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"os"
	"path/filepath"

	"github.com/hackeros/steambox/lib/hostenv"
	"github.com/hackeros/steambox/overlay"
	"github.com/hackeros/steambox/probe"
)

// Build derives the launch plan from the probed GPU and display
// profiles, the overlay paths, and the invoking user's environment.
// It is a pure computation over the injected host: the only way it can
// fail is a filesystem error during one of the NVIDIA directory scans.
func Build(gpu probe.GPUProfile, display probe.DisplayProfile, paths overlay.Paths, host *hostenv.Host) (*LaunchPlan, error) {
	p := &LaunchPlan{
		Environment:  make(map[string]string),
		DeviceAllow:  append([]string(nil), deviceAllowances...),
		Capabilities: append([]string(nil), capabilityGrants...),
		Resources:    DefaultResources,
	}

	runtimeDir := host.RuntimeDir()

	// Always-present binds: windowing socket, runtime directory, the
	// overlay directories at their fixed mount points, and the render,
	// audio, and input device subsystems.
	p.bind(x11SocketDir, x11SocketDir, MountRO)
	p.bind(runtimeDir, runtimeDir, MountRW)
	p.bind(paths.Upper, OverlayUpperMount, MountRW)
	p.bind(paths.Work, OverlayWorkMount, MountRW)
	p.bind(paths.Empty, OverlayEmptyMount, MountRO)
	for _, dev := range deviceDirs {
		p.devBind(dev, dev)
	}

	// Shared Vulkan/GLVND/driver-config directories, vendor-independent.
	for _, dir := range sharedGraphicsDirs {
		if hostDirExists(host, dir) {
			p.bind(dir, dir, MountRO)
		}
	}

	switch gpu.Vendor {
	case probe.VendorMesa:
		for _, dir := range mesaDriverDirs {
			if hostDirExists(host, dir) {
				p.bind(dir, dir, MountRO)
			}
		}

	case probe.VendorNvidia:
		if err := p.addNvidia(host); err != nil {
			return nil, err
		}
	}

	// Session environment. Exactly one of the display variables is
	// ever set, matching the probed display kind.
	p.setenv("PULSE_SERVER", "unix:"+runtimeDir+"/pulse/native")
	p.setenv("STEAMOS", "1")
	p.setenv("STEAM_RUNTIME", "0")
	p.setenv("XDG_RUNTIME_DIR", runtimeDir)
	p.setenv("DBUS_SESSION_BUS_ADDRESS", "unix:path="+runtimeDir+"/bus")
	p.setenv("LANG", "en_US.UTF-8")

	switch display.Kind {
	case probe.DisplayWayland:
		p.setenv("WAYLAND_DISPLAY", display.Value)
	case probe.DisplayX11:
		p.setenv("DISPLAY", display.Value)
	}

	if gpu.Vendor == probe.VendorNvidia {
		p.setenv("NVIDIA_VISIBLE_DEVICES", "all")
		p.setenv("NVIDIA_DRIVER_CAPABILITIES", "all")
		p.setenv("__GLX_VENDOR_LIBRARY_NAME", "nvidia")
		p.DeviceAllow = append(p.DeviceAllow, nvidiaDeviceAllowances...)
	}

	return p, nil
}

// addNvidia appends the vendor-specific binds: the canonical device
// nodes that exist, the driver libraries matched by prefix in the two
// canonical library directories, the nvidia-* tools from the system
// binary directory, and the OpenCL vendor ICD.
func (p *LaunchPlan) addNvidia(host *hostenv.Host) error {
	for _, dev := range nvidiaDeviceNodes {
		if _, err := os.Stat(host.Path(dev)); err == nil {
			p.devBind(dev, dev)
		}
	}

	for _, dir := range nvidiaLibraryDirs {
		names, err := listDir(host.Path(dir))
		if err != nil {
			return err
		}
		for _, name := range MatchLibraries(names, NvidiaLibraryPrefixes) {
			path := filepath.Join(dir, name)
			p.bind(path, path, MountRO)
		}
	}

	names, err := listExecutables(host.Path(systemBinDir))
	if err != nil {
		return err
	}
	for _, name := range MatchLibraries(names, []string{"nvidia-"}) {
		path := filepath.Join(systemBinDir, name)
		p.bind(path, path, MountRO)
	}

	if _, err := os.Stat(host.Path(nvidiaICDFile)); err == nil {
		p.bind(nvidiaICDFile, nvidiaICDFile, MountRO)
	}

	return nil
}

func hostDirExists(host *hostenv.Host, dir string) bool {
	info, err := os.Stat(host.Path(dir))
	return err == nil && info.IsDir()
}
