// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package plan

// In-environment paths. The Steam client runs as the "steam" user with
// the overlay mounted over its home directory by the session's shell
// prefix step.
const (
	// EnvironmentHome is where the overlay is mounted inside the
	// environment before the client starts.
	EnvironmentHome = "/home/steam"

	// Overlay directories exposed inside the environment at fixed
	// mount points; the in-environment mount step composes them onto
	// EnvironmentHome.
	OverlayUpperMount = "/var/lib/steambox/upper"
	OverlayWorkMount  = "/var/lib/steambox/work"
	OverlayEmptyMount = "/var/lib/steambox/empty"
)

// Host paths probed for conditional binds.
const (
	x11SocketDir  = "/tmp/.X11-unix"
	systemBinDir  = "/usr/bin"
	nvidiaICDFile = "/etc/OpenCL/vendors/nvidia.icd"
)

// Always-present device subsystem binds: render, audio, input.
var deviceDirs = []string{"/dev/dri", "/dev/snd", "/dev/input"}

// Shared Vulkan/GLVND/driver-config directories, bound read-only when
// present regardless of vendor.
var sharedGraphicsDirs = []string{
	"/usr/share/vulkan",
	"/usr/share/glvnd",
	"/etc/vulkan",
}

// Mesa DRI driver directories.
var mesaDriverDirs = []string{
	"/usr/lib64/dri",
	"/usr/lib/x86_64-linux-gnu/dri",
}

// Canonical NVIDIA device nodes, bound individually when present.
var nvidiaDeviceNodes = []string{
	"/dev/nvidia0",
	"/dev/nvidiactl",
	"/dev/nvidia-modeset",
	"/dev/nvidia-uvm",
	"/dev/nvidia-uvm-tools",
}

// Host library directories scanned for NVIDIA driver libraries.
var nvidiaLibraryDirs = []string{
	"/usr/lib64",
	"/usr/lib/x86_64-linux-gnu",
}

// NvidiaLibraryPrefixes are the shared-library name prefixes bound
// read-only from the host driver installation.
var NvidiaLibraryPrefixes = []string{
	"libnvidia-",
	"libcuda",
	"libnvrtc",
	"libGLX_nvidia",
	"libEGL_nvidia",
	"libGLESv1_CM_nvidia",
	"libGLESv2_nvidia",
}

// Device-class allowances. The three character-device classes cover
// the render, audio, and input subsystems; NVIDIA hosts additionally
// allow the frontend and UVM classes.
var (
	deviceAllowances       = []string{"char-drm", "char-sound", "char-input"}
	nvidiaDeviceAllowances = []string{"char-nvidia", "char-nvidia-uvm"}
)

// Capability grants: process-priority adjustment for gamemode and
// memory locking for the client's runtime.
var capabilityGrants = []string{"CAP_SYS_NICE", "CAP_IPC_LOCK"}

// DefaultResources are the fixed policy ceilings. They are constants
// of the policy, not derived from host state.
var DefaultResources = Resources{
	CPUQuota:  "90%",
	MemoryMax: "16G",
	TasksMax:  4096,
	IOWeight:  1000,
}
