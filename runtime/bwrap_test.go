// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/hackeros/steambox/plan"
)

func testPlan() *plan.LaunchPlan {
	return &plan.LaunchPlan{
		Binds: []plan.MountSpec{
			{Source: "/tmp/.X11-unix", Dest: "/tmp/.X11-unix", Mode: plan.MountRO},
			{Source: "/run/user/1000", Dest: "/run/user/1000", Mode: plan.MountRW},
			{Source: "/dev/dri", Dest: "/dev/dri", Mode: plan.MountRW, Device: true},
		},
		Environment: map[string]string{
			"STEAMOS": "1",
			"DISPLAY": ":0",
			"LANG":    "en_US.UTF-8",
		},
		DeviceAllow:  []string{"char-drm", "char-sound", "char-input"},
		Capabilities: []string{"CAP_SYS_NICE", "CAP_IPC_LOCK"},
		Resources:    plan.DefaultResources,
	}
}

func TestBwrapArgs(t *testing.T) {
	args := BwrapArgs("/data/root", testPlan(), []string{"/bin/sh", "-c", "steam"})
	argStr := strings.Join(args, " ")

	for _, want := range []string{
		"--bind /data/root /",
		"--proc /proc",
		"--dev /dev",
		"--unshare-pid",
		"--die-with-parent",
		"--cap-add CAP_SYS_NICE",
		"--cap-add CAP_IPC_LOCK",
		"--ro-bind /tmp/.X11-unix /tmp/.X11-unix",
		"--bind /run/user/1000 /run/user/1000",
		"--dev-bind /dev/dri /dev/dri",
		"--clearenv",
		"-- /bin/sh -c steam",
	} {
		if !strings.Contains(argStr, want) {
			t.Errorf("missing %q in:\n%s", want, argStr)
		}
	}

	// Environment keys are emitted sorted for reproducible argvs.
	display := strings.Index(argStr, "--setenv DISPLAY :0")
	lang := strings.Index(argStr, "--setenv LANG en_US.UTF-8")
	steamos := strings.Index(argStr, "--setenv STEAMOS 1")
	if display == -1 || lang == -1 || steamos == -1 {
		t.Fatalf("missing setenv arguments in:\n%s", argStr)
	}
	if !(display < lang && lang < steamos) {
		t.Error("environment variables not sorted by key")
	}
}

func TestScopeWrap(t *testing.T) {
	scope := NewScope("steambox-root", testPlan())
	args := scope.Wrap([]string{"/usr/bin/bwrap", "--", "steam"})
	argStr := strings.Join(args, " ")

	for _, want := range []string{
		"systemd-run --user --scope --quiet",
		"--unit=steambox-root",
		"--property=CPUQuota=90%",
		"--property=MemoryMax=16G",
		"--property=TasksMax=4096",
		"--property=IOWeight=1000",
		"--property=DeviceAllow=char-drm rwm",
		"--property=DeviceAllow=char-sound rwm",
		"--property=DeviceAllow=char-input rwm",
		"-- /usr/bin/bwrap -- steam",
	} {
		if !strings.Contains(argStr, want) {
			t.Errorf("missing %q in:\n%s", want, argStr)
		}
	}
}

func TestScopeName(t *testing.T) {
	if got := scopeName("/home/user/.local/share/steambox/root"); got != "steambox-root" {
		t.Errorf("scopeName = %q", got)
	}
	if got := scopeName("/data/env/"); got != "steambox-env" {
		t.Errorf("scopeName = %q", got)
	}
}

func TestLocalDryRun(t *testing.T) {
	local := NewLocal(nil)
	local.lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }

	// Provisioning invocations run as given.
	argv, err := local.DryRun(Invocation{Root: "/data/root", Command: []string{"dnf", "upgrade", "-y"}})
	if err != nil {
		t.Fatalf("DryRun failed: %v", err)
	}
	if strings.Join(argv, " ") != "dnf upgrade -y" {
		t.Errorf("provisioning argv = %v", argv)
	}

	// Sandboxed invocations get a scope around bwrap.
	argv, err = local.DryRun(Invocation{Root: "/data/root", Plan: testPlan(), Command: []string{"steam"}})
	if err != nil {
		t.Fatalf("DryRun failed: %v", err)
	}
	if argv[0] != "systemd-run" {
		t.Errorf("argv[0] = %q, want systemd-run", argv[0])
	}
	if !strings.Contains(strings.Join(argv, " "), "/usr/bin/bwrap") {
		t.Errorf("argv missing bwrap: %v", argv)
	}

	// Without systemd-run the scope is dropped but bwrap remains.
	local.lookPath = func(name string) (string, error) {
		if name == "bwrap" {
			return "/usr/bin/bwrap", nil
		}
		return "", os.ErrNotExist
	}
	argv, err = local.DryRun(Invocation{Root: "/data/root", Plan: testPlan(), Command: []string{"steam"}})
	if err != nil {
		t.Fatalf("DryRun failed: %v", err)
	}
	if argv[0] != "/usr/bin/bwrap" {
		t.Errorf("argv[0] = %q, want /usr/bin/bwrap", argv[0])
	}
}

func TestIsExitError(t *testing.T) {
	if code, ok := IsExitError(&ExitError{Code: 42}); !ok || code != 42 {
		t.Errorf("IsExitError = %d, %v", code, ok)
	}
	wrapped := fmt.Errorf("base-system provisioning failed: %w", &ExitError{Code: 3})
	if code, ok := IsExitError(wrapped); !ok || code != 3 {
		t.Errorf("IsExitError(wrapped) = %d, %v; want 3, true", code, ok)
	}
	if _, ok := IsExitError(nil); ok {
		t.Error("nil should not be an ExitError")
	}
	if _, ok := IsExitError(errors.New("plain failure")); ok {
		t.Error("plain error should not be an ExitError")
	}
}
