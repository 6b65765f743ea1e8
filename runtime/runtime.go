// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"syscall"

	"github.com/hackeros/steambox/plan"
)

// Invocation is one opaque request against the external runtime: a
// container root, an optional launch policy, and a command line. The
// only observed signal is the exit status; output goes to the
// inherited streams and, when Output is set, to that writer as well.
type Invocation struct {
	// Root is the container root filesystem path.
	Root string

	// Plan is the launch policy. Nil for provisioning invocations
	// that run directly against the root from the host side.
	Plan *plan.LaunchPlan

	// Command is the command line to run.
	Command []string

	// Interactive inherits stdin and runs the command as a foreground
	// session.
	Interactive bool

	// Output additionally receives a copy of standard output, used
	// for progress observation of long invocations.
	Output io.Writer
}

// ExitError reports a non-zero exit from an external invocation. The
// code is propagated to the caller unchanged.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("external process exited with code %d", e.Code)
}

// IsExitError checks if an error carries an external exit code,
// unwrapping as needed.
func IsExitError(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// Local executes invocations on this host: sandboxed sessions through
// bubblewrap wrapped in a systemd transient scope, provisioning steps
// as plain host processes.
type Local struct {
	logger *slog.Logger

	// lookPath is swappable for tests.
	lookPath func(string) (string, error)
}

// NewLocal creates a local runtime.
func NewLocal(logger *slog.Logger) *Local {
	if logger == nil {
		logger = slog.Default()
	}
	return &Local{logger: logger, lookPath: exec.LookPath}
}

// Execute runs one invocation to completion and returns its exit code.
// A non-zero exit is reported as both the code and an [ExitError]; any
// other failure means the process could not be run at all.
func (l *Local) Execute(ctx context.Context, inv Invocation) (int, error) {
	argv, err := l.argv(inv)
	if err != nil {
		return 0, err
	}

	l.logger.Info("executing invocation",
		"root", inv.Root,
		"sandboxed", inv.Plan != nil,
		"command", inv.Command,
	)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	// Explicit minimal environment for the wrapper process itself.
	// The sandboxed environment is injected via --setenv; inheriting
	// the caller's full environment would leak it through
	// /proc/<pid>/environ.
	cmd.Env = []string{
		"PATH=/usr/local/bin:/usr/bin:/bin",
		"TERM=" + os.Getenv("TERM"),
	}

	cmd.Stdout = io.Writer(os.Stdout)
	cmd.Stderr = os.Stderr
	if inv.Output != nil {
		cmd.Stdout = io.MultiWriter(os.Stdout, inv.Output)
	}
	if inv.Interactive {
		cmd.Stdin = os.Stdin
	}

	// Own process group for clean teardown.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			return code, &ExitError{Code: code}
		}
		return 0, fmt.Errorf("cannot run %s: %w", argv[0], err)
	}
	return 0, nil
}

// DryRun renders the full command line an invocation would execute,
// without running anything.
func (l *Local) DryRun(inv Invocation) ([]string, error) {
	return l.argv(inv)
}

// argv assembles the full command line for an invocation. Sandboxed
// invocations become a systemd-run scope wrapping a bwrap command;
// provisioning invocations run as given.
func (l *Local) argv(inv Invocation) ([]string, error) {
	if len(inv.Command) == 0 {
		return nil, fmt.Errorf("command is required")
	}
	if inv.Plan == nil {
		return inv.Command, nil
	}

	bwrapPath, err := l.lookPath("bwrap")
	if err != nil {
		return nil, fmt.Errorf("bwrap not found: %w", err)
	}

	argv := append([]string{bwrapPath}, BwrapArgs(inv.Root, inv.Plan, inv.Command)...)

	scope := NewScope(scopeName(inv.Root), inv.Plan)
	if _, err := l.lookPath("systemd-run"); err == nil {
		argv = scope.Wrap(argv)
	} else {
		l.logger.Warn("systemd-run not available, resource limits and device allowances will not be enforced")
	}

	return argv, nil
}
