// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/hackeros/steambox/lib/hostenv"
	"github.com/hackeros/steambox/lib/progress"
	"github.com/hackeros/steambox/overlay"
	"github.com/hackeros/steambox/plan"
	"github.com/hackeros/steambox/probe"
	"github.com/hackeros/steambox/runtime"
)

// ErrNotCreated is returned by operations that require a provisioned
// environment.
var ErrNotCreated = errors.New("environment has not been created (run create first)")

// markerDir inside the container root is the sole source of truth for
// "environment created". It is written once after provisioning
// succeeds, so an interrupted create is safely re-run from scratch.
const markerDir = ".provisioned"

// defaultPackages is the base-system package set installed during
// create: the client itself, the compositor for gamepad sessions, and
// the graphics/audio plumbing it needs.
var defaultPackages = []string{
	"steam",
	"gamescope",
	"vulkan-tools",
	"mesa-vulkan-drivers",
	"pipewire-pulseaudio",
	"gamemode",
}

// Runtime is the external collaborator that actually runs invocations.
// Implemented by [runtime.Local]; tests substitute a recorder.
type Runtime interface {
	Execute(ctx context.Context, inv runtime.Invocation) (int, error)
}

// Config holds the dependencies and policy knobs for an Orchestrator.
type Config struct {
	// Host is the captured host environment. Required.
	Host *hostenv.Host

	// Runtime executes external invocations. Required.
	Runtime Runtime

	// Root overrides the container root path. Defaults to
	// <data-home>/steambox/root.
	Root string

	// OverlayBase overrides the overlay storage base directory.
	OverlayBase string

	// Packages overrides the provisioning package set.
	Packages []string

	// ExtraPackages is installed in addition to the package set.
	ExtraPackages []string

	// Resources overrides the session resource limits when non-nil.
	Resources *plan.Resources

	// ReleaseVer is the distribution release provisioned into the
	// root. Defaults to "41".
	ReleaseVer string

	// Progress receives events extracted from provisioning output.
	Progress *progress.Broadcaster

	// ProcRoot overrides the process-table location for kill/status.
	ProcRoot string

	// Signal overrides process signalling in kill. Defaults to
	// SIGTERM delivery.
	Signal func(pid int) error

	// Logger for lifecycle operations.
	Logger *slog.Logger
}

// Orchestrator sequences the probes, the overlay storage, and the
// external runtime through the environment's lifecycle. It assumes a
// single invoker per environment; callers are responsible for
// serializing concurrent attempts against the same root.
type Orchestrator struct {
	host        *hostenv.Host
	runtime     Runtime
	root        string
	overlayBase string
	packages    []string
	resources   *plan.Resources
	releaseVer  string
	progress    *progress.Broadcaster
	procRoot    string
	signal      func(pid int) error
	logger      *slog.Logger
	state       State
}

// New creates an Orchestrator. The initial state is derived from the
// container root's marker directory.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Host == nil {
		return nil, fmt.Errorf("host is required")
	}
	if cfg.Runtime == nil {
		return nil, fmt.Errorf("runtime is required")
	}

	root := cfg.Root
	if root == "" {
		dataHome, err := cfg.Host.DataHome()
		if err != nil {
			return nil, err
		}
		root = filepath.Join(dataHome, "steambox", "root")
	}

	o := &Orchestrator{
		host:        cfg.Host,
		runtime:     cfg.Runtime,
		root:        root,
		overlayBase: cfg.OverlayBase,
		packages:    cfg.Packages,
		resources:   cfg.Resources,
		releaseVer:  cfg.ReleaseVer,
		progress:    cfg.Progress,
		procRoot:    cfg.ProcRoot,
		signal:      cfg.Signal,
		logger:      cfg.Logger,
	}
	if len(o.packages) == 0 {
		o.packages = defaultPackages
	}
	o.packages = append(append([]string{}, o.packages...), cfg.ExtraPackages...)
	if o.releaseVer == "" {
		o.releaseVer = "41"
	}
	if o.procRoot == "" {
		o.procRoot = "/proc"
	}
	if o.signal == nil {
		o.signal = func(pid int) error { return unix.Kill(pid, unix.SIGTERM) }
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	o.state = StateUninitialized
	if o.created() {
		o.state = StateCreated
	}
	return o, nil
}

// Root returns the container root path.
func (o *Orchestrator) Root() string {
	return o.root
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// overlayPaths resolves the overlay directories, honoring a configured
// base override.
func (o *Orchestrator) overlayPaths() (overlay.Paths, error) {
	if o.overlayBase != "" {
		return overlay.ResolveAt(o.overlayBase)
	}
	return overlay.Resolve(o.host)
}

// created checks the marker directory, the sole "environment created"
// signal.
func (o *Orchestrator) created() bool {
	info, err := os.Stat(filepath.Join(o.root, markerDir))
	return err == nil && info.IsDir()
}

// preflight runs both environment probes, in order, before any
// filesystem or process action. Every mutating operation goes through
// here; only the ones that launch an interactive session require a
// display.
func (o *Orchestrator) preflight(requireDisplay bool) (probe.GPUProfile, probe.DisplayProfile, error) {
	gpu, err := probe.DetectGPU(o.host)
	if err != nil {
		return gpu, probe.DisplayProfile{}, err
	}

	display := probe.DetectDisplay(o.host)
	if requireDisplay && display.Kind == probe.DisplayNone {
		return gpu, display, probe.ErrNoDisplay
	}

	o.logger.Debug("environment probes",
		"gpu", gpu.Vendor,
		"display", display.Kind,
	)
	return gpu, display, nil
}

// Create provisions the environment. If the marker directory already
// exists the call is a no-op. Otherwise: probe, ensure overlay
// storage, create the container root, and delegate base-system
// provisioning to the external runtime. The marker is written only
// after provisioning succeeds, so interrupted attempts re-run cleanly.
func (o *Orchestrator) Create(ctx context.Context) error {
	if o.created() {
		o.logger.Info("environment already exists", "root", o.root)
		o.state = StateCreated
		return nil
	}

	if _, _, err := o.preflight(true); err != nil {
		return err
	}

	paths, err := o.overlayPaths()
	if err != nil {
		return err
	}
	if err := paths.Ensure(); err != nil {
		return err
	}

	if err := os.MkdirAll(o.root, 0o755); err != nil {
		return fmt.Errorf("cannot create container root %s: %w", o.root, err)
	}

	o.logger.Info("provisioning base system", "root", o.root, "packages", o.packages)

	command := append([]string{
		"dnf", "--installroot", o.root,
		"--releasever", o.releaseVer,
		"install", "-y",
	}, o.packages...)

	inv := runtime.Invocation{Root: o.root, Command: command}
	if o.progress != nil {
		inv.Output = o.progress.Writer()
	}
	if _, err := o.runtime.Execute(ctx, inv); err != nil {
		return fmt.Errorf("base-system provisioning failed: %w", err)
	}

	if err := os.Mkdir(filepath.Join(o.root, markerDir), 0o755); err != nil {
		return fmt.Errorf("cannot write provisioning marker: %w", err)
	}

	o.state = StateCreated
	o.logger.Info("environment created", "root", o.root)
	return nil
}

// SessionInvocation builds the runtime invocation that Run would
// execute: probes re-run because host state may have changed since
// create, the overlay is re-ensured, and a fresh launch plan is built.
// Useful on its own for dry-run rendering, which works on a host that
// has never been provisioned.
func (o *Orchestrator) SessionInvocation(session string) (runtime.Invocation, error) {
	gpu, display, err := o.preflight(true)
	if err != nil {
		return runtime.Invocation{}, err
	}

	paths, err := o.overlayPaths()
	if err != nil {
		return runtime.Invocation{}, err
	}
	if err := paths.Ensure(); err != nil {
		return runtime.Invocation{}, err
	}

	launchPlan, err := plan.Build(gpu, display, paths, o.host)
	if err != nil {
		return runtime.Invocation{}, err
	}
	if o.resources != nil {
		launchPlan.Resources = *o.resources
	}

	o.logger.Debug("session plan built",
		"session", session,
		"gpu", gpu.Vendor,
		"display", display.Kind,
	)

	return runtime.Invocation{
		Root:        o.root,
		Plan:        launchPlan,
		Command:     sessionCommand(session),
		Interactive: true,
	}, nil
}

// Run launches an interactive session. The environment must have been
// created. The external process's exit code is returned unchanged.
func (o *Orchestrator) Run(ctx context.Context, session string) (int, error) {
	if !o.created() {
		return 0, ErrNotCreated
	}

	inv, err := o.SessionInvocation(session)
	if err != nil {
		return 0, err
	}

	o.logger.Info("launching session", "session", session)

	o.state = StateRunning
	code, err := o.runtime.Execute(ctx, inv)
	o.state = StateStopped

	// A non-zero exit is the session's own business; propagate the
	// code without dressing it up as an orchestration failure.
	if _, ok := runtime.IsExitError(err); ok {
		return code, nil
	}
	return code, err
}

// Update refreshes the installed packages. The environment must exist;
// the lifecycle state is unchanged. A display is not required.
func (o *Orchestrator) Update(ctx context.Context) error {
	if _, _, err := o.preflight(false); err != nil {
		return err
	}
	if !o.created() {
		return ErrNotCreated
	}

	o.logger.Info("updating packages", "root", o.root)

	inv := runtime.Invocation{
		Root:    o.root,
		Command: []string{"dnf", "--installroot", o.root, "upgrade", "-y"},
	}
	if o.progress != nil {
		inv.Output = o.progress.Writer()
	}
	if _, err := o.runtime.Execute(ctx, inv); err != nil {
		return fmt.Errorf("package update failed: %w", err)
	}
	return nil
}

// Kill terminates, best effort, every host process whose command line
// references the container root. Returns whether anything matched;
// Running transitions to Stopped only on a match.
func (o *Orchestrator) Kill() (bool, error) {
	if _, _, err := o.preflight(false); err != nil {
		return false, err
	}

	pids := matchProcesses(o.procRoot, o.root)
	for _, pid := range pids {
		if err := o.signal(pid); err != nil {
			o.logger.Debug("signal failed", "pid", pid, "error", err)
		}
	}

	if len(pids) == 0 {
		o.logger.Info("no running session found", "root", o.root)
		return false, nil
	}

	o.logger.Info("terminated session processes", "count", len(pids))
	if o.state == StateRunning {
		o.state = StateStopped
	}
	return true, nil
}

// Restart is kill followed by a default-session run. Overlay contents
// are preserved: nothing here touches the upper layer.
func (o *Orchestrator) Restart(ctx context.Context) (int, error) {
	if _, err := o.Kill(); err != nil {
		return 0, err
	}
	return o.Run(ctx, SessionDefault)
}

// Remove recursively deletes the container root and nothing else. The
// overlay storage under the user data directory survives, so
// recreating the environment finds the user's data intact.
func (o *Orchestrator) Remove() error {
	if _, _, err := o.preflight(false); err != nil {
		return err
	}

	if err := os.RemoveAll(o.root); err != nil {
		return fmt.Errorf("cannot remove container root %s: %w", o.root, err)
	}

	o.state = StateRemoved
	o.logger.Info("environment removed", "root", o.root)
	return nil
}

// Status reports whether any process references the container root.
// Read-only: no probes, no state change.
func (o *Orchestrator) Status() (bool, []int) {
	pids := matchProcesses(o.procRoot, o.root)
	return len(pids) > 0, pids
}
