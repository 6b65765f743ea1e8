// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

// steambox provisions and runs an isolated Steam environment.
//
// Usage:
//
//	steambox create [flags]
//	steambox run [flags] [session]
//	steambox update [flags]
//	steambox kill
//	steambox restart [flags]
//	steambox remove
//	steambox status
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/hackeros/steambox/lib/config"
	"github.com/hackeros/steambox/lib/hostenv"
	"github.com/hackeros/steambox/lib/process"
	"github.com/hackeros/steambox/lifecycle"
	"github.com/hackeros/steambox/runtime"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if os.Getenv("STEAMBOX_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "create":
		err = createCmd(args, logger)
	case "run":
		err = runCmd(args, logger)
	case "update":
		err = updateCmd(args, logger)
	case "kill":
		err = killCmd(args, logger)
	case "restart":
		err = restartCmd(args, logger)
	case "remove":
		err = removeCmd(args, logger)
	case "status":
		err = statusCmd(args, logger)
	case "version", "--version", "-v":
		fmt.Printf("steambox %s\n", version)
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	process.Exit(err)
}

func printUsage() {
	fmt.Print(`steambox - Run Steam in an isolated sandbox

USAGE
    steambox <command> [flags]

COMMANDS
    create    Provision the sandbox environment
    run       Launch a Steam session (creates the environment if needed)
    update    Update packages inside the environment
    kill      Terminate a running session
    restart   Kill and relaunch the session
    remove    Delete the environment (game data is preserved)
    status    Show whether a session is running
    version   Show version

SESSIONS
    (default)   Steam desktop client
    deck        Gamescope big-picture session
    terminal    Interactive shell inside the sandbox

EXAMPLES
    # First launch: provision, then start the desktop client
    steambox run

    # Big-picture mode on a handheld
    steambox run deck

    # Show the sandbox command without running it
    steambox run --dry-run

ENVIRONMENT
    STEAMBOX_CONFIG  Path to a steambox.yaml config file
    STEAMBOX_DEBUG   Enable debug logging
`)
}

// commandFlags returns a flag set with the flags every subcommand
// shares.
func commandFlags(name string) (*pflag.FlagSet, *string) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	configPath := fs.String("config", "", "path to config file (overrides STEAMBOX_CONFIG)")
	return fs, configPath
}

// setup loads configuration and assembles the orchestrator with the
// local runtime.
func setup(configPath string, logger *slog.Logger) (*lifecycle.Orchestrator, *runtime.Local, *config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, nil, err
	}

	local := runtime.NewLocal(logger)
	limits := cfg.ResourceLimits()
	orch, err := lifecycle.New(lifecycle.Config{
		Host:          hostenv.System(),
		Runtime:       local,
		Root:          cfg.Paths.Root,
		OverlayBase:   cfg.Paths.Overlay,
		Packages:      cfg.Provisioning.Packages,
		ExtraPackages: cfg.Provisioning.ExtraPackages,
		ReleaseVer:    cfg.Provisioning.ReleaseVer,
		Resources:     &limits,
		Logger:        logger,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return orch, local, cfg, nil
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func createCmd(args []string, logger *slog.Logger) error {
	fs, configPath := commandFlags("create")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orch, _, _, err := setup(*configPath, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	return orch.Create(ctx)
}

func runCmd(args []string, logger *slog.Logger) error {
	fs, configPath := commandFlags("run")
	dryRun := fs.Bool("dry-run", false, "print the sandbox command without executing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orch, local, cfg, err := setup(*configPath, logger)
	if err != nil {
		return err
	}

	session := cfg.Session
	if fs.NArg() > 0 {
		session = fs.Arg(0)
	}

	if *dryRun {
		inv, err := orch.SessionInvocation(session)
		if err != nil {
			return err
		}
		argv, err := local.DryRun(inv)
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(argv, " \\\n  "))
		return nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("run requires an interactive terminal (use --dry-run to inspect the command)")
	}

	ctx, cancel := signalContext()
	defer cancel()

	// First launch provisions transparently.
	if err := orch.Create(ctx); err != nil {
		return err
	}

	code, err := orch.Run(ctx, session)
	if err != nil {
		return err
	}
	if code != 0 {
		return &runtime.ExitError{Code: code}
	}
	return nil
}

func updateCmd(args []string, logger *slog.Logger) error {
	fs, configPath := commandFlags("update")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orch, _, _, err := setup(*configPath, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	return orch.Update(ctx)
}

func killCmd(args []string, logger *slog.Logger) error {
	fs, configPath := commandFlags("kill")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orch, _, _, err := setup(*configPath, logger)
	if err != nil {
		return err
	}

	found, err := orch.Kill()
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("no running session")
	}
	return nil
}

func restartCmd(args []string, logger *slog.Logger) error {
	fs, configPath := commandFlags("restart")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orch, _, _, err := setup(*configPath, logger)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("restart requires an interactive terminal")
	}

	ctx, cancel := signalContext()
	defer cancel()

	code, err := orch.Restart(ctx)
	if err != nil {
		return err
	}
	if code != 0 {
		return &runtime.ExitError{Code: code}
	}
	return nil
}

func removeCmd(args []string, logger *slog.Logger) error {
	fs, configPath := commandFlags("remove")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orch, _, _, err := setup(*configPath, logger)
	if err != nil {
		return err
	}
	return orch.Remove()
}

func statusCmd(args []string, logger *slog.Logger) error {
	fs, configPath := commandFlags("status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orch, _, _, err := setup(*configPath, logger)
	if err != nil {
		return err
	}

	running, pids := orch.Status()
	if running {
		fmt.Printf("running (pids %v)\n", pids)
	} else {
		fmt.Printf("not running (state: %s)\n", orch.State())
	}
	return nil
}
