package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/i3-app-list/i3-app-list/internal/config"
	"github.com/i3-app-list/i3-app-list/internal/models"
)

// DaemonBinary is the name of the daemon executable.
const DaemonBinary = "i3-app-listd"

// startDaemon starts the daemon detached from the terminal and waits for
// it to announce itself in daemon.yaml.
func startDaemon(args ...string) (*models.DaemonInfo, error) {
	daemonPath, err := findDaemonBinary()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(daemonPath, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start daemon: %w", err)
	}
	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	// Wait for daemon to be ready (max 5 seconds)
	for i := 0; i < 50; i++ {
		select {
		case err := <-exited:
			return nil, fmt.Errorf("daemon exited during startup: %v (see the log file)", err)
		case <-time.After(100 * time.Millisecond):
		}
		running, info, err := config.IsDaemonRunning()
		if err == nil && running && info.PID == cmd.Process.Pid {
			return info, nil
		}
	}

	return nil, fmt.Errorf("daemon failed to start within timeout")
}

// findDaemonBinary locates the i3-app-listd binary, next to the running
// executable first, then on PATH.
func findDaemonBinary() (string, error) {
	if execPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), DaemonBinary)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(DaemonBinary); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%s not found. Install or build it first", DaemonBinary)
}

// daemonArgs forwards the CLI's settings to the daemon.
func daemonArgs(configFile, socket string, dryRun, debug bool) []string {
	var args []string
	if configFile != "" {
		if abs, err := filepath.Abs(configFile); err == nil {
			configFile = abs
		}
		args = append(args, "--config-file", configFile)
	}
	if socket != "" {
		args = append(args, "--socket", socket)
	}
	if dryRun {
		args = append(args, "--dry-run")
	}
	if debug {
		args = append(args, "--debug")
	}
	return args
}
