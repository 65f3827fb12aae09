package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/i3-app-list/i3-app-list/internal/config"
)

var (
	daemonDryRun bool
	daemonDebug  bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the i3-app-list daemon",
	Long:  `Manage the i3-app-listd daemon process.`,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStatus,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStop,
}

var daemonReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Make the daemon re-read its settings file",
	Args:  cobra.NoArgs,
	RunE:  runDaemonReload,
}

func init() {
	daemonStartCmd.Flags().BoolVar(&daemonDryRun, "dry-run", false, "log renames instead of sending them")
	daemonStartCmd.Flags().BoolVar(&daemonDebug, "debug", false, "debug logging")

	daemonCmd.AddCommand(daemonReloadCmd)
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running && info != nil {
		fmt.Fprintf(out, "Daemon is already running (PID %d).\n", info.PID)
		return nil
	}

	// Settings errors are reported here rather than in the daemon log.
	if _, err := loadSettings(); err != nil {
		return err
	}

	fmt.Fprint(out, "Starting daemon...")
	info, err = startDaemon(daemonArgs(configFile, socketPath, daemonDryRun, daemonDebug)...)
	if err != nil {
		fmt.Fprintln(out)
		return err
	}

	fmt.Fprintf(out, " %s (PID %d).\n", styleSuccess.Render("started"), info.PID)
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return err
	}

	if !running || info == nil {
		fmt.Fprintln(out, "Daemon is not running.")
		return nil
	}

	uptime := time.Since(info.StartedAt).Truncate(time.Second)
	socket := info.SocketPath
	if socket == "" {
		socket = "(auto)"
	}

	fmt.Fprintln(out, "Daemon is running.")
	fmt.Fprintf(out, "  %s %d\n", styleLabel.Render("PID:      "), info.PID)
	fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("Instance: "), info.InstanceID)
	fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("Settings: "), info.ConfigFile)
	fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("Socket:   "), socket)
	fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("Uptime:   "), uptime)
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running || info == nil {
		fmt.Fprintln(out, "Daemon is not running.")
		return nil
	}

	if err := unix.Kill(info.PID, unix.SIGTERM); err != nil {
		return fmt.Errorf("failed to send stop signal: %w", err)
	}

	// Poll for shutdown (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		if !config.ProcessAlive(info.PID) {
			fmt.Fprintln(out, "Daemon stopped.")
			return nil
		}
	}

	return fmt.Errorf("daemon did not stop within timeout")
}

func runDaemonReload(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running || info == nil {
		return fmt.Errorf("daemon is not running")
	}

	// Validate first so a broken file is reported here.
	if _, err := config.LoadSettings(info.ConfigFile); err != nil {
		return err
	}
	if err := unix.Kill(info.PID, unix.SIGHUP); err != nil {
		return fmt.Errorf("failed to send reload signal: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Reload requested.")
	return nil
}
