// Package cmd implements the i3-app-listd command line.
package cmd

import (
	"github.com/spf13/cobra"
)

type daemonOptions struct {
	configFile string
	socket     string
	logFile    string
	dryRun     bool
	debug      bool
}

var opts daemonOptions

var rootCmd = &cobra.Command{
	Use:   "i3-app-listd",
	Short: "Name i3/sway workspaces after the applications they hold",
	Long: `i3-app-listd listens to window manager events and renames every
workspace to "<number>: <custom name>: <glyphs>", one glyph per window.

Renaming a workspace by hand sets its custom name; the number and glyphs
are kept around it.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), opts)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configFile, "config-file", "c", "", "settings file (default $XDG_CONFIG_HOME/i3-app-list/settings.yaml)")
	flags.StringVar(&opts.socket, "socket", "", "window manager IPC socket (default $I3SOCK, $SWAYSOCK or the window manager's own answer)")
	flags.StringVar(&opts.logFile, "log-file", "", "log file (default $XDG_CONFIG_HOME/i3-app-list/i3-app-list.log, \"-\" for stderr)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "log renames instead of sending them")
	flags.BoolVar(&opts.debug, "debug", false, "debug logging; report failing glyph rules")
}

// Execute runs the daemon command line.
func Execute() error {
	return rootCmd.Execute()
}
