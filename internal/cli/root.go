// Package cli implements the i3-app-list CLI commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i3-app-list/i3-app-list/internal/config"
	"github.com/i3-app-list/i3-app-list/internal/models"
	"github.com/i3-app-list/i3-app-list/internal/wm"
)

var (
	configFile string
	socketPath string
	listApps   bool
)

var rootCmd = &cobra.Command{
	Use:   "i3-app-list",
	Short: "Name i3/sway workspaces after the applications they hold",
	Long: `i3-app-list renames every workspace to "<number>: <custom name>: <glyphs>",
one glyph per window, and keeps the names current as windows come and go.

Without a subcommand it starts the i3-app-listd daemon in the background.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listApps {
			return runListApps(cmd, args)
		}
		return runDaemonStart(cmd, args)
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config-file", "c", "", "settings file (default $XDG_CONFIG_HOME/i3-app-list/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "window manager IPC socket")
	rootCmd.Flags().BoolVarP(&listApps, "list-apps", "l", false, "list the windows of every workspace and exit")
	rootCmd.MarkFlagsMutuallyExclusive("config-file", "list-apps")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(listAppsCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadSettings() (*models.Settings, error) {
	return config.LoadSettings(configFile)
}

func dialWM(ctx context.Context) (*wm.Client, error) {
	path := socketPath
	if path == "" {
		var err error
		if path, err = wm.SocketPath(ctx); err != nil {
			return nil, err
		}
	}
	client, err := wm.Dial(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the window manager: %w", err)
	}
	return client, nil
}
