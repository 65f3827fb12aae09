package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/i3-app-list/i3-app-list/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the settings file",
}

var configCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a settings file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigCheck,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings, defaults included",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the default settings file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.SettingsFile()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	path := configFile
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		var err error
		if path, err = config.SettingsFile(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if !config.FileExists(path) {
		fmt.Fprintf(out, "%s %s does not exist; defaults apply.\n", styleWarning.Render("!"), path)
		return nil
	}

	if _, err := config.LoadSettings(path); err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(out, "%s %s\n", styleError.Render("✗"), verr.Error())
			return fmt.Errorf("%s is invalid", path)
		}
		return err
	}

	fmt.Fprintf(out, "%s %s is valid.\n", styleSuccess.Render("✓"), path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
