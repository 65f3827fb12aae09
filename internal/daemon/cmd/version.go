package cmd

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/i3-app-list/i3-app-list/internal/buildinfo"
)

var (
	styleBrand = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "30", Dark: "45"})
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "240"})
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", styleBrand.Render("i3-app-listd"), buildinfo.Version)
		fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("commit "), buildinfo.CommitHash)
		fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("built  "), buildinfo.BuildDate)
		fmt.Fprintf(out, "  %s %s/%s %s\n", styleLabel.Render("runtime"), runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
