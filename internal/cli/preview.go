package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/i3-app-list/i3-app-list/internal/daemon/watcher"
	"github.com/i3-app-list/i3-app-list/internal/models"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the labels the daemon would give each workspace",
	Long: `Compute every workspace label from the current windows and show the
renames the daemon would issue. Nothing is renamed.

Custom names are only known to the running daemon, so workspaces renamed by
hand are shown without them.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	client, err := dialWM(cmd.Context())
	if err != nil {
		return err
	}
	defer client.Close()

	var logs strings.Builder
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	rec, err := watcher.New(client, settings, watcher.Options{Logger: logger, DryRun: true})
	if err != nil {
		return err
	}
	snap, plan, err := rec.Preview(cmd.Context())
	if err != nil {
		return err
	}

	outputs := make(map[models.WorkspaceID]string)
	if workspaces, err := client.GetWorkspaces(cmd.Context()); err == nil {
		for _, ws := range workspaces {
			outputs[models.WorkspaceID(ws.ID)] = ws.Output
		}
	}

	printPreview(cmd.OutOrStdout(), snap, plan, outputs)
	if logs.Len() > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), styleWarning.Render("warnings:"))
		fmt.Fprint(cmd.ErrOrStderr(), logs.String())
	}
	return nil
}

func printPreview(out io.Writer, snap *models.Snapshot, plan []watcher.Rename, outputs map[models.WorkspaceID]string) {
	renames := make(map[models.WorkspaceID]watcher.Rename, len(plan))
	for _, rn := range plan {
		renames[rn.ID] = rn
	}

	nameWidth := 0
	for _, ws := range snap.Workspaces {
		nameWidth = max(nameWidth, ansi.StringWidth(ws.Name))
	}

	for _, ws := range snap.Workspaces {
		pad := strings.Repeat(" ", nameWidth-ansi.StringWidth(ws.Name))
		output := ""
		if o := outputs[ws.ID]; o != "" {
			output = styleHint.Render(" [" + o + "]")
		}
		if rn, ok := renames[ws.ID]; ok {
			fmt.Fprintf(out, "  %s%s  %s  %s%s\n", ws.Name, pad, styleLabel.Render("→"), styleSuccess.Render(rn.New), output)
		} else {
			fmt.Fprintf(out, "  %s%s  %s%s\n", ws.Name, pad, styleHint.Render("(unchanged)"), output)
		}
	}

	if len(plan) == 0 {
		fmt.Fprintln(out, styleHint.Render("Nothing to rename."))
	} else {
		fmt.Fprintf(out, "%d workspace(s) would be renamed.\n", len(plan))
	}
}
