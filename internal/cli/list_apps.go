package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/i3-app-list/i3-app-list/internal/daemon/tree"
	"github.com/i3-app-list/i3-app-list/internal/glyph"
	"github.com/i3-app-list/i3-app-list/internal/models"
)

const maxTitleWidth = 48

var listAppsCmd = &cobra.Command{
	Use:   "list-apps",
	Short: "List the windows of every workspace",
	Long: `List the title, class and instance of every window, grouped by
workspace, with the glyph each one gets. Use it to write glyph rules.`,
	Args: cobra.NoArgs,
	RunE: runListApps,
}

func runListApps(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	classifier, err := glyph.FromSettings(settings)
	if err != nil {
		return err
	}

	client, err := dialWM(cmd.Context())
	if err != nil {
		return err
	}
	defer client.Close()

	snap, err := tree.NewBuilder(client).Build(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isTerminal(out) {
		printAppsStyled(out, snap, classifier)
	} else {
		printAppsPlain(out, snap, classifier)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func glyphOf(c *glyph.Classifier, w models.Window) string {
	g, _ := c.Glyph(w)
	return g
}

// printAppsPlain writes one tab-separated line per window:
// workspace, glyph, class, instance, title.
func printAppsPlain(out io.Writer, snap *models.Snapshot, c *glyph.Classifier) {
	for _, ws := range snap.Workspaces {
		for _, w := range ws.Windows {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n", ws.Name, glyphOf(c, w), w.Class, w.Instance, w.Title)
		}
	}
}

func printAppsStyled(out io.Writer, snap *models.Snapshot, c *glyph.Classifier) {
	for i, ws := range snap.Workspaces {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, styleWorkspace.Render(ws.Name))
		if len(ws.Windows) == 0 {
			fmt.Fprintf(out, "  %s\n", styleHint.Render("(empty)"))
			continue
		}

		classWidth := 0
		for _, w := range ws.Windows {
			classWidth = max(classWidth, ansi.StringWidth(w.Class))
		}
		for _, w := range ws.Windows {
			title := ansi.Truncate(w.Title, maxTitleWidth, "…")
			if w.Focused {
				title = styleFocused.Render(title)
			}
			pad := strings.Repeat(" ", classWidth-ansi.StringWidth(w.Class))
			fmt.Fprintf(out, "  %s  %s%s  %s  %s\n",
				glyphOf(c, w),
				styleValue.Render(w.Class), pad,
				styleLabel.Render(w.Instance),
				title,
			)
		}
	}
}
