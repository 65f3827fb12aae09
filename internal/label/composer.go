package label

import (
	"html"
	"strconv"
	"strings"

	"github.com/i3-app-list/i3-app-list/internal/models"
)

// App is one window's contribution to a label.
type App struct {
	Glyph   string
	Focused bool
}

// Composer renders workspace labels. It is immutable once built.
type Composer struct {
	color     colorFunc
	escape    escapeFunc
	focused   models.ColorGroup
	unfocused models.ColorGroup
	partSep   string
	appSep    string
}

// New creates a composer for the given settings, rendering the
// separators once.
func New(s *models.Settings) (*Composer, error) {
	color, escape, err := colorer(s.Backend)
	if err != nil {
		return nil, err
	}
	return &Composer{
		color:     color,
		escape:    escape,
		focused:   s.Apps.Focused,
		unfocused: s.Apps.Unfocused,
		partSep:   color(escape(s.Parts.Separator.Str), s.Parts.Separator.FG, s.Parts.Separator.BG),
		appSep:    color(escape(s.Apps.Separator.Str), s.Apps.Separator.FG, s.Apps.Separator.BG),
	}, nil
}

// PartSeparator returns the rendered separator between label parts.
func (c *Composer) PartSeparator() string {
	return c.partSep
}

// Compose joins the workspace number, the custom name and the colored
// glyphs. Empty parts are left out, so no separator is ever doubled.
func (c *Composer) Compose(num int, customName string, apps []App) string {
	glyphs := make([]string, 0, len(apps))
	for _, app := range apps {
		if app.Glyph == "" {
			continue
		}
		group := c.unfocused
		if app.Focused {
			group = c.focused
		}
		glyphs = append(glyphs, c.color(c.escape(app.Glyph), group.FG, group.BG))
	}

	parts := make([]string, 0, 3)
	if num >= 0 {
		parts = append(parts, strconv.Itoa(num))
	}
	if customName != "" {
		parts = append(parts, c.escape(customName))
	}
	if len(glyphs) > 0 {
		parts = append(parts, strings.Join(glyphs, c.appSep))
	}
	return strings.Join(parts, c.partSep)
}

// Unescape returns the plain text of a rendered custom name. It undoes
// the escaping Compose applies, so names read back from the window
// manager are not escaped twice.
func (c *Composer) Unescape(name string) string {
	if c.escape(name) == name {
		return name
	}
	return html.UnescapeString(name)
}

// IsOwnName reports whether name follows the engine's naming convention
// for a workspace numbered num: either "<num>" or "<num><separator>...".
func (c *Composer) IsOwnName(name string, num int) bool {
	if num < 0 {
		return false
	}
	prefix := strconv.Itoa(num)
	return name == prefix || strings.HasPrefix(name, prefix+c.partSep)
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// RenameCommand returns the command renaming a workspace. The window
// manager only accepts double-quoted names.
func RenameCommand(oldName, newName string) string {
	return `rename workspace "` + quoteEscaper.Replace(oldName) + `" to "` + quoteEscaper.Replace(newName) + `"`
}
