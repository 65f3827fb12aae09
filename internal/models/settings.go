package models

// Backend names the markup dialect the status bar understands.
type Backend string

// Supported markup backends.
const (
	BackendPango    Backend = "pango"    // i3bar / swaybar with pango markup
	BackendCairo    Backend = "cairo"    // lemonbar-style %{F...} tags
	BackendLemonbar Backend = "lemonbar" // alias of cairo
	BackendNone     Backend = "none"     // plain text, colors ignored
)

// UndefinedGlyph is the glyph table key used for windows no rule matches.
const UndefinedGlyph = "undefined"

// ColorGroup is a foreground/background pair. Empty means "leave as is".
type ColorGroup struct {
	FG string `yaml:"fg,omitempty" toml:"fg,omitempty" json:"fg,omitempty"`
	BG string `yaml:"bg,omitempty" toml:"bg,omitempty" json:"bg,omitempty"`
}

// Separator is a literal string rendered with optional colors.
type Separator struct {
	Str string `yaml:"str" toml:"str" json:"str"`
	FG  string `yaml:"fg,omitempty" toml:"fg,omitempty" json:"fg,omitempty"`
	BG  string `yaml:"bg,omitempty" toml:"bg,omitempty" json:"bg,omitempty"`
}

// AppsConfig styles the glyph section of a label.
type AppsConfig struct {
	Focused   ColorGroup `yaml:"focused" toml:"focused" json:"focused"`
	Unfocused ColorGroup `yaml:"unfocused" toml:"unfocused" json:"unfocused"`
	Separator Separator  `yaml:"separator" toml:"separator" json:"separator"`
}

// PartsConfig styles the separator between number, custom name and glyphs.
type PartsConfig struct {
	Separator Separator `yaml:"separator" toml:"separator" json:"separator"`
}

// RuleConfig is a user-declared classification rule. Every non-empty
// pattern must match for the rule to apply.
type RuleConfig struct {
	Name     string `yaml:"name" toml:"name" json:"name"`
	Class    string `yaml:"class,omitempty" toml:"class,omitempty" json:"class,omitempty"`
	Instance string `yaml:"instance,omitempty" toml:"instance,omitempty" json:"instance,omitempty"`
	Title    string `yaml:"title,omitempty" toml:"title,omitempty" json:"title,omitempty"`
}

// Settings represents the user configuration.
// This corresponds to ~/.config/i3-app-list/settings.yaml.
type Settings struct {
	Backend Backend           `yaml:"backend" toml:"backend" json:"backend"`
	Debug   bool              `yaml:"debug" toml:"debug" json:"debug"`
	Glyphs  map[string]string `yaml:"glyphs" toml:"glyphs" json:"glyphs"`
	Apps    AppsConfig        `yaml:"apps" toml:"apps" json:"apps"`
	Parts   PartsConfig       `yaml:"parts" toml:"parts" json:"parts"`
	Rules   []RuleConfig      `yaml:"rules,omitempty" toml:"rules,omitempty" json:"rules,omitempty"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Backend: BackendPango,
		Debug:   false,
		Glyphs: map[string]string{
			UndefinedGlyph: "\uf128",
			"vim":          "\ue7c5",
			"terminal":     "\uf120",
			"browser":      "\uf269",
			"editor":       "\uf121",
			"chat":         "\uf086",
			"mail":         "\uf0e0",
			"music":        "\uf001",
			"video":        "\uf008",
			"files":        "\uf07b",
			"office":       "\uf15c",
			"image":        "\uf03e",
		},
		Apps: AppsConfig{
			Focused:   ColorGroup{FG: "#ffffff"},
			Unfocused: ColorGroup{FG: "#888888"},
			Separator: Separator{Str: " "},
		},
		Parts: PartsConfig{
			Separator: Separator{Str: ": "},
		},
	}
}

// Undefined returns the glyph used when no rule matches.
func (s *Settings) Undefined() string {
	return s.Glyphs[UndefinedGlyph]
}
