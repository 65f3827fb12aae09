// Package glyph classifies windows into short display tokens.
//
// A Classifier holds an ordered list of named rules. For a window, the
// rules are tried in order; the first rule that has an entry in the glyph
// table and whose predicate matches decides the glyph. User rules from the
// settings file come first, then the built-in rules in the order they are
// declared below.
package glyph

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/i3-app-list/i3-app-list/internal/models"
)

// Predicate reports whether a rule applies to a window.
type Predicate func(w models.Window) bool

// Rule pairs a glyph table key with a predicate.
type Rule struct {
	Name  string
	Match Predicate
}

// builtin is evaluated in declaration order: "vim" must precede
// "terminal" because vim runs inside a terminal.
var builtin = []Rule{
	{"vim", func(w models.Window) bool {
		return isTerminal(w) && hasWord(w.Title, "vim", "nvim")
	}},
	{"terminal", isTerminal},
	{"browser", classIn("Firefox", "firefox", "Chromium", "chromium", "Google-chrome", "Brave-browser", "qutebrowser", "librewolf")},
	{"editor", classIn("Emacs", "emacs", "Code", "code", "code-oss", "jetbrains-idea", "jetbrains-goland", "Gvim", "zed", "dev.zed.Zed")},
	{"chat", classIn("Slack", "discord", "Signal", "TelegramDesktop", "Element", "zoom")},
	{"mail", classIn("Thunderbird", "thunderbird", "Evolution", "Geary")},
	{"music", classIn("Spotify", "spotify", "Rhythmbox")},
	{"video", classIn("mpv", "vlc", "Vlc")},
	{"files", classIn("Nautilus", "org.gnome.Nautilus", "Thunar", "dolphin", "Pcmanfm")},
	{"office", func(w models.Window) bool {
		return strings.HasPrefix(strings.ToLower(w.Class), "libreoffice") || w.Class == "Zathura" || w.Class == "Evince"
	}},
	{"image", classIn("Gimp", "Gimp-2.10", "Inkscape", "feh", "Sxiv", "imv")},
}

var terminalClasses = classIn("Gnome-terminal", "URxvt", "XTerm", "st-256color", "Alacritty", "kitty", "foot", "org.wezfurlong.wezterm", "Terminator")

func isTerminal(w models.Window) bool {
	return terminalClasses(w)
}

// Builtin returns a copy of the built-in rules.
func Builtin() []Rule {
	return append([]Rule(nil), builtin...)
}

func classIn(classes ...string) Predicate {
	set := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		set[c] = struct{}{}
	}
	return func(w models.Window) bool {
		_, ok := set[w.Class]
		return ok
	}
}

func hasWord(s string, words ...string) bool {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == '-' || r == ':' || r == '/' || r == '(' || r == ')'
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}

// Compile turns user rule declarations into rules. Every non-empty
// pattern of a declaration must match for the rule to apply.
func Compile(decls []models.RuleConfig) ([]Rule, error) {
	rules := make([]Rule, 0, len(decls))
	for i, d := range decls {
		if d.Name == "" {
			return nil, fmt.Errorf("rules[%d]: name is required", i)
		}
		var matchers []func(models.Window) bool
		add := func(field, pattern string, get func(models.Window) string) error {
			if pattern == "" {
				return nil
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return fmt.Errorf("rules[%d] (%s): invalid %s pattern: %w", i, d.Name, field, err)
			}
			matchers = append(matchers, func(w models.Window) bool {
				return re.MatchString(get(w))
			})
			return nil
		}
		if err := add("class", d.Class, func(w models.Window) string { return w.Class }); err != nil {
			return nil, err
		}
		if err := add("instance", d.Instance, func(w models.Window) string { return w.Instance }); err != nil {
			return nil, err
		}
		if err := add("title", d.Title, func(w models.Window) string { return w.Title }); err != nil {
			return nil, err
		}
		if len(matchers) == 0 {
			return nil, fmt.Errorf("rules[%d] (%s): at least one of class, instance or title is required", i, d.Name)
		}
		rules = append(rules, Rule{
			Name: d.Name,
			Match: func(w models.Window) bool {
				for _, m := range matchers {
					if !m(w) {
						return false
					}
				}
				return true
			},
		})
	}
	return rules, nil
}
