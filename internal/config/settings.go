package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/i3-app-list/i3-app-list/internal/glyph"
	"github.com/i3-app-list/i3-app-list/internal/models"
)

// ValidationError lists every problem found in a settings file.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	problems := strings.ReplaceAll(e.Err.Error(), "\n", "\n  ")
	if e.Path == "" {
		return "invalid settings:\n  " + problems
	}
	return fmt.Sprintf("invalid settings in %s:\n  %s", e.Path, problems)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LoadSettings loads settings from path, or from the default location
// when path is empty. Values in the file override the defaults. A missing
// file yields the defaults. The result is validated.
func LoadSettings(path string) (*models.Settings, error) {
	if path == "" {
		var err error
		if path, err = SettingsFile(); err != nil {
			return nil, err
		}
	}

	settings := models.NewSettings()
	if FileExists(path) {
		if err := Load(path, settings); err != nil {
			return nil, err
		}
	}

	if err := Validate(settings); err != nil {
		return nil, &ValidationError{Path: path, Err: err}
	}
	return settings, nil
}

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Validate checks the settings for errors.
func Validate(s *models.Settings) error {
	var errs []error

	switch s.Backend {
	case models.BackendPango, models.BackendCairo, models.BackendLemonbar, models.BackendNone:
	default:
		errs = append(errs, fmt.Errorf("backend must be one of pango, cairo, lemonbar, none: got %q", s.Backend))
	}

	if s.Glyphs[models.UndefinedGlyph] == "" {
		errs = append(errs, fmt.Errorf("glyphs.%s is required", models.UndefinedGlyph))
	}

	colors := []struct {
		field string
		value string
	}{
		{"apps.focused.fg", s.Apps.Focused.FG},
		{"apps.focused.bg", s.Apps.Focused.BG},
		{"apps.unfocused.fg", s.Apps.Unfocused.FG},
		{"apps.unfocused.bg", s.Apps.Unfocused.BG},
		{"apps.separator.fg", s.Apps.Separator.FG},
		{"apps.separator.bg", s.Apps.Separator.BG},
		{"parts.separator.fg", s.Parts.Separator.FG},
		{"parts.separator.bg", s.Parts.Separator.BG},
	}
	for _, c := range colors {
		if c.value != "" && !colorPattern.MatchString(c.value) {
			errs = append(errs, fmt.Errorf("%s: invalid color %q", c.field, c.value))
		}
	}

	if s.Parts.Separator.Str == "" {
		errs = append(errs, errors.New("parts.separator.str must not be empty"))
	}

	if _, err := glyph.Compile(s.Rules); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
