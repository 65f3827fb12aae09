// Package label builds the names shown on workspace buttons.
package label

import (
	"fmt"
	"html"
	"strings"

	"github.com/i3-app-list/i3-app-list/internal/models"
)

// colorFunc wraps already escaped text in the markup of one bar backend.
type colorFunc func(text, fg, bg string) string

// escapeFunc turns plain text into text safe inside the backend's markup.
type escapeFunc func(text string) string

func plain(text string) string { return text }

func colorer(backend models.Backend) (colorFunc, escapeFunc, error) {
	switch backend {
	case models.BackendPango, "":
		return colorPango, html.EscapeString, nil
	case models.BackendCairo, models.BackendLemonbar:
		return colorCairo, plain, nil
	case models.BackendNone:
		return func(text, _, _ string) string { return text }, plain, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func colorPango(text, fg, bg string) string {
	if fg == "" && bg == "" {
		return text
	}
	var attrs []string
	if fg != "" {
		attrs = append(attrs, fmt.Sprintf("foreground='%s'", fg))
	}
	if bg != "" {
		attrs = append(attrs, fmt.Sprintf("background='%s'", bg))
	}
	return fmt.Sprintf("<span %s>%s</span>", strings.Join(attrs, " "), text)
}

func colorCairo(text, fg, bg string) string {
	var b strings.Builder
	if fg != "" {
		fmt.Fprintf(&b, "%%{F%s}", fg)
	}
	if bg != "" {
		fmt.Fprintf(&b, "%%{B%s}", bg)
	}
	b.WriteString(text)
	if fg != "" {
		b.WriteString("%{F-}")
	}
	if bg != "" {
		b.WriteString("%{B-}")
	}
	return b.String()
}
