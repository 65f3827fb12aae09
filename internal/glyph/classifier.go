package glyph

import (
	"fmt"

	"github.com/i3-app-list/i3-app-list/internal/models"
)

// ClassificationError reports a rule that panicked while matching.
type ClassificationError struct {
	Rule   string
	Window models.Window
	Cause  any
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("glyph rule %q failed on %s: %v", e.Rule, e.Window, e.Cause)
}

// Unwrap returns the panic value when it is an error.
func (e *ClassificationError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// Classifier maps windows to glyphs.
type Classifier struct {
	rules     []Rule
	glyphs    map[string]string
	undefined string
	debug     bool
}

// New creates a classifier. In debug mode, rule failures are returned to
// the caller instead of being treated as "no match".
func New(glyphs map[string]string, rules []Rule, debug bool) *Classifier {
	return &Classifier{
		rules:     rules,
		glyphs:    glyphs,
		undefined: glyphs[models.UndefinedGlyph],
		debug:     debug,
	}
}

// FromSettings builds a classifier from the user rules followed by the
// built-in rules.
func FromSettings(s *models.Settings) (*Classifier, error) {
	user, err := Compile(s.Rules)
	if err != nil {
		return nil, err
	}
	return New(s.Glyphs, append(user, Builtin()...), s.Debug), nil
}

// Classify returns the glyph of the first matching rule. ok is false when
// no rule matched.
func (c *Classifier) Classify(w models.Window) (glyph string, ok bool, err error) {
	for _, rule := range c.rules {
		g, has := c.glyphs[rule.Name]
		if !has {
			continue
		}
		matched, matchErr := match(rule, w)
		if matchErr != nil {
			if c.debug {
				return "", false, matchErr
			}
			continue
		}
		if matched {
			return g, true, nil
		}
	}
	return "", false, nil
}

// Glyph returns the glyph for w, falling back to the undefined glyph.
// The returned string is never empty, even when err is non-nil.
func (c *Classifier) Glyph(w models.Window) (string, error) {
	g, ok, err := c.Classify(w)
	if err != nil || !ok || g == "" {
		return c.Undefined(), err
	}
	return g, nil
}

// Undefined returns the fallback glyph.
func (c *Classifier) Undefined() string {
	if c.undefined == "" {
		return "?"
	}
	return c.undefined
}

func match(rule Rule, w models.Window) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ClassificationError{Rule: rule.Name, Window: w, Cause: r}
		}
	}()
	return rule.Match(w), nil
}
