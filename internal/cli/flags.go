package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/tonal/internal/designctx"
	"github.com/jmylchreest/tonal/internal/palette"
	"github.com/jmylchreest/tonal/internal/tokens"
)

var _ pflag.Value = (*choiceValue)(nil)

// choiceValue is a string flag checked by parse when set.
type choiceValue struct {
	value *string
	typ   string
	parse func(string) (string, error)
}

func newChoiceValue(p *string, def, typ string, parse func(string) (string, error)) *choiceValue {
	*p = def
	return &choiceValue{value: p, typ: typ, parse: parse}
}

func (c *choiceValue) String() string {
	if c.value == nil {
		return ""
	}
	return *c.value
}

func (c *choiceValue) Set(s string) error {
	v, err := c.parse(s)
	if err != nil {
		return err
	}
	*c.value = v
	return nil
}

func (c *choiceValue) Type() string { return c.typ }

func styleFlag(p *string) *choiceValue {
	return newChoiceValue(p, string(palette.StyleProfessional), "style", func(s string) (string, error) {
		style, err := palette.ParseStyle(s)
		return string(style), err
	})
}

func formatFlag(p *string) *choiceValue {
	return newChoiceValue(p, "", "format", func(s string) (string, error) {
		f, ok := tokens.Lookup(s)
		if !ok {
			return "", fmt.Errorf("unknown format %q (available: %s)", s, strings.Join(tokens.Names(), ", "))
		}
		return f.Name, nil
	})
}

func levelFlag(p *string) *choiceValue {
	return newChoiceValue(p, string(designctx.AccessibilityAA), "level", func(s string) (string, error) {
		level := designctx.AccessibilityLevel(strings.ToLower(strings.TrimSpace(s)))
		if err := (designctx.Context{Accessibility: level}).Validate(); err != nil {
			return "", err
		}
		return string(level), nil
	})
}

func styleNames() string {
	names := make([]string, len(palette.Styles))
	for i, s := range palette.Styles {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
