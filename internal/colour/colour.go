// Package colour provides the colour space engine used for palette generation.
package colour

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColorFormat is returned when a string is not a recognised hex colour.
var ErrInvalidColorFormat = errors.New("invalid colour format")

var hexPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Colour is an immutable sRGB colour with its OKLCH coordinates.
// The coordinates are always derived from the hex value.
type Colour struct {
	hex string
	l   float64
	c   float64
	h   float64
}

// NormaliseHex converts #rgb, rgb, #rrggbb or rrggbb (any case) to lower-case #rrggbb.
func NormaliseHex(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	m := hexPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColorFormat, s)
	}

	digits := strings.ToLower(m[1])
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}

	return "#" + digits, nil
}

// ParseHex parses a hex colour string.
func ParseHex(s string) (Colour, error) {
	hex, err := NormaliseHex(s)
	if err != nil {
		return Colour{}, err
	}

	return fromNormalisedHex(hex), nil
}

// MustParseHex is like ParseHex but panics on malformed input.
// Intended for package-level constants and tests.
func MustParseHex(s string) Colour {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FromOKLCH builds a colour from OKLCH coordinates, mapping it into the sRGB gamut.
// The returned colour's coordinates are re-derived from its hex value.
func FromOKLCH(l, c, h float64) Colour {
	return fromNormalisedHex(UniformToHex(l, c, h))
}

func fromNormalisedHex(hex string) Colour {
	col, _ := colorful.Hex(hex)
	l, c, h := toOKLCH(col)
	return Colour{hex: hex, l: l, c: c, h: h}
}

// Hex returns the canonical lower-case #rrggbb form.
func (c Colour) Hex() string { return c.hex }

// L returns OKLCH lightness in [0, 1].
func (c Colour) L() float64 { return c.l }

// C returns OKLCH chroma.
func (c Colour) C() float64 { return c.c }

// H returns OKLCH hue in degrees [0, 360).
func (c Colour) H() float64 { return c.h }

// IsZero reports whether c is the zero value.
func (c Colour) IsZero() bool { return c.hex == "" }

// String implements fmt.Stringer.
func (c Colour) String() string { return c.hex }

// RGB returns the 8-bit channels.
func (c Colour) RGB() RGB {
	col, _ := colorful.Hex(c.hex)
	r, g, b := col.RGB255()
	return RGB{R: r, G: g, B: b}
}

// Colorful returns the go-colorful representation.
func (c Colour) Colorful() colorful.Color {
	col, _ := colorful.Hex(c.hex)
	return col
}

// MarshalText implements encoding.TextMarshaler.
func (c Colour) MarshalText() ([]byte, error) {
	return []byte(c.hex), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Colour) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// RGB represents a colour in 8-bit RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}
