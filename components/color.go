package components

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB triple with a fractional opacity in [0, 1].
type Color struct {
	R, G, B uint8
	A       float32
}

// WithAlpha returns c with its opacity replaced.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// Blend returns the per-channel arithmetic mean of a and b, floored.
// Opacity is not blended; the result is fully opaque and callers apply
// their own alpha.
func Blend(a, b Color) Color {
	return Color{
		R: uint8((uint16(a.R) + uint16(b.R)) / 2),
		G: uint8((uint16(a.G) + uint16(b.G)) / 2),
		B: uint8((uint16(a.B) + uint16(b.B)) / 2),
		A: 1,
	}
}

// ParseHex parses a "#RRGGBB" string into an opaque Color.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parsing colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: 1}, nil
}

// MustParseHex is like ParseHex but panics on error.
// Intended for package-level palette literals.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the RGB part of c as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
