// Package colorspec parses and formats the color strings accepted by the
// drawing tools: hex values, rgb()/rgba() functions and CSS color names.
package colorspec

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is a straight (non-premultiplied) color with a fractional alpha,
// matching the rgba() notation used by the canvas.
type Color struct {
	R, G, B uint8
	A       float64
}

// Parse reads a color specification. Supported forms are #rgb, #rrggbb,
// #rrggbbaa, rgb(r, g, b), rgba(r, g, b, a) and names from colornames.
func Parse(s string) (Color, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return Color{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return FromRGBA(c), nil
	}
	if strings.HasPrefix(spec, "#") {
		return parseHex(spec[1:], s)
	}
	if strings.HasPrefix(spec, "rgba(") || strings.HasPrefix(spec, "rgb(") {
		return parseFunc(spec, s)
	}
	return Color{}, fmt.Errorf("invalid color %q", s)
}

// MustParse is Parse for package-level defaults.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(hex, orig string) (Color, error) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q: invalid hex length", orig)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", orig, err)
	}
	if len(hex) == 6 {
		return Color{R: uint8(val >> 16), G: uint8((val >> 8) & 0xFF), B: uint8(val & 0xFF), A: 1}, nil
	}
	return Color{
		R: uint8(val >> 24),
		G: uint8((val >> 16) & 0xFF),
		B: uint8((val >> 8) & 0xFF),
		A: roundAlpha(float64(val&0xFF) / 255),
	}, nil
}

func parseFunc(spec, orig string) (Color, error) {
	open := strings.IndexByte(spec, '(')
	if !strings.HasSuffix(spec, ")") {
		return Color{}, fmt.Errorf("invalid color %q: missing ')'", orig)
	}
	name := spec[:open]
	parts := strings.Split(spec[open+1:len(spec)-1], ",")
	want := 3
	if name == "rgba" {
		want = 4
	}
	if len(parts) != want {
		return Color{}, fmt.Errorf("invalid color %q: %s needs %d components", orig, name, want)
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return Color{}, fmt.Errorf("invalid color %q: component %d out of range", orig, i+1)
		}
		rgb[i] = uint8(v)
	}
	c := Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 1}
	if want == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return Color{}, fmt.Errorf("invalid color %q: alpha must be between 0 and 1", orig)
		}
		c.A = a
	}
	return c, nil
}

// FromRGBA converts an 8-bit color. Premultiplied input is un-premultiplied.
func FromRGBA(c color.RGBA) Color {
	if c.A == 0 {
		return Color{}
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: roundAlpha(float64(n.A) / 255)}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = math.Max(0, math.Min(1, a))
	return c
}

// NRGBA converts c for rasterisation.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(c.A * 255))}
}

// Hex formats c as #RRGGBB, appending AA when not fully opaque.
func (c Color) Hex() string {
	n := c.NRGBA()
	if n.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}

// String formats c in rgba() notation.
func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

func roundAlpha(a float64) float64 {
	return math.Round(a*1000) / 1000
}
