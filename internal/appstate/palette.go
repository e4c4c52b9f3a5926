package appstate

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"sync"

	"github.com/example/polyshot/internal/colorspec"
	"github.com/example/polyshot/internal/component"
)

const (
	defaultColorIndex = 2
	defaultWidthIndex = 4
)

// PaletteColor is a palette entry with its display name.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var (
	paletteMu sync.RWMutex
	palette   = []color.RGBA{
		{0, 0, 0, 255},       // black
		{255, 255, 255, 255}, // white
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
		{255, 255, 0, 255},
		{0, 255, 255, 255},
		{255, 0, 255, 255},
		{128, 0, 0, 255},
		{0, 128, 0, 255},
		{0, 0, 128, 255},
		{128, 128, 0, 255},
		{0, 128, 128, 255},
		{128, 0, 128, 255},
		{192, 192, 192, 255},
		{128, 128, 128, 255},
	}
	paletteNames = []string{
		"Black",
		"White",
		"Red",
		"Lime",
		"Blue",
		"Yellow",
		"Cyan",
		"Magenta",
		"Maroon",
		"Green",
		"Navy",
		"Olive",
		"Teal",
		"Purple",
		"Silver",
		"Gray",
	}
)

var (
	widthsMu sync.RWMutex
	widths   = []int{1, 2, 4, 8, 12, 16}
)

// DefaultColorIndex returns the palette index used when nothing is configured.
func DefaultColorIndex() int { return defaultColorIndex }

// DefaultWidthIndex returns the index of component.DefaultWidth.
func DefaultWidthIndex() int { return defaultWidthIndex }

// PaletteColors returns palette entries annotated with their display names.
func PaletteColors() []PaletteColor {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	out := make([]PaletteColor, len(palette))
	for i := range palette {
		out[i] = PaletteColor{Name: paletteNames[i], Color: palette[i]}
	}
	return out
}

// EnsurePaletteColor makes sure col is present in the palette and returns its index.
func EnsurePaletteColor(col color.RGBA, name string) int {
	paletteMu.Lock()
	defer paletteMu.Unlock()
	col.A = 255
	for idx, existing := range palette {
		if existing == col {
			if name != "" && paletteNames[idx] == "" {
				paletteNames[idx] = name
			}
			return idx
		}
	}
	if name == "" {
		name = fmt.Sprintf("#%02X%02X%02X", col.R, col.G, col.B)
	}
	palette = append(palette, col)
	paletteNames = append(paletteNames, name)
	return len(palette) - 1
}

// FindPaletteColor looks a color up by case-insensitive name.
func FindPaletteColor(name string) (int, bool) {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	for i, n := range paletteNames {
		if strings.EqualFold(n, name) {
			return i, true
		}
	}
	return 0, false
}

// WidthOptions returns a copy of the available outline widths.
func WidthOptions() []int {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	out := make([]int, len(widths))
	copy(out, widths)
	return out
}

// EnsureWidth makes sure width is included in the options and returns its index.
func EnsureWidth(width int) int {
	if width < 1 {
		width = 1
	}
	widthsMu.Lock()
	defer widthsMu.Unlock()
	for idx, existing := range widths {
		if existing == width {
			return idx
		}
	}
	widths = append(widths, width)
	sort.Ints(widths)
	for idx, existing := range widths {
		if existing == width {
			return idx
		}
	}
	return 0
}

func paletteLen() int {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return len(palette)
}

func paletteColorAt(idx int) color.RGBA {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	if len(palette) == 0 {
		return color.RGBA{}
	}
	return palette[clamp(idx, len(palette))]
}

func paletteNameAt(idx int) string {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	if len(paletteNames) == 0 {
		return ""
	}
	return paletteNames[clamp(idx, len(paletteNames))]
}

// fillAt is the polygon fill for palette entry idx.
func fillAt(idx int) string {
	return colorspec.FromRGBA(paletteColorAt(idx)).WithAlpha(component.FillAlpha).String()
}

func clampColorIndex(idx int) int { return clamp(idx, paletteLen()) }

func widthsLen() int {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	return len(widths)
}

func widthAt(idx int) int {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	if len(widths) == 0 {
		return 0
	}
	return widths[clamp(idx, len(widths))]
}

func clampWidthIndex(idx int) int { return clamp(idx, widthsLen()) }

func clamp(idx, n int) int {
	if n == 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
