package theme

import (
	"embed"
	"image/color"

	"github.com/example/polyshot/internal/canvas"
	"github.com/example/polyshot/internal/colorspec"
	"github.com/example/polyshot/internal/component"
)

// EmbeddedThemes holds the themes shipped with the binary.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Theme defines the colors of the window chrome and the drawing aids.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background around the canvas
	Foreground color.RGBA // Toolbar text

	// Toolbar
	ToolbarBackground      color.RGBA
	ButtonBackground       color.RGBA
	ButtonBackgroundActive color.RGBA
	ButtonText             color.RGBA
	ButtonBorder           color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
	Selection    color.RGBA

	// Polygon tools
	MarkerFill      color.RGBA
	FirstMarkerFill color.RGBA
	MarkerStroke    color.RGBA
	GuideStroke     color.RGBA
	PreviewStroke   color.RGBA
	ShapeStroke     color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                   "Default",
		Background:             color.RGBA{220, 220, 220, 255},
		Foreground:             color.RGBA{0, 0, 0, 255},
		ToolbarBackground:      color.RGBA{220, 220, 220, 255},
		ButtonBackground:       color.RGBA{200, 200, 200, 255},
		ButtonBackgroundActive: color.RGBA{150, 150, 150, 255},
		ButtonText:             color.RGBA{0, 0, 0, 255},
		ButtonBorder:           color.RGBA{0, 0, 0, 255},
		CheckerLight:           color.RGBA{220, 220, 220, 255},
		CheckerDark:            color.RGBA{192, 192, 192, 255},
		Selection:              color.RGBA{0, 120, 215, 255},
		MarkerFill:             color.RGBA{255, 255, 255, 255},
		FirstMarkerFill:        color.RGBA{255, 0, 0, 255},
		MarkerStroke:           color.RGBA{0, 0, 0, 255},
		GuideStroke:            color.RGBA{0x99, 0x99, 0x99, 255},
		PreviewStroke:          color.RGBA{0x33, 0x33, 0x33, 255},
		ShapeStroke:            color.RGBA{0x33, 0x33, 0x33, 255},
	}
}

// PolygonStyle converts the tool colors for the polygon component.
func (t *Theme) PolygonStyle(markerRadius float64) component.Style {
	return component.Style{
		MarkerFill:      colorspec.FromRGBA(t.MarkerFill),
		FirstMarkerFill: colorspec.FromRGBA(t.FirstMarkerFill),
		MarkerStroke:    colorspec.FromRGBA(t.MarkerStroke),
		GuideStroke:     colorspec.FromRGBA(t.GuideStroke),
		PreviewStroke:   colorspec.FromRGBA(t.PreviewStroke),
		ShapeStroke:     colorspec.FromRGBA(t.ShapeStroke),
		MarkerRadius:    markerRadius,
	}
}

// CanvasStyle returns the colors used when rendering the canvas.
func (t *Theme) CanvasStyle() canvas.Style {
	return canvas.Style{
		CheckerLight: t.CheckerLight,
		CheckerDark:  t.CheckerDark,
		Selection:    t.Selection,
	}
}
