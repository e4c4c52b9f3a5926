package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/polyshot/internal/appstate"
	"github.com/example/polyshot/internal/canvas"
	"github.com/example/polyshot/internal/clipboard"
	"github.com/example/polyshot/internal/colorspec"
	"github.com/example/polyshot/internal/component"
	"github.com/example/polyshot/internal/config"
	"github.com/example/polyshot/internal/graphics"
	"github.com/example/polyshot/internal/theme"
)

// source describes where the background image comes from.
type source struct {
	file          string
	fromClipboard bool
	size          string
}

func (s source) load() (*image.RGBA, error) {
	var img image.Image
	switch {
	case s.fromClipboard:
		var err error
		img, err = clipboard.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
	case s.file != "":
		f, err := os.Open(s.file)
		if err != nil {
			return nil, err
		}
		img, err = png.Decode(f)
		if cerr := f.Close(); cerr != nil {
			log.Printf("error closing %q: %v", f.Name(), cerr)
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.file, err)
		}
	default:
		w, h, err := parseSize(s.size)
		if err != nil {
			return nil, err
		}
		rgba := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
		return rgba, nil
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

// parseSize reads WIDTHxHEIGHT.
func parseSize(s string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q, want WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: dimensions must be positive", s)
	}
	return w, h, nil
}

// workspace bundles the canvas, its host and the session around them.
type workspace struct {
	canvas  *canvas.Canvas
	graphic *graphics.Graphics
	session *appstate.Session
}

type workspaceOptions struct {
	background *image.RGBA
	theme      *theme.Theme
	polygon    config.Polygon
	output     string
	pdf        string
	color      string
	width      float64
	invalidate func()
	clock      func() time.Time
	session    []appstate.SessionOption
}

// paletteIndex maps a color spec onto the palette, adding it when needed.
func paletteIndex(spec string) (int, error) {
	if idx, ok := appstate.FindPaletteColor(spec); ok {
		return idx, nil
	}
	c, err := colorspec.Parse(spec)
	if err != nil {
		return 0, err
	}
	n := c.NRGBA()
	return appstate.EnsurePaletteColor(color.RGBA{R: n.R, G: n.G, B: n.B, A: 255}, ""), nil
}

func newWorkspace(o workspaceOptions) (*workspace, error) {
	th := o.theme
	if th == nil {
		th = theme.Default()
	}
	copts := []canvas.Option{canvas.WithBackground(o.background), canvas.WithDoubleClickInterval(o.polygon.DoubleClick)}
	if o.invalidate != nil {
		copts = append(copts, canvas.WithInvalidate(o.invalidate))
	}
	if o.clock != nil {
		copts = append(copts, canvas.WithClock(o.clock))
	}
	c := canvas.New(o.background.Bounds().Dx(), o.background.Bounds().Dy(), copts...)

	radius := o.polygon.MarkerRadius
	if radius <= 0 {
		radius = component.DefaultMarkerRadius
	}
	g := graphics.New(c, graphics.WithStyle(th.PolygonStyle(radius)))

	spec := o.color
	if spec == "" {
		spec = o.polygon.Color
	}
	colorIdx := appstate.DefaultColorIndex()
	if spec != "" {
		idx, err := paletteIndex(spec)
		if err != nil {
			return nil, fmt.Errorf("polygon color: %w", err)
		}
		colorIdx = idx
	}
	width := o.width
	if width <= 0 {
		width = o.polygon.Width
	}
	widthIdx := appstate.DefaultWidthIndex()
	if width > 0 {
		widthIdx = appstate.EnsureWidth(int(width))
	}

	sopts := []appstate.SessionOption{
		appstate.WithCanvasStyle(th.CanvasStyle()),
		appstate.WithColorIndex(colorIdx),
		appstate.WithWidthIndex(widthIdx),
		appstate.WithOutput(o.output),
		appstate.WithPDFOutput(o.pdf),
	}
	sopts = append(sopts, o.session...)
	return &workspace{canvas: c, graphic: g, session: appstate.NewSession(g, sopts...)}, nil
}

// initialTool maps the configured variant onto a drawing tool.
func initialTool(variant string) appstate.Tool {
	if strings.EqualFold(variant, config.VariantLoop) {
		return appstate.ToolLoop
	}
	return appstate.ToolPolygon
}

// outputPath places name in the configured save directory unless it
// already names a directory.
func outputPath(cfg *config.Config, name string) string {
	if name == "" || filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	if cfg != nil && cfg.SaveDir != "" {
		return filepath.Join(cfg.SaveDir, name)
	}
	return name
}
