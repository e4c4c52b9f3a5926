package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"

	"github.com/example/polyshot/internal/render"
	"github.com/example/polyshot/internal/theme"
)

const (
	tabHeight    = 24
	bottomHeight = 24
	buttonHeight = 24
)

var toolbarWidth = 48

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

func fitZoom(w, h, winW, winH int) float64 {
	availW := winW - toolbarWidth
	availH := winH - tabHeight - bottomHeight
	zx := float64(availW) / float64(w)
	zy := float64(availH) / float64(h)
	if zx < zy {
		return zx
	}
	return zy
}

// canvasOrigin anchors the canvas just below the title bar so its position
// stays stable when the window is resized.
func canvasOrigin() image.Point { return image.Pt(toolbarWidth, tabHeight) }

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// shortcutOf normalises a key event for lookup in the action table.
func shortcutOf(e key.Event) KeyShortcut {
	mods := e.Modifiers & (key.ModControl | key.ModShift)
	if e.Rune > 0 {
		// Shift only matters alongside Control; '+' arrives shifted.
		if mods&key.ModControl == 0 {
			mods = 0
		}
		r := e.Rune
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		return KeyShortcut{Rune: r, Modifiers: mods}
	}
	return KeyShortcut{Code: e.Code, Modifiers: mods}
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState, th *theme.Theme)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
	theme *theme.Theme
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	if cb.theme != th {
		cb.cache = [3]*image.RGBA{}
		cb.theme = th
	}
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state, th)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func buttonFill(th *theme.Theme, state ButtonState) color.RGBA {
	switch state {
	case StateHover:
		return blend(th.ButtonBackground, th.ButtonBackgroundActive)
	case StatePressed:
		return th.ButtonBackgroundActive
	}
	return th.ButtonBackground
}

func blend(a, b color.RGBA) color.RGBA {
	return color.RGBA{uint8((int(a.R) + int(b.R)) / 2), uint8((int(a.G) + int(b.G)) / 2), uint8((int(a.B) + int(b.B)) / 2), 255}
}

func drawLabel(dst *image.RGBA, x, y int, label string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(label)
}

// Shortcut is a clickable hint in the bottom bar.
type Shortcut struct {
	label  string
	action func()
	rect   image.Rectangle
}

func (s *Shortcut) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	draw.Draw(dst, s.rect, &image.Uniform{buttonFill(th, state)}, image.Point{}, draw.Src)
	drawRect(dst, s.rect, th.ButtonBorder)
	drawLabel(dst, s.rect.Min.X+2, s.rect.Min.Y+14, s.label, th.ButtonText)
}

func (s *Shortcut) Rect() image.Rectangle { return s.rect }

func (s *Shortcut) SetRect(r image.Rectangle) { s.rect = r }

func (s *Shortcut) Activate() {
	if s.action != nil {
		s.action()
	}
}

// ToolButton selects a tool from the toolbar.
type ToolButton struct {
	label string
	tool  Tool
	rect  image.Rectangle
	// onSelect is called when the button is activated.
	onSelect func()
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	draw.Draw(dst, tb.rect, &image.Uniform{buttonFill(th, state)}, image.Point{}, draw.Src)
	drawLabel(dst, tb.rect.Min.X+4, tb.rect.Min.Y+16, tb.label, th.ButtonText)
}

func (tb *ToolButton) Rect() image.Rectangle { return tb.rect }

func (tb *ToolButton) SetRect(r image.Rectangle) { tb.rect = r }

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect()
	}
}

var toolLabels = []struct {
	label string
	tool  Tool
}{
	{"S:Select", ToolSelect},
	{"P:Polygon", ToolPolygon},
	{"L:Loop", ToolLoop},
}

// layout holds the hit rectangles computed by the last frame.
type layout struct {
	tools     []*CacheButton
	shortcuts []Shortcut
	palette   []image.Rectangle
	widths    []image.Rectangle

	hoverTool     int
	hoverPalette  int
	hoverWidth    int
	hoverShortcut int
}

func newLayout() *layout {
	return &layout{hoverTool: -1, hoverPalette: -1, hoverWidth: -1, hoverShortcut: -1}
}

func (l *layout) clearHover() {
	l.hoverTool, l.hoverPalette, l.hoverWidth, l.hoverShortcut = -1, -1, -1, -1
}

// placeToolbar computes the palette and width rectangles. It runs on the
// event loop so hit testing never races the paint goroutine.
func (l *layout) placeToolbar() {
	y := tabHeight
	for _, cb := range l.tools {
		cb.SetRect(image.Rect(0, y, toolbarWidth, y+buttonHeight))
		y += buttonHeight
	}
	y += 4
	x := 4
	l.palette = l.palette[:0]
	n := paletteLen()
	for i := 0; i < n; i++ {
		l.palette = append(l.palette, image.Rect(x, y, x+16, y+16))
		x += 18
		if x+16 > toolbarWidth && i < n-1 {
			x = 4
			y += 18
		}
	}
	y += 22
	l.widths = l.widths[:0]
	for range WidthOptions() {
		l.widths = append(l.widths, image.Rect(0, y, toolbarWidth, y+16))
		y += 16
	}
}

// placeShortcuts lays the bottom bar hints out for the current tool.
func (l *layout) placeShortcuts(width, height int, tool Tool, collecting bool, zoom float64, trigger func(string)) {
	var list []Shortcut
	if collecting {
		list = []Shortcut{
			{label: "Enter:close", action: func() { trigger("finish") }},
			{label: "Esc:cancel", action: func() { trigger("cancel") }},
		}
	} else {
		list = []Shortcut{
			{label: "^Z:undo", action: func() { trigger("undo") }},
			{label: "^Y:redo", action: func() { trigger("redo") }},
			{label: fmt.Sprintf("+/-:zoom (%.0f%%)", zoom*100), action: func() { trigger("zoomfit") }},
			{label: "^C:copy", action: func() { trigger("copy") }},
			{label: "^S:save", action: func() { trigger("save") }},
			{label: "^E:pdf", action: func() { trigger("export") }},
			{label: "Q:quit", action: func() { trigger("quit") }},
		}
		if tool == ToolSelect {
			list = append(list, Shortcut{label: "Del:delete", action: func() { trigger("delete") }})
		}
	}
	x := toolbarWidth + 4
	y := height - bottomHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for i := range list {
		w := meas.MeasureString(list[i].label).Ceil()
		list[i].SetRect(image.Rect(x-2, y-14, x+w+2, y+4))
		x = list[i].rect.Max.X + 8
	}
	l.shortcuts = list
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color) {
	render.Line(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, 1)
	render.Line(img, rect.Min.X, rect.Min.Y, rect.Min.X, rect.Max.Y-1, col, 1)
	render.Line(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, 1)
	render.Line(img, rect.Min.X, rect.Max.Y-1, rect.Max.X-1, rect.Max.Y-1, col, 1)
}

// paintState is a snapshot handed to the paint goroutine. Everything in it
// is owned by the snapshot.
type paintState struct {
	width, height int
	theme         *theme.Theme
	title         string
	canvas        *image.RGBA
	zoom          float64
	tool          Tool
	colorIdx      int
	widthIdx      int
	collecting    int
	tools         []*CacheButton
	shortcuts     []Shortcut
	palette       []image.Rectangle
	widths        []image.Rectangle
	hoverTool     int
	hoverPalette  int
	hoverWidth    int
	hoverShortcut int
	message       string
}

func (l *layout) snapshot() (tools []*CacheButton, sc []Shortcut, pal, wid []image.Rectangle) {
	return l.tools, append([]Shortcut(nil), l.shortcuts...),
		append([]image.Rectangle(nil), l.palette...), append([]image.Rectangle(nil), l.widths...)
}

func drawTitle(dst *image.RGBA, st paintState) {
	th := st.theme
	draw.Draw(dst, image.Rect(0, 0, st.width, tabHeight), &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	drawLabel(dst, 4, 16, "Polyshot", th.Foreground)
	status := fmt.Sprintf("%s  %s", st.tool, paletteNameAt(st.colorIdx))
	if st.collecting > 0 {
		status += fmt.Sprintf("  %d points", st.collecting)
	}
	if st.title != "" {
		status = st.title + "  " + status
	}
	drawLabel(dst, toolbarWidth+4, 16, status, th.Foreground)
}

func drawToolbar(dst *image.RGBA, st paintState) {
	th := st.theme
	draw.Draw(dst, image.Rect(0, tabHeight, toolbarWidth, st.height-bottomHeight), &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	for i, cb := range st.tools {
		tb := cb.Button.(*ToolButton)
		state := StateDefault
		if tb.tool == st.tool {
			state = StatePressed
		} else if i == st.hoverTool {
			state = StateHover
		}
		cb.Draw(dst, state, th)
	}

	for i, rect := range st.palette {
		draw.Draw(dst, rect, &image.Uniform{paletteColorAt(i)}, image.Point{}, draw.Src)
		if i == st.hoverPalette {
			draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		}
		if i == st.colorIdx {
			drawRect(dst, rect, th.Selection)
		}
	}

	col := paletteColorAt(st.colorIdx)
	for i, rect := range st.widths {
		c := th.ButtonBackground
		if i == st.widthIdx {
			c = th.ButtonBackgroundActive
		} else if i == st.hoverWidth {
			c = blend(th.ButtonBackground, th.ButtonBackgroundActive)
		}
		draw.Draw(dst, rect, &image.Uniform{c}, image.Point{}, draw.Src)
		w := widthAt(i)
		drawLabel(dst, 4, rect.Min.Y+12, fmt.Sprintf("%d", w), th.ButtonText)
		thick := w
		if thick > rect.Dy()-2 {
			thick = rect.Dy() - 2
		}
		render.Line(dst, 30, rect.Min.Y+8, toolbarWidth-4, rect.Min.Y+8, col, thick)
	}
}

func drawShortcuts(dst *image.RGBA, st paintState) {
	th := st.theme
	rect := image.Rect(0, st.height-bottomHeight, st.width, st.height)
	draw.Draw(dst, rect, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	for i := range st.shortcuts {
		state := StateDefault
		if i == st.hoverShortcut {
			state = StateHover
		}
		st.shortcuts[i].Draw(dst, state, th)
	}
}

func drawMessage(dst *image.RGBA, st paintState) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.Foreground), Face: messageFace}
	wmsg := d.MeasureString(st.message).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (st.width - wmsg) / 2
	py := (st.height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	bg := st.theme.Background
	bg.A = 230
	draw.Draw(dst, rect, &image.Uniform{bg}, image.Point{}, draw.Over)
	drawRect(dst, rect, st.theme.ButtonBorder)
	d.Dot = fixed.P(px, py)
	d.DrawString(st.message)
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()

	draw.Draw(dst, dst.Bounds(), &image.Uniform{st.theme.Background}, image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	origin := canvasOrigin()
	cw := int(float64(st.canvas.Bounds().Dx()) * st.zoom)
	ch := int(float64(st.canvas.Bounds().Dy()) * st.zoom)
	xdraw.NearestNeighbor.Scale(dst, image.Rect(origin.X, origin.Y, origin.X+cw, origin.Y+ch), st.canvas, st.canvas.Bounds(), draw.Over, nil)
	if ctx.Err() != nil {
		return
	}

	drawTitle(dst, st)
	drawToolbar(dst, st)
	drawShortcuts(dst, st)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" {
		drawMessage(dst, st)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
