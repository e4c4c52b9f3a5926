package appstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"strings"
	"time"

	"golang.org/x/mobile/event/mouse"

	"github.com/example/polyshot/internal/canvas"
	"github.com/example/polyshot/internal/clipboard"
	"github.com/example/polyshot/internal/command"
	"github.com/example/polyshot/internal/component"
	"github.com/example/polyshot/internal/drawingmode"
	"github.com/example/polyshot/internal/export"
	"github.com/example/polyshot/internal/graphics"
	"github.com/example/polyshot/internal/notify"
)

// Tool is the pointer behaviour of the annotation surface.
type Tool int

const (
	// ToolSelect picks finished shapes so they can be recolored or deleted.
	ToolSelect Tool = iota
	// ToolPolygon closes a polygon by clicking its first marker.
	ToolPolygon
	// ToolLoop follows the pointer and closes on double click.
	ToolLoop
)

var toolNames = map[Tool]string{
	ToolSelect:  "select",
	ToolPolygon: "polygon",
	ToolLoop:    "loop",
}

func (t Tool) String() string {
	if n, ok := toolNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// ModeName returns the drawing mode backing t, or "" for ToolSelect.
func (t Tool) ModeName() string {
	switch t {
	case ToolPolygon:
		return drawingmode.PolygonDrawing
	case ToolLoop:
		return drawingmode.PolygonLoopDrawing
	}
	return ""
}

// ParseTool accepts the names printed by Tool.String.
func ParseTool(s string) (Tool, error) {
	for t, n := range toolNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", s)
}

// ErrNoSelection is returned by actions that need a selected shape.
var ErrNoSelection = errors.New("no shape selected")

const messageDuration = 2 * time.Second

// Session is the window-independent state of an annotation: the active
// tool, the palette selection and the file and clipboard actions. The
// window and the headless draw command both drive one.
type Session struct {
	g        *graphics.Graphics
	style    canvas.Style
	tool     Tool
	colorIdx int
	widthIdx int
	output   string
	pdf      string
	notifier *notify.Notifier
	now      func() time.Time

	message      string
	messageUntil time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithOutput sets the PNG path used by Save.
func WithOutput(path string) SessionOption { return func(s *Session) { s.output = path } }

// WithPDFOutput sets the path used by ExportPDF.
func WithPDFOutput(path string) SessionOption { return func(s *Session) { s.pdf = path } }

// WithNotifier reports saves, exports and copies.
func WithNotifier(n *notify.Notifier) SessionOption { return func(s *Session) { s.notifier = n } }

// WithCanvasStyle sets the checkerboard and selection colors.
func WithCanvasStyle(st canvas.Style) SessionOption { return func(s *Session) { s.style = st } }

// WithColorIndex sets the initial palette index.
func WithColorIndex(idx int) SessionOption { return func(s *Session) { s.colorIdx = idx } }

// WithWidthIndex sets the initial outline width index.
func WithWidthIndex(idx int) SessionOption { return func(s *Session) { s.widthIdx = idx } }

// WithClock replaces time.Now for status messages.
func WithClock(fn func() time.Time) SessionOption { return func(s *Session) { s.now = fn } }

// NewSession wraps g. The session starts with ToolSelect.
func NewSession(g *graphics.Graphics, opts ...SessionOption) *Session {
	s := &Session{
		g:        g,
		style:    canvas.DefaultStyle,
		colorIdx: defaultColorIndex,
		widthIdx: defaultWidthIndex,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.colorIdx = clampColorIndex(s.colorIdx)
	s.widthIdx = clampWidthIndex(s.widthIdx)
	return s
}

// Graphics returns the wrapped host.
func (s *Session) Graphics() *graphics.Graphics { return s.g }

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// ColorIndex returns the selected palette entry.
func (s *Session) ColorIndex() int { return s.colorIdx }

// WidthIndex returns the selected outline width entry.
func (s *Session) WidthIndex() int { return s.widthIdx }

// Settings are the component settings implied by the palette selection.
func (s *Session) Settings() component.Settings {
	return component.Settings{Width: float64(widthAt(s.widthIdx)), Color: fillAt(s.colorIdx)}
}

// Message returns the current status line while it is fresh.
func (s *Session) Message() (string, bool) {
	if s.message == "" || !s.now().Before(s.messageUntil) {
		return "", false
	}
	return s.message, true
}

// DismissMessage hides the status line.
func (s *Session) DismissMessage() { s.messageUntil = time.Time{} }

func (s *Session) say(format string, args ...any) {
	s.message = fmt.Sprintf(format, args...)
	s.messageUntil = s.now().Add(messageDuration)
	log.Print(s.message)
}

// SelectTool switches tools. Leaving a drawing tool discards the polygon
// being collected; picking the drawing tool already in use keeps it.
func (s *Session) SelectTool(t Tool) error {
	if _, ok := toolNames[t]; !ok {
		return fmt.Errorf("select tool: unknown %v", t)
	}
	if t != ToolSelect && t == s.tool && s.g.DrawingMode() == t.ModeName() {
		return nil
	}
	s.g.Canvas().SetActive(nil)
	if t == ToolSelect {
		if err := s.g.StopDrawingMode(); err != nil {
			return err
		}
		s.tool = t
		s.g.Canvas().RenderAll()
		return nil
	}
	if err := s.g.StartDrawingMode(t.ModeName(), s.Settings()); err != nil {
		return err
	}
	s.tool = t
	return nil
}

// SetColorIndex picks a palette entry. With a selected shape it is
// recolored through the undoable command; otherwise the color applies to
// the polygon being drawn and the ones after it.
func (s *Session) SetColorIndex(idx int) error {
	s.colorIdx = clampColorIndex(idx)
	if s.tool == ToolSelect {
		if sel, ok := s.Selected(); ok {
			if err := s.g.Execute(command.NameChangePolygonColor, sel.ID(), fillAt(s.colorIdx)); err != nil {
				return err
			}
			s.say("recolored %s", paletteNameAt(s.colorIdx))
		}
		return nil
	}
	return s.applySettings()
}

// SetWidthIndex picks the outline width for new polygons.
func (s *Session) SetWidthIndex(idx int) error {
	s.widthIdx = clampWidthIndex(idx)
	return s.applySettings()
}

// applySettings updates a running tool without ending it.
func (s *Session) applySettings() error {
	comp, ok := s.g.ActiveComponent()
	if !ok {
		return nil
	}
	return comp.Start(s.Settings())
}

// Selected returns the selected polygon.
func (s *Session) Selected() (*canvas.Polygon, bool) {
	p, ok := s.g.Canvas().Active().(*canvas.Polygon)
	if !ok || p == nil {
		return nil, false
	}
	if _, registered := s.g.Object(p.ID()); !registered {
		return nil, false
	}
	return p, true
}

// Select makes the topmost shape under p the selection, or clears it.
func (s *Session) Select(p canvas.Point) bool {
	c := s.g.Canvas()
	target := c.FindTarget(p)
	if _, ok := target.(*canvas.Polygon); !ok {
		target = nil
	}
	changed := target != c.Active()
	c.SetActive(target)
	if changed {
		c.RenderAll()
	}
	return target != nil
}

// HandleMouse routes a window event to the canvas, selecting first when
// ToolSelect is active. It reports whether the canvas consumed it.
func (s *Session) HandleMouse(e mouse.Event) bool {
	c := s.g.Canvas()
	if s.tool == ToolSelect && e.Direction == mouse.DirPress && e.Button == mouse.ButtonLeft {
		s.Select(c.Pointer(float64(e.X), float64(e.Y)))
	}
	return c.Dispatch(e)
}

func (s *Session) polygonTool() (*component.Polygon, bool) {
	comp, ok := s.g.ActiveComponent()
	if !ok {
		return nil, false
	}
	p, ok := comp.(*component.Polygon)
	return p, ok
}

// Finish closes the polygon being collected.
func (s *Session) Finish() error {
	p, ok := s.polygonTool()
	if !ok {
		return fmt.Errorf("finish: no drawing tool active")
	}
	return p.Finalize()
}

// Cancel drops the polygon being collected, or clears the selection.
func (s *Session) Cancel() {
	if p, ok := s.polygonTool(); ok {
		p.Cancel()
		return
	}
	if s.g.Canvas().Active() != nil {
		s.g.Canvas().SetActive(nil)
		s.g.Canvas().RenderAll()
	}
}

// Collecting reports how many points the active tool holds.
func (s *Session) Collecting() int {
	if p, ok := s.polygonTool(); ok {
		return len(p.Points())
	}
	return 0
}

// DeleteSelected removes the selected shape.
func (s *Session) DeleteSelected() error {
	sel, ok := s.Selected()
	if !ok {
		return ErrNoSelection
	}
	if err := s.g.RemoveObject(sel.ID()); err != nil {
		return err
	}
	s.say("deleted shape")
	return nil
}

// Undo reverts the latest recolor. An empty history only sets the status.
func (s *Session) Undo() error {
	if err := s.g.Undo(); err != nil {
		if graphics.IsEmptyHistory(err) {
			s.say("nothing to undo")
			return nil
		}
		return err
	}
	s.say("undo")
	return nil
}

// Redo repeats the latest undone recolor.
func (s *Session) Redo() error {
	if err := s.g.Redo(); err != nil {
		if graphics.IsEmptyHistory(err) {
			s.say("nothing to redo")
			return nil
		}
		return err
	}
	s.say("redo")
	return nil
}

// SetCanvasStyle replaces the checkerboard and selection colors.
func (s *Session) SetCanvasStyle(st canvas.Style) {
	s.style = st
	s.g.Canvas().RenderAll()
}

// Render rasterizes the canvas with the drawing aids it currently holds.
func (s *Session) Render() *image.RGBA { return export.Raster(s.g.Canvas(), s.style) }

// Save writes the PNG output.
func (s *Session) Save() (string, error) {
	if s.output == "" {
		return "", fmt.Errorf("save: no output file")
	}
	if err := export.SavePNG(s.output, s.Render()); err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	s.say("saved %s", s.output)
	s.notifier.Save(s.output)
	return s.output, nil
}

// ExportPDF writes the finished shapes as vectors over the background.
func (s *Session) ExportPDF() (string, error) {
	if s.pdf == "" {
		return "", fmt.Errorf("export: no pdf file")
	}
	opts := export.PDFOptions{Title: "polyshot annotation", Compress: true}
	if err := export.SavePDF(s.pdf, s.g.Canvas(), s.g.Objects(), opts); err != nil {
		return "", err
	}
	s.say("exported %s", s.pdf)
	s.notifier.Export(s.pdf)
	return s.pdf, nil
}

// CopyImage puts the rendered canvas on the clipboard.
func (s *Session) CopyImage() error {
	if err := clipboard.WriteImage(s.Render()); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	s.say("image copied to clipboard")
	s.notifier.Copy("image")
	return nil
}

// ShapesJSON describes the selection, or every shape when nothing is
// selected.
func (s *Session) ShapesJSON() ([]byte, error) {
	var props []canvas.Props
	if sel, ok := s.Selected(); ok {
		props = append(props, s.g.CreateObjectProperties(sel))
	} else {
		for _, o := range s.g.Objects() {
			props = append(props, s.g.CreateObjectProperties(o))
		}
	}
	return json.MarshalIndent(props, "", "  ")
}

// CopyShapes puts ShapesJSON on the clipboard as text.
func (s *Session) CopyShapes() error {
	data, err := s.ShapesJSON()
	if err != nil {
		return err
	}
	if err := clipboard.WriteText(string(data)); err != nil {
		return fmt.Errorf("copy shapes: %w", err)
	}
	s.say("shape description copied to clipboard")
	s.notifier.Copy("shape description")
	return nil
}
