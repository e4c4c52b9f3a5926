package component

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"

	"github.com/example/polyshot/internal/canvas"
	"github.com/example/polyshot/internal/colorspec"
)

// Defaults applied by NewPolygon.
const (
	DefaultWidth        = 12
	DefaultColor        = "rgba(0, 0, 0, 0.5)"
	DefaultMarkerRadius = 10
	// FillAlpha is the opacity SetColor gives every fill.
	FillAlpha = 0.5
)

// ErrTooFewPoints is returned when a polygon is closed with fewer than
// three points.
var ErrTooFewPoints = errors.New("polygon needs at least 3 points")

// State is the collection state of a polygon tool.
type State int

const (
	StateIdle State = iota
	StateCollecting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollecting:
		return "collecting"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Variant selects how a polygon is closed.
type Variant int

const (
	// VariantClick closes the polygon when the first marker is clicked.
	VariantClick Variant = iota
	// VariantLoop also follows the pointer with the free guide line and
	// closes the ring on double click.
	VariantLoop
)

// Style holds the colors of the drawing aids and finished shapes.
type Style struct {
	MarkerFill      colorspec.Color
	FirstMarkerFill colorspec.Color
	MarkerStroke    colorspec.Color
	GuideStroke     colorspec.Color
	PreviewStroke   colorspec.Color
	ShapeStroke     colorspec.Color
	MarkerRadius    float64
}

// DefaultStyle matches the stock theme.
var DefaultStyle = Style{
	MarkerFill:      colorspec.MustParse("#ffffff"),
	FirstMarkerFill: colorspec.MustParse("red"),
	MarkerStroke:    colorspec.MustParse("#000000"),
	GuideStroke:     colorspec.MustParse("#999999"),
	PreviewStroke:   colorspec.MustParse("#333333"),
	ShapeStroke:     colorspec.MustParse("#333333"),
	MarkerRadius:    DefaultMarkerRadius,
}

const (
	markerStrokeWidth  = 0.5
	guideStrokeWidth   = 2
	previewStrokeWidth = 1
)

// Polygon collects clicked points into a filled polygon.
type Polygon struct {
	name    string
	variant Variant
	canvas  *canvas.Canvas
	emit    Emitter
	newID   func() string
	style   Style

	width float64
	color colorspec.Color

	state     State
	started   bool
	listeners map[string]canvas.ListenerID

	idCounter  int
	points     []canvas.Point
	markers    []*canvas.Marker
	lines      []*canvas.Line
	activeLine *canvas.Line
	preview    *canvas.Polygon
}

// Option configures a Polygon.
type Option func(*Polygon)

// WithVariant selects the closing behaviour.
func WithVariant(v Variant) Option { return func(p *Polygon) { p.variant = v } }

// WithName overrides the registry name.
func WithName(name string) Option { return func(p *Polygon) { p.name = name } }

// WithStyle sets the aid and outline colors.
func WithStyle(s Style) Option {
	return func(p *Polygon) {
		if s.MarkerRadius <= 0 {
			s.MarkerRadius = DefaultMarkerRadius
		}
		p.style = s
	}
}

// WithIDGenerator replaces the UUID source for finished shapes.
func WithIDGenerator(fn func() string) Option { return func(p *Polygon) { p.newID = fn } }

// NewPolygon creates a polygon tool bound to c. Finished shapes are
// reported through emit.
func NewPolygon(c *canvas.Canvas, emit Emitter, opts ...Option) *Polygon {
	p := &Polygon{
		name:      NamePolygon,
		canvas:    c,
		emit:      emit,
		newID:     uuid.NewString,
		style:     DefaultStyle,
		width:     DefaultWidth,
		color:     colorspec.MustParse(DefaultColor),
		listeners: map[string]canvas.ListenerID{},
	}
	for _, o := range opts {
		o(p)
	}
	if p.variant == VariantLoop && p.name == NamePolygon {
		p.name = NamePolygonLoop
	}
	return p
}

// Name returns the registry name.
func (p *Polygon) Name() string { return p.name }

// State reports the collection state.
func (p *Polygon) State() State { return p.state }

// Started reports whether the tool is listening for input.
func (p *Polygon) Started() bool { return p.started }

// Points returns a copy of the pending points.
func (p *Polygon) Points() []canvas.Point {
	return append([]canvas.Point(nil), p.points...)
}

// Settings reports the current width and color.
func (p *Polygon) Settings() Settings {
	return Settings{Width: p.width, Color: p.color.String()}
}

func (p *Polygon) transition(to State) error {
	ok := false
	switch p.state {
	case StateIdle:
		ok = to == StateCollecting
	case StateCollecting:
		ok = to == StateClosed || to == StateIdle
	case StateClosed:
		ok = to == StateIdle
	}
	if !ok {
		return fmt.Errorf("polygon: illegal transition %s -> %s", p.state, to)
	}
	p.state = to
	return nil
}

func (p *Polygon) apply(s Settings) error {
	if s.Color != "" {
		c, err := colorspec.Parse(s.Color)
		if err != nil {
			return fmt.Errorf("polygon color: %w", err)
		}
		p.color = c
	}
	if s.Width > 0 {
		p.width = s.Width
	}
	if p.preview != nil && p.preview.Fill != p.color {
		p.preview.Fill = p.color
		p.canvas.RenderAll()
	}
	return nil
}

// Start applies s and begins listening for pointer input. Existing objects
// stop receiving events until End.
func (p *Polygon) Start(s Settings) error {
	if err := p.apply(s); err != nil {
		return err
	}
	if p.started {
		return nil
	}
	c := p.canvas
	c.DefaultCursor = canvas.CursorCrosshair
	c.Selection = false
	c.SetActive(nil)
	c.ForEachObject(func(o canvas.Object) { o.SetEvented(false) })

	p.listeners[canvas.EventMouseDown] = c.On(canvas.EventMouseDown, p.onMouseDown)
	if p.variant == VariantLoop {
		p.listeners[canvas.EventMouseMove] = c.On(canvas.EventMouseMove, p.onMouseMove)
		p.listeners[canvas.EventMouseDblClick] = c.On(canvas.EventMouseDblClick, p.onDoubleClick)
	}
	p.started = true
	return nil
}

// End stops listening, discards an unfinished polygon and gives the
// canvas back its default cursor, selection and evented objects. Calling
// End on a stopped tool does nothing.
func (p *Polygon) End() {
	if !p.started {
		return
	}
	c := p.canvas
	for ev, id := range p.listeners {
		c.Off(ev, id)
		delete(p.listeners, ev)
	}
	p.discard()
	c.DefaultCursor = canvas.CursorDefault
	c.Selection = true
	c.ForEachObject(func(o canvas.Object) { o.SetEvented(true) })
	p.started = false
	c.RenderAll()
}

// Cancel drops the pending polygon and its aids.
func (p *Polygon) Cancel() {
	p.discard()
	p.canvas.RenderAll()
}

func (p *Polygon) onMouseDown(e canvas.PointerEvent) {
	if e.Target != nil && len(p.markers) > 0 && e.Target == canvas.Object(p.markers[0]) {
		if err := p.finalize(false); err != nil {
			log.Printf("polygon: %v", err)
		}
		return
	}
	p.addPoint(e.Pointer)
}

func (p *Polygon) onMouseMove(e canvas.PointerEvent) {
	if p.activeLine == nil {
		return
	}
	p.activeLine.P2 = e.Pointer
	p.canvas.RenderAll()
}

func (p *Polygon) onDoubleClick(canvas.PointerEvent) {
	if p.state != StateCollecting {
		return
	}
	if err := p.finalize(true); err != nil {
		log.Printf("polygon: %v", err)
	}
}

func (p *Polygon) addPoint(pt canvas.Point) {
	if p.state == StateIdle {
		if err := p.transition(StateCollecting); err != nil {
			log.Printf("%v", err)
			return
		}
	}
	c := p.canvas
	p.idCounter++

	marker := canvas.NewMarker(fmt.Sprintf("marker-%d", p.idCounter), pt, p.style.MarkerRadius)
	marker.Fill = p.style.MarkerFill
	if len(p.markers) == 0 {
		marker.Fill = p.style.FirstMarkerFill
	}
	marker.Stroke = p.style.MarkerStroke
	marker.StrokeWidth = markerStrokeWidth

	if p.activeLine != nil {
		p.activeLine.P2 = pt
	}
	line := canvas.NewLine(fmt.Sprintf("guide-%d", p.idCounter), pt, pt)
	line.Stroke = p.style.GuideStroke
	line.StrokeWidth = guideStrokeWidth

	p.points = append(p.points, pt)
	preview := canvas.NewPolygon("preview", p.points)
	preview.Fill = p.color
	preview.Stroke = p.style.PreviewStroke
	preview.StrokeWidth = previewStrokeWidth
	preview.SetEvented(false)
	c.Remove(p.preview)
	c.Add(preview)
	p.preview = preview

	p.activeLine = line
	p.markers = append(p.markers, marker)
	p.lines = append(p.lines, line)
	c.Add(line, marker)
	c.RenderAll()
}

// Finalize closes the pending polygon as if its first marker was clicked.
func (p *Polygon) Finalize() error { return p.finalize(false) }

// finalize builds the shape, removes the aids and emits addObject. A ring
// repeats the first point at the end and offsets by the absolute minimum.
func (p *Polygon) finalize(ring bool) error {
	if len(p.points) < 3 {
		return fmt.Errorf("finalize with %d points: %w", len(p.points), ErrTooFewPoints)
	}
	pts := append([]canvas.Point(nil), p.points...)
	if ring {
		pts = append(pts, pts[0])
	}
	shape := canvas.NewPolygon(p.newID(), pts)
	lo, _ := shape.Bounds()
	shape.Left, shape.Top = lo.X, lo.Y
	if ring {
		shape.Left, shape.Top = math.Abs(lo.X), math.Abs(lo.Y)
	}
	shape.Fill = p.color
	shape.Stroke = p.style.ShapeStroke
	shape.StrokeWidth = p.width
	// Shapes stay inert while a tool is active, like every other object.
	shape.SetEvented(false)

	if err := p.transition(StateClosed); err != nil {
		return err
	}
	p.removeAids()
	p.canvas.Add(shape)
	if p.emit != nil {
		p.emit(Event{Name: EventAddObject, Object: shape, Props: canvas.PropsOf(shape)})
	}
	p.reset()
	p.canvas.RenderAll()
	return nil
}

func (p *Polygon) removeAids() {
	c := p.canvas
	for _, m := range p.markers {
		c.Remove(m)
	}
	for _, l := range p.lines {
		c.Remove(l)
	}
	c.Remove(p.preview)
}

func (p *Polygon) discard() {
	p.removeAids()
	p.reset()
}

func (p *Polygon) reset() {
	p.points = nil
	p.markers = nil
	p.lines = nil
	p.activeLine = nil
	p.preview = nil
	if p.state != StateIdle {
		if err := p.transition(StateIdle); err != nil {
			log.Printf("%v", err)
		}
	}
}

func asPolygon(target canvas.Object) (*canvas.Polygon, error) {
	poly, ok := target.(*canvas.Polygon)
	if !ok || poly == nil {
		return nil, fmt.Errorf("target %T is not a polygon", target)
	}
	return poly, nil
}

// SetColor fills target with color at FillAlpha and redraws.
func (p *Polygon) SetColor(color string, target canvas.Object) error {
	poly, err := asPolygon(target)
	if err != nil {
		return err
	}
	c, err := colorspec.Parse(color)
	if err != nil {
		return err
	}
	poly.Fill = c.WithAlpha(FillAlpha)
	p.canvas.RenderAll()
	return nil
}

// RestoreColor sets target's fill exactly as given.
func (p *Polygon) RestoreColor(color string, target canvas.Object) error {
	poly, err := asPolygon(target)
	if err != nil {
		return err
	}
	c, err := colorspec.Parse(color)
	if err != nil {
		return err
	}
	poly.Fill = c
	p.canvas.RenderAll()
	return nil
}

// Color returns target's fill, or "" when target is not a polygon.
func (p *Polygon) Color(target canvas.Object) string {
	poly, err := asPolygon(target)
	if err != nil {
		return ""
	}
	return poly.Fill.String()
}
