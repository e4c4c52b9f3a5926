package canvas

import (
	"math"

	"github.com/example/polyshot/internal/colorspec"
)

// Point is a position in canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Object kinds reported by Object.Kind and Props.Type.
const (
	KindMarker  = "circle"
	KindLine    = "line"
	KindPolygon = "polygon"
)

// Object is anything the canvas can hold and hit-test.
type Object interface {
	ID() string
	Kind() string
	Evented() bool
	SetEvented(bool)
	Contains(Point) bool
}

type base struct {
	id      string
	evented bool
}

func (b *base) ID() string        { return b.id }
func (b *base) Evented() bool     { return b.evented }
func (b *base) SetEvented(v bool) { b.evented = v }

// Marker is a circle centred on a point.
type Marker struct {
	base
	Center      Point
	Radius      float64
	Fill        colorspec.Color
	Stroke      colorspec.Color
	StrokeWidth float64
}

// NewMarker returns an evented marker.
func NewMarker(id string, center Point, radius float64) *Marker {
	return &Marker{base: base{id: id, evented: true}, Center: center, Radius: radius}
}

func (m *Marker) Kind() string { return KindMarker }

// Contains reports whether p lies within the marker's radius.
func (m *Marker) Contains(p Point) bool {
	return math.Hypot(p.X-m.Center.X, p.Y-m.Center.Y) <= m.Radius
}

// Line is a straight segment. Lines never receive pointer events.
type Line struct {
	base
	P1, P2      Point
	Stroke      colorspec.Color
	StrokeWidth float64
}

// NewLine returns a non-evented line.
func NewLine(id string, p1, p2 Point) *Line {
	return &Line{base: base{id: id}, P1: p1, P2: p2}
}

func (l *Line) Kind() string        { return KindLine }
func (l *Line) Contains(Point) bool { return false }

// Polygon is a filled, closed outline. Points are absolute canvas
// coordinates; Left and Top hold the bounding offset of the shape.
type Polygon struct {
	base
	Points      []Point
	Left, Top   float64
	Fill        colorspec.Color
	Stroke      colorspec.Color
	StrokeWidth float64
}

// NewPolygon returns an evented polygon over a copy of pts.
func NewPolygon(id string, pts []Point) *Polygon {
	cp := make([]Point, len(pts))
	copy(cp, pts)
	return &Polygon{base: base{id: id, evented: true}, Points: cp}
}

func (p *Polygon) Kind() string { return KindPolygon }

// Bounds returns the minimum and maximum corners of the points.
func (p *Polygon) Bounds() (lo, hi Point) {
	if len(p.Points) == 0 {
		return Point{}, Point{}
	}
	lo, hi = p.Points[0], p.Points[0]
	for _, pt := range p.Points[1:] {
		lo.X = math.Min(lo.X, pt.X)
		lo.Y = math.Min(lo.Y, pt.Y)
		hi.X = math.Max(hi.X, pt.X)
		hi.Y = math.Max(hi.Y, pt.Y)
	}
	return lo, hi
}

// Contains uses the even-odd rule.
func (p *Polygon) Contains(pt Point) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	in := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.Points[i], p.Points[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) &&
			pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// Props is the serialisable description of an object handed to event
// subscribers.
type Props struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Left        float64 `json:"left"`
	Top         float64 `json:"top"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth"`
	Points      []Point `json:"points,omitempty"`
}

// PropsOf derives the properties of obj.
func PropsOf(obj Object) Props {
	switch o := obj.(type) {
	case *Polygon:
		lo, hi := o.Bounds()
		pts := make([]Point, len(o.Points))
		copy(pts, o.Points)
		return Props{
			ID:          o.ID(),
			Type:        KindPolygon,
			Left:        o.Left,
			Top:         o.Top,
			Width:       hi.X - lo.X,
			Height:      hi.Y - lo.Y,
			Fill:        o.Fill.String(),
			Stroke:      o.Stroke.String(),
			StrokeWidth: o.StrokeWidth,
			Points:      pts,
		}
	case *Marker:
		return Props{
			ID:          o.ID(),
			Type:        KindMarker,
			Left:        o.Center.X - o.Radius,
			Top:         o.Center.Y - o.Radius,
			Width:       2 * o.Radius,
			Height:      2 * o.Radius,
			Fill:        o.Fill.String(),
			Stroke:      o.Stroke.String(),
			StrokeWidth: o.StrokeWidth,
		}
	case *Line:
		return Props{
			ID:          o.ID(),
			Type:        KindLine,
			Left:        math.Min(o.P1.X, o.P2.X),
			Top:         math.Min(o.P1.Y, o.P2.Y),
			Width:       math.Abs(o.P2.X - o.P1.X),
			Height:      math.Abs(o.P2.Y - o.P1.Y),
			Stroke:      o.Stroke.String(),
			StrokeWidth: o.StrokeWidth,
			Points:      []Point{o.P1, o.P2},
		}
	}
	return Props{ID: obj.ID(), Type: obj.Kind()}
}
