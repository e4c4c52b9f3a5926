package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/polyshot/internal/render"
)

// Style controls how Render paints the parts that are not objects.
type Style struct {
	CheckerLight color.Color
	CheckerDark  color.Color
	Selection    color.Color
}

// DefaultStyle is used for zero Style fields.
var DefaultStyle = Style{
	CheckerLight: color.RGBA{0xcc, 0xcc, 0xcc, 0xff},
	CheckerDark:  color.RGBA{0x99, 0x99, 0x99, 0xff},
	Selection:    color.RGBA{0x00, 0x78, 0xd7, 0xff},
}

// Render paints the canvas into dst at canvas scale, bottom object first.
func (c *Canvas) Render(dst *image.RGBA, st Style) {
	if st.CheckerLight == nil {
		st.CheckerLight = DefaultStyle.CheckerLight
	}
	if st.CheckerDark == nil {
		st.CheckerDark = DefaultStyle.CheckerDark
	}
	if st.Selection == nil {
		st.Selection = DefaultStyle.Selection
	}
	render.Checkerboard(dst, dst.Bounds(), 8, st.CheckerLight, st.CheckerDark)
	if c.Background != nil {
		draw.Draw(dst, dst.Bounds(), c.Background, c.Background.Bounds().Min, draw.Over)
	}
	for _, o := range c.objects {
		drawObject(dst, o)
	}
	if p, ok := c.active.(*Polygon); ok && c.Contains(p) {
		render.StrokePolygon(dst, vertices(p.Points), st.Selection, 2)
	}
}

func drawObject(dst *image.RGBA, o Object) {
	switch v := o.(type) {
	case *Polygon:
		pts := vertices(v.Points)
		render.FillPolygon(dst, pts, v.Fill.NRGBA())
		if v.StrokeWidth > 0 {
			render.StrokePolygon(dst, pts, v.Stroke.NRGBA(), thickness(v.StrokeWidth))
		}
	case *Line:
		render.Line(dst, iround(v.P1.X), iround(v.P1.Y), iround(v.P2.X), iround(v.P2.Y), v.Stroke.NRGBA(), thickness(v.StrokeWidth))
	case *Marker:
		cx, cy, r := iround(v.Center.X), iround(v.Center.Y), iround(v.Radius)
		render.FilledCircle(dst, cx, cy, r, v.Fill.NRGBA())
		if v.StrokeWidth > 0 {
			render.Circle(dst, cx, cy, r, v.Stroke.NRGBA())
		}
	}
}

func vertices(pts []Point) []render.Vertex {
	out := make([]render.Vertex, len(pts))
	for i, p := range pts {
		out[i] = render.Vertex{X: p.X, Y: p.Y}
	}
	return out
}

func thickness(w float64) int {
	if w < 1 {
		return 1
	}
	return iround(w)
}

func iround(v float64) int { return int(math.Round(v)) }
