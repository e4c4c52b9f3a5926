package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Vertex is a point in destination pixel space.
type Vertex struct{ X, Y float64 }

func blendPixel(img *image.RGBA, x, y int, col color.Color) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	if _, _, _, a := col.RGBA(); a == 0xffff {
		img.Set(x, y, col)
		return
	}
	draw.Draw(img, image.Rect(x, y, x+1, y+1), image.NewUniform(col), image.Point{}, draw.Over)
}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			blendPixel(img, x+dx, y+dy, col)
		}
	}
}

// Line draws a Bresenham line of the given thickness.
func Line(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FilledCircle fills the disc centred at (cx, cy).
func FilledCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				blendPixel(img, cx+dx, cy+dy, col)
			}
		}
	}
}

// Circle outlines a circle using the midpoint algorithm.
func Circle(img *image.RGBA, cx, cy, r int, col color.Color) {
	x := r
	y := 0
	err := 1 - r
	for x >= y {
		pts := [][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}}
		for _, p := range pts {
			blendPixel(img, cx+p[0], cy+p[1], col)
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

// FillPolygon rasterises the closed polygon through pts with anti-aliasing
// and composites it over img.
func FillPolygon(img *image.RGBA, pts []Vertex, col color.Color) {
	if len(pts) < 3 {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	ox, oy := float32(b.Min.X), float32(b.Min.Y)
	z.MoveTo(float32(pts[0].X)-ox, float32(pts[0].Y)-oy)
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X)-ox, float32(p.Y)-oy)
	}
	z.ClosePath()
	z.Draw(img, b, image.NewUniform(col), image.Point{})
}

// StrokePolygon outlines the closed polygon through pts.
func StrokePolygon(img *image.RGBA, pts []Vertex, col color.Color, thick int) {
	if len(pts) < 2 {
		return
	}
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		Line(img, round(a.X), round(a.Y), round(b.X), round(b.Y), col, thick)
	}
}

// Checkerboard fills rect of dst with a checkerboard pattern.
func Checkerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func round(v float64) int { return int(math.Round(v)) }
