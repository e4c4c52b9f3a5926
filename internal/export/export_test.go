package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/polyshot/internal/canvas"
	"github.com/example/polyshot/internal/colorspec"
)

func triangleCanvas() (*canvas.Canvas, *canvas.Polygon) {
	c := canvas.New(40, 30)
	p := canvas.NewPolygon("t", []canvas.Point{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 0, Y: 30}})
	p.Fill = colorspec.Color{R: 255, A: 0.5}
	p.Stroke = colorspec.Color{A: 1}
	p.StrokeWidth = 2
	c.Add(p)
	return c, p
}

func TestWritePDF(t *testing.T) {
	c, p := triangleCanvas()
	var buf bytes.Buffer
	if err := WritePDF(&buf, c, []canvas.Object{p}, PDFOptions{Title: "shapes"}); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "%PDF-") {
		t.Fatalf("missing PDF header: %q", out[:min(len(out), 16)])
	}
	if !strings.Contains(out, "/ExtGState") {
		t.Fatal("fill alpha not written")
	}
	if !strings.Contains(out, " f") || !strings.Contains(out, " S") {
		t.Fatal("expected fill and stroke operators")
	}
}

func TestWritePDFWithBackground(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 50, 20))
	bg.Set(0, 0, color.White)
	c := canvas.New(0, 0, canvas.WithBackground(bg))
	var buf bytes.Buffer
	if err := WritePDF(&buf, c, nil, PDFOptions{}); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !strings.Contains(buf.String(), "/Subtype /Image") {
		t.Fatal("background image not embedded")
	}
}

func TestWritePDFEmptyCanvas(t *testing.T) {
	if err := WritePDF(&bytes.Buffer{}, canvas.New(0, 10), nil, PDFOptions{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestSavePNG(t *testing.T) {
	c, _ := triangleCanvas()
	path := filepath.Join(t.TempDir(), "out.png")
	if err := SavePNG(path, Raster(c, canvas.Style{})); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	img := Raster(c, canvas.Style{})
	if err := WritePNG(&buf, img); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds().Dx() != 40 || decoded.Bounds().Dy() != 30 {
		t.Fatalf("bounds = %v", decoded.Bounds())
	}
}
