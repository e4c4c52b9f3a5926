// Package export writes annotated canvases as PNG rasters or PDF vectors.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/polyshot/internal/canvas"
)

// Raster renders c at canvas scale.
func Raster(c *canvas.Canvas, st canvas.Style) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	c.Render(img, st)
	return img
}

// WritePNG encodes img.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PDFOptions controls WritePDF.
type PDFOptions struct {
	Title string
	// Compress deflates page streams. Tests turn it off to inspect output.
	Compress bool
}

// WritePDF writes a single page the size of the canvas: the background
// image, if any, and every polygon in shapes as a vector path.
func WritePDF(w io.Writer, c *canvas.Canvas, shapes []canvas.Object, opts PDFOptions) error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("export pdf: empty canvas %dx%d", c.Width, c.Height)
	}
	wd, ht := float64(c.Width), float64(c.Height)
	// Portrait keeps Size as given; "L" would swap width and height.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetCompression(opts.Compress)
	pdf.SetCreator("polyshot", true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	if c.Background != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, c.Background); err != nil {
			return fmt.Errorf("export pdf background: %w", err)
		}
		imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("background", imgOpts, &buf)
		pdf.ImageOptions("background", 0, 0, wd, ht, false, imgOpts, 0, "")
	}

	pdf.SetLineJoinStyle("round")
	for _, obj := range shapes {
		poly, ok := obj.(*canvas.Polygon)
		if !ok || len(poly.Points) < 3 {
			continue
		}
		pts := make([]gofpdf.PointType, len(poly.Points))
		for i, p := range poly.Points {
			pts[i] = gofpdf.PointType{X: p.X, Y: p.Y}
		}
		fill := poly.Fill.NRGBA()
		pdf.SetAlpha(poly.Fill.A, "Normal")
		pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
		pdf.Polygon(pts, "F")
		if poly.StrokeWidth > 0 {
			stroke := poly.Stroke.NRGBA()
			pdf.SetAlpha(poly.Stroke.A, "Normal")
			pdf.SetDrawColor(int(stroke.R), int(stroke.G), int(stroke.B))
			pdf.SetLineWidth(poly.StrokeWidth)
			pdf.Polygon(pts, "D")
		}
	}
	pdf.SetAlpha(1, "Normal")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	return nil
}

// SavePDF writes the PDF to path.
func SavePDF(path string, c *canvas.Canvas, shapes []canvas.Object, opts PDFOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePDF(f, c, shapes, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
