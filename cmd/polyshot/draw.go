package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/polyshot/internal/appstate"
	"github.com/example/polyshot/internal/canvas"
)

// drawCmd replays a polygon onto an image without opening a window.
type drawCmd struct {
	src         source
	output      string
	pdf         string
	color       string
	width       float64
	loop        bool
	recolor     string
	undo        bool
	toClipboard bool
	json        bool
	points      []canvas.Point
	stdout      io.Writer
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.src.file, "file", "", "PNG image to draw on")
	fs.BoolVar(&d.src.fromClipboard, "from-clipboard", false, "draw on the image on the clipboard")
	fs.StringVar(&d.src.size, "size", "800x600", "blank canvas size when no image is given")
	fs.StringVar(&d.output, "output", "", "write the result as PNG")
	fs.StringVar(&d.pdf, "pdf", "", "write the result as PDF")
	fs.StringVar(&d.color, "color", "", "fill color")
	fs.Float64Var(&d.width, "width", 0, "outline width")
	fs.BoolVar(&d.loop, "loop", false, "close with a double click instead of the first point")
	fs.StringVar(&d.recolor, "recolor", "", "recolor the finished polygon")
	fs.BoolVar(&d.undo, "undo", false, "undo the recolor afterwards")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.json, "json", false, "print the shapes as JSON")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 0 {
		return nil, &UsageError{of: d}
	}
	if d.src.fromClipboard && d.src.file != "" {
		return nil, fmt.Errorf("-file and -from-clipboard are mutually exclusive")
	}
	if d.undo && d.recolor == "" {
		return nil, fmt.Errorf("-undo requires -recolor")
	}
	if d.output == "" && d.pdf == "" && !d.toClipboard && !d.json {
		return nil, fmt.Errorf("nothing to do: give -output, -pdf, -to-clipboard or -json")
	}
	pts, err := parsePoints(fs.Args())
	if err != nil {
		return nil, err
	}
	if len(pts) < 3 {
		return nil, fmt.Errorf("a polygon needs at least 3 points, got %d", len(pts))
	}
	d.points = pts
	return d, nil
}

// parsePoints reads X,Y pairs.
func parsePoints(args []string) ([]canvas.Point, error) {
	pts := make([]canvas.Point, 0, len(args))
	for _, arg := range args {
		xs, ys, ok := strings.Cut(arg, ",")
		if !ok {
			return nil, fmt.Errorf("invalid point %q, want X,Y", arg)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", arg, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", arg, err)
		}
		pts = append(pts, canvas.Point{X: x, Y: y})
	}
	return pts, nil
}

// stepClock hands out times far enough apart that consecutive presses are
// never merged into a double click unless hold is set.
type stepClock struct {
	t    time.Time
	hold bool
}

func (s *stepClock) now() time.Time {
	if !s.hold {
		s.t = s.t.Add(time.Second)
	}
	return s.t
}

func (d *drawCmd) Run() error {
	bg, err := d.src.load()
	if err != nil {
		return err
	}
	cfg := d.root.config
	clock := &stepClock{t: time.Unix(0, 0)}
	ws, err := newWorkspace(workspaceOptions{
		background: bg,
		theme:      d.root.activeTheme,
		polygon:    cfg.Polygon,
		output:     outputPath(cfg, d.output),
		pdf:        outputPath(cfg, d.pdf),
		color:      d.color,
		width:      d.width,
		clock:      clock.now,
		session:    []appstate.SessionOption{appstate.WithNotifier(d.root.notifier)},
	})
	if err != nil {
		return err
	}
	sess := ws.session

	tool := appstate.ToolPolygon
	if d.loop {
		tool = appstate.ToolLoop
	}
	if err := sess.SelectTool(tool); err != nil {
		return err
	}
	c := ws.canvas
	for _, p := range d.points {
		c.Press(p)
		c.Release(p)
	}
	if d.loop {
		last := d.points[len(d.points)-1]
		clock.hold = true
		c.Press(last)
		c.Release(last)
		clock.hold = false
	} else {
		first := d.points[0]
		c.Press(first)
		c.Release(first)
	}
	if sess.Collecting() > 0 {
		if err := sess.Finish(); err != nil {
			return err
		}
	}

	if err := sess.SelectTool(appstate.ToolSelect); err != nil {
		return err
	}
	if d.recolor != "" {
		objs := ws.graphic.Objects()
		if len(objs) == 0 {
			return fmt.Errorf("recolor: no polygon was drawn")
		}
		idx, err := paletteIndex(d.recolor)
		if err != nil {
			return fmt.Errorf("recolor: %w", err)
		}
		c.SetActive(objs[len(objs)-1])
		if err := sess.SetColorIndex(idx); err != nil {
			return err
		}
		if d.undo {
			if err := sess.Undo(); err != nil {
				return err
			}
		}
		sess.Cancel()
	}

	if d.output != "" {
		path, err := sess.Save()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", path)
	}
	if d.pdf != "" {
		path, err := sess.ExportPDF()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported %s\n", path)
	}
	if d.toClipboard {
		if err := sess.CopyImage(); err != nil {
			return err
		}
	}
	if d.json {
		data, err := sess.ShapesJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(d.stdout, string(data))
	}
	return nil
}
