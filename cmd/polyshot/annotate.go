package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/polyshot/internal/appstate"
	"github.com/example/polyshot/internal/canvas"
	"github.com/example/polyshot/internal/feed"
	"github.com/example/polyshot/internal/graphics"
	"github.com/example/polyshot/internal/theme"
)

// annotateCmd opens the annotation window.
type annotateCmd struct {
	src       source
	output    string
	pdf       string
	tool      string
	color     string
	width     float64
	feedAddr  string
	advertise bool
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.src.file, "file", "", "PNG image to annotate")
	fs.BoolVar(&a.src.fromClipboard, "from-clipboard", false, "annotate the image on the clipboard")
	fs.StringVar(&a.src.size, "size", "800x600", "blank canvas size when no image is given")
	fs.StringVar(&a.output, "output", "annotated.png", "PNG written by Ctrl+S")
	fs.StringVar(&a.pdf, "pdf", "", "PDF written by Ctrl+E (defaults to the output name with .pdf)")
	fs.StringVar(&a.tool, "tool", "", "initial tool: select, polygon or loop (defaults to the configured variant)")
	fs.StringVar(&a.color, "color", "", "fill color for new polygons")
	fs.Float64Var(&a.width, "width", 0, "outline width for new polygons")
	fs.StringVar(&a.feedAddr, "feed", "", "serve shape events over websocket on this address, e.g. :7733")
	fs.BoolVar(&a.advertise, "advertise", false, "announce the feed over mDNS (requires -feed)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: a}
	}
	if a.src.fromClipboard && a.src.file != "" {
		return nil, fmt.Errorf("-file and -from-clipboard are mutually exclusive")
	}
	if a.advertise && a.feedAddr == "" {
		return nil, fmt.Errorf("-advertise requires -feed")
	}
	if a.tool != "" {
		if _, err := appstate.ParseTool(a.tool); err != nil {
			return nil, err
		}
	}
	if a.pdf == "" {
		a.pdf = strings.TrimSuffix(a.output, filepath.Ext(a.output)) + ".pdf"
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	bg, err := a.src.load()
	if err != nil {
		return err
	}
	cfg := a.root.config

	var st *appstate.AppState
	ws, err := newWorkspace(workspaceOptions{
		background: bg,
		theme:      a.root.activeTheme,
		polygon:    cfg.Polygon,
		output:     outputPath(cfg, a.output),
		pdf:        outputPath(cfg, a.pdf),
		color:      a.color,
		width:      a.width,
		invalidate: func() {
			if st != nil {
				st.NotifyChanged()
			}
		},
		session: []appstate.SessionOption{appstate.WithNotifier(a.root.notifier)},
	})
	if err != nil {
		return err
	}

	tool := initialTool(cfg.Polygon.Variant)
	if a.tool != "" {
		tool, _ = appstate.ParseTool(a.tool)
	}
	title := "blank"
	if a.src.file != "" {
		title = filepath.Base(a.src.file)
	} else if a.src.fromClipboard {
		title = "clipboard"
	}

	var hub *feed.Hub
	if a.feedAddr != "" {
		hub, err = a.startFeed(ws.graphic)
		if err != nil {
			return err
		}
		defer hub.Close()
	}

	st = appstate.New(ws.session,
		appstate.WithTheme(a.root.activeTheme),
		appstate.WithTitle(title),
		appstate.WithTool(tool),
	)
	if path := a.root.themePath; path != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := theme.Watch(ctx, path, st.SetTheme); err != nil {
				log.Printf("theme watch: %v", err)
			}
		}()
	}
	st.Run()
	return nil
}

// startFeed serves shape events and, when asked, announces them. New
// clients are sent the shapes tracked by an index, since the canvas itself
// belongs to the window goroutine.
func (a *annotateCmd) startFeed(g *graphics.Graphics) (*feed.Hub, error) {
	shapes := feed.NewIndex()
	hub := feed.NewHub(feed.WithSnapshot(shapes.List))
	for _, ev := range []string{graphics.EventAddObject, graphics.EventObjectChanged, graphics.EventObjectRemoved} {
		g.On(ev, func(event string, props canvas.Props) {
			shapes.Apply(event, props)
			hub.Publish(event, props)
		})
	}

	ln, err := net.Listen("tcp", a.feedAddr)
	if err != nil {
		return nil, fmt.Errorf("feed listen: %w", err)
	}
	go func() {
		if err := hub.Serve(ln, nil); err != nil && !errors.Is(err, feed.ErrClosed) {
			log.Printf("feed: %v", err)
		}
	}()
	fmt.Fprintf(os.Stderr, "feed at ws://%s/feed\n", ln.Addr())

	if a.advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		adv, err := feed.Advertise("", port, "program="+a.root.program)
		if err != nil {
			log.Printf("advertise feed: %v", err)
			return hub, nil
		}
		go func() {
			<-hub.Done()
			if err := adv.Shutdown(); err != nil {
				log.Printf("mdns shutdown: %v", err)
			}
		}()
	}
	return hub, nil
}
