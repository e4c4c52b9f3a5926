package appstate

import (
	"context"
	"image"
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/polyshot/internal/theme"
)

// AppState holds the window configuration around a Session.
type AppState struct {
	Session *Session
	Theme   *theme.Theme
	Title   string
	Tool    Tool

	updateCh chan struct{}
	themeCh  chan *theme.Theme

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithTheme sets the window colors.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithTitle shows title in the header bar.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithTool selects the tool active when the window opens.
func WithTool(t Tool) Option { return func(a *AppState) { a.Tool = t } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState driving s.
func New(s *Session, opts ...Option) *AppState {
	a := &AppState{
		Session:  s,
		Theme:    theme.Default(),
		updateCh: make(chan struct{}, 1),
		themeCh:  make(chan *theme.Theme, 1),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// NotifyChanged requests a repaint. It is safe to call from any goroutine
// and is what the canvas invalidate hook should call.
func (a *AppState) NotifyChanged() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

// themeEvent carries a replacement theme onto the event loop.
type themeEvent struct{ theme *theme.Theme }

// SetTheme swaps the window colors. Like NotifyChanged it may be called from
// any goroutine; only the latest pending theme is kept.
func (a *AppState) SetTheme(t *theme.Theme) {
	if t == nil {
		return
	}
	for {
		select {
		case a.themeCh <- t:
			return
		default:
		}
		select {
		case <-a.themeCh:
		default:
		}
	}
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the window on s until it is closed.
func (a *AppState) Main(s screen.Screen) {
	sess := a.Session
	g := sess.Graphics()
	c := g.Canvas()
	th := a.Theme

	// Ensure the toolbar is wide enough to fit every tool label.
	d := &font.Drawer{Face: basicfont.Face7x13}
	widest := d.MeasureString("Polyshot").Ceil() + 8
	for _, tl := range toolLabels {
		if w := d.MeasureString(tl.label).Ceil() + 8; w > widest {
			widest = w
		}
	}
	if widest > toolbarWidth {
		toolbarWidth = widest
	}

	width := c.Width + toolbarWidth
	height := c.Height + tabHeight + bottomHeight
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "polyshot"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case t := <-a.themeCh:
				w.Send(themeEvent{theme: t})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	zoom := fitZoom(c.Width, c.Height, width, height)
	if zoom > 1 {
		zoom = 1
	}
	applyView := func() {
		c.View.Origin = canvasOrigin()
		c.View.Zoom = zoom
	}
	applyView()

	var (
		paintMu     sync.Mutex
		paintCancel context.CancelFunc
		dropCount   int
		frame       *image.RGBA
		frameGen    uint64
		haveFrame   bool
	)
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	ui := newLayout()
	actions := map[string]func(){}
	keyboardAction := map[KeyShortcut]string{}
	register := func(name string, keys KeyboardShortcuts, fn func()) {
		actions[name] = fn
		if keys != nil {
			for _, sc := range keys.KeyboardShortcuts() {
				keyboardAction[sc] = name
			}
		}
	}
	report := func(action string, err error) {
		if err != nil {
			log.Printf("%s: %v", action, err)
		}
	}

	quit := false
	selectTool := func(t Tool) {
		report("tool", sess.SelectTool(t))
	}
	for _, tl := range toolLabels {
		t := tl.tool
		tb := &ToolButton{label: tl.label, tool: t, onSelect: func() { selectTool(t) }}
		ui.tools = append(ui.tools, &CacheButton{Button: tb})
		register("tool:"+t.String(), shortcutList{{Rune: []rune(tl.label)[0] + ('a' - 'A')}}, func() { selectTool(t) })
	}
	register("undo", shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, func() { report("undo", sess.Undo()) })
	register("redo", shortcutList{
		{Rune: 'y', Modifiers: key.ModControl},
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
	}, func() { report("redo", sess.Redo()) })
	register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		_, err := sess.Save()
		report("save", err)
	})
	register("export", shortcutList{{Rune: 'e', Modifiers: key.ModControl}}, func() {
		_, err := sess.ExportPDF()
		report("export", err)
	})
	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() { report("copy", sess.CopyImage()) })
	register("copyshapes", shortcutList{{Rune: 'c', Modifiers: key.ModControl | key.ModShift}}, func() {
		report("copy shapes", sess.CopyShapes())
	})
	register("finish", shortcutList{{Code: key.CodeReturnEnter}}, func() { report("finish", sess.Finish()) })
	register("cancel", shortcutList{{Code: key.CodeEscape}}, sess.Cancel)
	register("delete", shortcutList{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace}}, func() {
		if sess.Tool() == ToolSelect {
			report("delete", sess.DeleteSelected())
		}
	})
	register("zoomin", shortcutList{{Rune: '+'}, {Rune: '='}}, func() { zoom *= 1.25; applyView() })
	register("zoomout", shortcutList{{Rune: '-'}}, func() {
		zoom /= 1.25
		if zoom < 0.1 {
			zoom = 0.1
		}
		applyView()
	})
	register("zoomfit", shortcutList{{Rune: '0'}}, func() { zoom = fitZoom(c.Width, c.Height, width, height); applyView() })
	register("quit", shortcutList{{Rune: 'q'}}, func() { quit = true })

	handleShortcut := func(action string) {
		if fn, ok := actions[action]; ok {
			fn()
		}
		w.Send(paint.Event{})
	}

	selectTool(a.Tool)
	ui.placeToolbar()

	for {
		if quit {
			stopPaint()
			return
		}
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case themeEvent:
			th = e.theme
			a.Theme = th
			sess.SetCanvasStyle(th.CanvasStyle())
			w.Send(paint.Event{})
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			// The canvas is only touched here on the event loop.
			if !haveFrame || frameGen != c.Generation() {
				frame = sess.Render()
				frameGen = c.Generation()
				haveFrame = true
			}
			ui.placeShortcuts(width, height, sess.Tool(), sess.Collecting() > 0, zoom, handleShortcut)
			tools, shortcuts, pal, wid := ui.snapshot()
			msg, _ := sess.Message()
			st := paintState{
				width:         width,
				height:        height,
				theme:         th,
				title:         a.Title,
				canvas:        frame,
				zoom:          zoom,
				tool:          sess.Tool(),
				colorIdx:      sess.ColorIndex(),
				widthIdx:      sess.WidthIndex(),
				collecting:    sess.Collecting(),
				tools:         tools,
				shortcuts:     shortcuts,
				palette:       pal,
				widths:        wid,
				hoverTool:     ui.hoverTool,
				hoverPalette:  ui.hoverPalette,
				hoverWidth:    ui.hoverWidth,
				hoverShortcut: ui.hoverShortcut,
				message:       msg,
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			a.handleMouse(e, ui, width, height)
		case key.Event:
			if e.Direction == key.DirRelease {
				continue
			}
			if name, ok := keyboardAction[shortcutOf(e)]; ok {
				handleShortcut(name)
			}
		}
	}
}

// handleMouse hit tests the chrome and forwards the rest to the session.
func (a *AppState) handleMouse(e mouse.Event, ui *layout, width, height int) {
	sess := a.Session
	press := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress
	p := image.Pt(int(e.X), int(e.Y))
	repaint := func() { a.NotifyChanged() }

	if _, fresh := sess.Message(); fresh && press {
		sess.DismissMessage()
		repaint()
		return
	}
	if p.Y >= height-bottomHeight {
		ui.hoverShortcut = -1
		for i := range ui.shortcuts {
			if p.In(ui.shortcuts[i].rect) {
				ui.hoverShortcut = i
				if press {
					ui.shortcuts[i].Activate()
				}
				break
			}
		}
		repaint()
		return
	}
	if p.Y < tabHeight {
		return
	}
	if p.X < toolbarWidth {
		ui.clearHover()
		for i, cb := range ui.tools {
			if p.In(cb.Rect()) {
				ui.hoverTool = i
				if press {
					cb.Activate()
				}
			}
		}
		for i, r := range ui.palette {
			if p.In(r) {
				ui.hoverPalette = i
				if press {
					if err := sess.SetColorIndex(i); err != nil {
						log.Printf("color: %v", err)
					}
				}
			}
		}
		for i, r := range ui.widths {
			if p.In(r) {
				ui.hoverWidth = i
				if press {
					if err := sess.SetWidthIndex(i); err != nil {
						log.Printf("width: %v", err)
					}
				}
			}
		}
		repaint()
		return
	}
	if ui.hoverTool >= 0 || ui.hoverPalette >= 0 || ui.hoverWidth >= 0 || ui.hoverShortcut >= 0 {
		ui.clearHover()
		repaint()
	}
	sess.HandleMouse(e)
}
