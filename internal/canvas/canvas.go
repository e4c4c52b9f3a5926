// Package canvas holds the drawable objects of an annotation session and
// routes pointer input to registered listeners.
package canvas

import (
	"image"
	"math"
	"time"

	"golang.org/x/mobile/event/mouse"
)

// Pointer event names.
const (
	EventMouseDown     = "mouse:down"
	EventMouseMove     = "mouse:move"
	EventMouseUp       = "mouse:up"
	EventMouseDblClick = "mouse:dblclick"
)

// Cursor names stored in DefaultCursor.
const (
	CursorDefault   = "default"
	CursorCrosshair = "crosshair"
)

// DoubleClickInterval is the default longest gap between two presses that
// still counts as a double click.
const DoubleClickInterval = 300 * time.Millisecond

const doubleClickSlop = 4.0

// PointerEvent is delivered to listeners.
type PointerEvent struct {
	Pointer Point
	Target  Object
}

// Handler receives pointer events.
type Handler func(PointerEvent)

// ListenerID identifies a registration returned by On.
type ListenerID uint64

type listener struct {
	id ListenerID
	fn Handler
}

// View maps window pixels to canvas coordinates.
type View struct {
	Origin image.Point
	Zoom   float64
}

// Canvas is an ordered stack of objects plus its event listeners. It is
// not safe for concurrent use; callers drive it from one event loop.
type Canvas struct {
	Width, Height int
	Background    *image.RGBA
	Selection     bool
	DefaultCursor string
	View          View

	objects    []Object
	active     Object
	listeners  map[string][]listener
	nextID     ListenerID
	generation uint64
	invalidate func()
	now        func() time.Time
	dblClick   time.Duration

	lastPress   Point
	lastPressAt time.Time
	pressArmed  bool
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithBackground sets the image drawn beneath every object.
func WithBackground(img *image.RGBA) Option {
	return func(c *Canvas) {
		c.Background = img
		if img != nil {
			c.Width, c.Height = img.Bounds().Dx(), img.Bounds().Dy()
		}
	}
}

// WithInvalidate registers the hook RenderAll calls.
func WithInvalidate(fn func()) Option { return func(c *Canvas) { c.invalidate = fn } }

// WithDoubleClickInterval overrides DoubleClickInterval. Non-positive
// values keep the default.
func WithDoubleClickInterval(d time.Duration) Option {
	return func(c *Canvas) {
		if d > 0 {
			c.dblClick = d
		}
	}
}

// WithClock replaces time.Now for double click detection.
func WithClock(fn func() time.Time) Option { return func(c *Canvas) { c.now = fn } }

// New creates a canvas of the given size.
func New(width, height int, opts ...Option) *Canvas {
	c := &Canvas{
		Width:         width,
		Height:        height,
		Selection:     true,
		DefaultCursor: CursorDefault,
		View:          View{Zoom: 1},
		listeners:     map[string][]listener{},
		now:           time.Now,
		dblClick:      DoubleClickInterval,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Add appends objects to the top of the stack.
func (c *Canvas) Add(objs ...Object) {
	c.objects = append(c.objects, objs...)
}

// Remove deletes objects from the stack. Missing or nil objects are ignored.
func (c *Canvas) Remove(objs ...Object) {
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		for i, o := range c.objects {
			if o == obj {
				c.objects = append(c.objects[:i], c.objects[i+1:]...)
				break
			}
		}
		if c.active == obj {
			c.active = nil
		}
	}
}

// Objects returns a copy of the stack, bottom first.
func (c *Canvas) Objects() []Object {
	out := make([]Object, len(c.objects))
	copy(out, c.objects)
	return out
}

// Len reports the number of objects.
func (c *Canvas) Len() int { return len(c.objects) }

// Contains reports whether obj is on the canvas.
func (c *Canvas) Contains(obj Object) bool {
	for _, o := range c.objects {
		if o == obj {
			return true
		}
	}
	return false
}

// ForEachObject calls fn on every object, bottom first.
func (c *Canvas) ForEachObject(fn func(Object)) {
	for _, o := range c.Objects() {
		fn(o)
	}
}

// SetActive marks obj as the selected object. nil clears the selection.
func (c *Canvas) SetActive(obj Object) { c.active = obj }

// Active returns the selected object, if any.
func (c *Canvas) Active() Object { return c.active }

// On registers fn for the named event.
func (c *Canvas) On(event string, fn Handler) ListenerID {
	c.nextID++
	c.listeners[event] = append(c.listeners[event], listener{id: c.nextID, fn: fn})
	return c.nextID
}

// Off removes a registration. Unknown ids are ignored.
func (c *Canvas) Off(event string, id ListenerID) {
	ls := c.listeners[event]
	for i, l := range ls {
		if l.id == id {
			ls = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(ls) == 0 {
		delete(c.listeners, event)
		return
	}
	c.listeners[event] = ls
}

// ListenerCount reports the number of handlers for event, or for every event
// when event is empty.
func (c *Canvas) ListenerCount(event string) int {
	if event != "" {
		return len(c.listeners[event])
	}
	n := 0
	for _, ls := range c.listeners {
		n += len(ls)
	}
	return n
}

func (c *Canvas) fire(event string, ev PointerEvent) {
	ls := append([]listener(nil), c.listeners[event]...)
	for _, l := range ls {
		l.fn(ev)
	}
}

// Pointer converts a window position to canvas coordinates.
func (c *Canvas) Pointer(x, y float64) Point {
	z := c.View.Zoom
	if z <= 0 {
		z = 1
	}
	return Point{
		X: (x - float64(c.View.Origin.X)) / z,
		Y: (y - float64(c.View.Origin.Y)) / z,
	}
}

// FindTarget returns the topmost evented object containing p.
func (c *Canvas) FindTarget(p Point) Object {
	for i := len(c.objects) - 1; i >= 0; i-- {
		o := c.objects[i]
		if o.Evented() && o.Contains(p) {
			return o
		}
	}
	return nil
}

// Press delivers a button press at canvas position p. A second press close
// in time and space becomes a double click when anyone listens for one.
func (c *Canvas) Press(p Point) {
	now := c.now()
	ev := PointerEvent{Pointer: p, Target: c.FindTarget(p)}
	if c.pressArmed && now.Sub(c.lastPressAt) <= c.dblClick &&
		math.Hypot(p.X-c.lastPress.X, p.Y-c.lastPress.Y) <= doubleClickSlop &&
		len(c.listeners[EventMouseDblClick]) > 0 {
		c.pressArmed = false
		c.fire(EventMouseDblClick, ev)
		return
	}
	c.lastPress, c.lastPressAt, c.pressArmed = p, now, true
	c.fire(EventMouseDown, ev)
}

// Move delivers pointer motion.
func (c *Canvas) Move(p Point) {
	c.fire(EventMouseMove, PointerEvent{Pointer: p, Target: c.FindTarget(p)})
}

// Release delivers a button release.
func (c *Canvas) Release(p Point) {
	c.fire(EventMouseUp, PointerEvent{Pointer: p, Target: c.FindTarget(p)})
}

// Dispatch translates a window mouse event. Only the left button presses
// and releases; motion is always forwarded.
func (c *Canvas) Dispatch(e mouse.Event) bool {
	p := c.Pointer(float64(e.X), float64(e.Y))
	switch e.Direction {
	case mouse.DirNone:
		c.Move(p)
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		c.Press(p)
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		c.Release(p)
	default:
		return false
	}
	return true
}

// RenderAll requests a redraw.
func (c *Canvas) RenderAll() {
	c.generation++
	if c.invalidate != nil {
		c.invalidate()
	}
}

// Generation counts RenderAll calls.
func (c *Canvas) Generation() uint64 { return c.generation }
