// Package graphics ties a canvas to its drawing components, the object
// registry and the command history.
package graphics

import (
	"errors"
	"fmt"
	"log"

	"github.com/example/polyshot/internal/canvas"
	"github.com/example/polyshot/internal/command"
	"github.com/example/polyshot/internal/component"
	"github.com/example/polyshot/internal/drawingmode"
)

// Events delivered to subscribers.
const (
	EventAddObject     = component.EventAddObject
	EventObjectChanged = "objectChanged"
	EventObjectRemoved = "objectRemoved"
)

// Listener receives host events.
type Listener func(event string, props canvas.Props)

// Graphics is the host every tool, mode and command talks to.
type Graphics struct {
	canvas    *canvas.Canvas
	comps     *component.Registry
	objects   map[string]canvas.Object
	listeners map[string][]Listener
	mode      *drawingmode.Mode
	history   command.Invoker
}

type options struct {
	style component.Style
	newID func() string
}

// Option configures New.
type Option func(*options)

// WithStyle sets the colors used by the polygon tools.
func WithStyle(s component.Style) Option { return func(o *options) { o.style = s } }

// WithIDGenerator replaces the shape id source.
func WithIDGenerator(fn func() string) Option { return func(o *options) { o.newID = fn } }

// New creates a host over c with both polygon tools registered.
func New(c *canvas.Canvas, opts ...Option) *Graphics {
	o := options{style: component.DefaultStyle}
	for _, fn := range opts {
		fn(&o)
	}
	g := &Graphics{
		canvas:    c,
		objects:   map[string]canvas.Object{},
		listeners: map[string][]Listener{},
	}
	copts := []component.Option{component.WithStyle(o.style)}
	if o.newID != nil {
		copts = append(copts, component.WithIDGenerator(o.newID))
	}
	g.comps = component.NewRegistry(
		component.NewPolygon(c, g.onComponentEvent, copts...),
		component.NewPolygon(c, g.onComponentEvent, append(copts, component.WithVariant(component.VariantLoop))...),
	)
	return g
}

// Canvas returns the canvas handle.
func (g *Graphics) Canvas() *canvas.Canvas { return g.canvas }

// Component looks up a registered component.
func (g *Graphics) Component(name string) (component.Component, bool) {
	return g.comps.Get(name)
}

// Object looks up a registered shape.
func (g *Graphics) Object(id string) (canvas.Object, bool) {
	o, ok := g.objects[id]
	return o, ok
}

// Objects returns registered shapes in stacking order.
func (g *Graphics) Objects() []canvas.Object {
	var out []canvas.Object
	for _, o := range g.canvas.Objects() {
		if _, ok := g.objects[o.ID()]; ok {
			out = append(out, o)
		}
	}
	return out
}

// CreateObjectProperties derives the public properties of obj.
func (g *Graphics) CreateObjectProperties(obj canvas.Object) canvas.Props {
	return canvas.PropsOf(obj)
}

// On subscribes fn to event.
func (g *Graphics) On(event string, fn Listener) {
	g.listeners[event] = append(g.listeners[event], fn)
}

func (g *Graphics) fire(event string, props canvas.Props) {
	for _, fn := range g.listeners[event] {
		fn(event, props)
	}
}

func (g *Graphics) onComponentEvent(e component.Event) {
	if e.Name == component.EventAddObject && e.Object != nil {
		g.objects[e.Object.ID()] = e.Object
	}
	g.fire(e.Name, e.Props)
}

// AddObject registers an existing shape and puts it on the canvas.
func (g *Graphics) AddObject(obj canvas.Object) {
	if !g.canvas.Contains(obj) {
		g.canvas.Add(obj)
	}
	g.objects[obj.ID()] = obj
	props := canvas.PropsOf(obj)
	g.canvas.RenderAll()
	g.fire(EventAddObject, props)
}

// RemoveObject deletes a shape from the canvas and the registry. Commands
// in the history that target it are dropped with it.
func (g *Graphics) RemoveObject(id string) error {
	obj, ok := g.objects[id]
	if !ok {
		return fmt.Errorf("remove %s: %w", id, command.ErrNoObject)
	}
	props := canvas.PropsOf(obj)
	delete(g.objects, id)
	if n := g.history.Forget(id); n > 0 {
		log.Printf("remove %s: dropped %d history entries", id, n)
	}
	g.canvas.Remove(obj)
	g.canvas.RenderAll()
	g.fire(EventObjectRemoved, props)
	return nil
}

// StartDrawingMode ends the current mode, if any, and starts name.
func (g *Graphics) StartDrawingMode(name string, s component.Settings) error {
	m, err := drawingmode.Lookup(name)
	if err != nil {
		return err
	}
	if err := g.StopDrawingMode(); err != nil {
		return err
	}
	if err := m.Start(g, s); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	g.mode = &m
	return nil
}

// StopDrawingMode ends the current mode. It is a no-op without one.
func (g *Graphics) StopDrawingMode() error {
	if g.mode == nil {
		return nil
	}
	m := g.mode
	g.mode = nil
	return m.End(g)
}

// DrawingMode names the running mode, or "" when none is.
func (g *Graphics) DrawingMode() string {
	if g.mode == nil {
		return ""
	}
	return g.mode.Name()
}

// ActiveComponent returns the component driven by the running mode.
func (g *Graphics) ActiveComponent() (component.Component, bool) {
	if g.mode == nil {
		return nil, false
	}
	return g.comps.Get(g.mode.ComponentName())
}

// Execute creates and runs a registered command, keeping it for undo.
func (g *Graphics) Execute(name string, args ...any) error {
	cmd, err := command.Create(name, args...)
	if err != nil {
		return err
	}
	if err := g.history.Execute(g, cmd); err != nil {
		return err
	}
	g.changed(cmd)
	return nil
}

// Undo reverts the latest command.
func (g *Graphics) Undo() error {
	cmd, err := g.history.Undo(g)
	if err != nil {
		return err
	}
	g.changed(cmd)
	return nil
}

// Redo repeats the latest undone command.
func (g *Graphics) Redo() error {
	cmd, err := g.history.Redo(g)
	if err != nil {
		return err
	}
	g.changed(cmd)
	return nil
}

// CanUndo reports whether Undo has work.
func (g *Graphics) CanUndo() bool { return g.history.CanUndo() }

// CanRedo reports whether Redo has work.
func (g *Graphics) CanRedo() bool { return g.history.CanRedo() }

func (g *Graphics) changed(cmd command.Command) {
	t, ok := cmd.(command.Targeted)
	if !ok {
		return
	}
	obj, ok := g.objects[t.TargetID()]
	if !ok {
		log.Printf("%s: target %s no longer registered", cmd.Name(), t.TargetID())
		return
	}
	g.fire(EventObjectChanged, canvas.PropsOf(obj))
}

// IsEmptyHistory reports whether err only says there was nothing to undo
// or redo.
func IsEmptyHistory(err error) bool {
	return errors.Is(err, command.ErrUndoEmpty) || errors.Is(err, command.ErrRedoEmpty)
}
