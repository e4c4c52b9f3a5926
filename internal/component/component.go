// Package component implements the interactive drawing tools that turn
// pointer input on a canvas into shapes.
package component

import (
	"sort"

	"github.com/example/polyshot/internal/canvas"
)

// Component names used by the host registry.
const (
	NamePolygon     = "polygon"
	NamePolygonLoop = "polygonLoop"
)

// EventAddObject is emitted when a tool has produced a new shape.
const EventAddObject = "addObject"

// Settings configures a tool when it starts. Zero values keep the tool's
// current values.
type Settings struct {
	Width float64
	Color string
}

// Event is what a component reports to its owner.
type Event struct {
	Name   string
	Object canvas.Object
	Props  canvas.Props
}

// Emitter receives component events.
type Emitter func(Event)

// Component is a drawing tool that can be switched on and off.
type Component interface {
	Name() string
	Start(Settings) error
	End()
}

// Colorer is implemented by components that can recolor their shapes.
type Colorer interface {
	SetColor(color string, target canvas.Object) error
	RestoreColor(color string, target canvas.Object) error
	Color(target canvas.Object) string
}

// Registry maps names to components.
type Registry struct {
	comps map[string]Component
}

// NewRegistry returns a registry holding comps.
func NewRegistry(comps ...Component) *Registry {
	r := &Registry{comps: map[string]Component{}}
	for _, c := range comps {
		r.Register(c)
	}
	return r
}

// Register adds or replaces c under its name.
func (r *Registry) Register(c Component) { r.comps[c.Name()] = c }

// Get looks up a component.
func (r *Registry) Get(name string) (Component, bool) {
	c, ok := r.comps[name]
	return c, ok
}

// Names lists registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.comps))
	for n := range r.comps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
