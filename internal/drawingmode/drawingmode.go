// Package drawingmode switches drawing components on and off by mode name.
package drawingmode

import (
	"errors"
	"fmt"
	"sort"

	"github.com/example/polyshot/internal/component"
)

// Mode names.
const (
	PolygonDrawing     = "POLYGON_DRAWING"
	PolygonLoopDrawing = "POLYGON_LOOP_DRAWING"
)

// ErrNoComponent is returned when the host has no component for a mode.
var ErrNoComponent = errors.New("no such component")

// ErrUnknownMode is returned by Lookup for unregistered names.
var ErrUnknownMode = errors.New("unknown drawing mode")

// Host resolves components by name.
type Host interface {
	Component(name string) (component.Component, bool)
}

// Mode starts and ends one component.
type Mode struct {
	name      string
	component string
}

// New returns a mode that drives the named component.
func New(name, componentName string) Mode {
	return Mode{name: name, component: componentName}
}

// Name returns the mode name.
func (m Mode) Name() string { return m.name }

// ComponentName returns the name of the component the mode drives.
func (m Mode) ComponentName() string { return m.component }

func (m Mode) lookup(h Host) (component.Component, error) {
	c, ok := h.Component(m.component)
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", m.name, m.component, ErrNoComponent)
	}
	return c, nil
}

// Start starts the component with s.
func (m Mode) Start(h Host, s component.Settings) error {
	c, err := m.lookup(h)
	if err != nil {
		return err
	}
	return c.Start(s)
}

// End stops the component.
func (m Mode) End(h Host) error {
	c, err := m.lookup(h)
	if err != nil {
		return err
	}
	c.End()
	return nil
}

var builtin = map[string]Mode{
	PolygonDrawing:     New(PolygonDrawing, component.NamePolygon),
	PolygonLoopDrawing: New(PolygonLoopDrawing, component.NamePolygonLoop),
}

// Lookup returns a built-in mode.
func Lookup(name string) (Mode, error) {
	m, ok := builtin[name]
	if !ok {
		return Mode{}, fmt.Errorf("%q: %w", name, ErrUnknownMode)
	}
	return m, nil
}

// Names lists the built-in modes.
func Names() []string {
	out := make([]string, 0, len(builtin))
	for n := range builtin {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
