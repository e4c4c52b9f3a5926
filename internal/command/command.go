// Package command holds undoable edits to canvas objects and the factory
// they register themselves in.
package command

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/example/polyshot/internal/canvas"
	"github.com/example/polyshot/internal/component"
)

var (
	// ErrNoObject is returned when a command targets an id that is not on
	// the canvas.
	ErrNoObject = errors.New("the object is not in canvas")
	// ErrNoUndoRecord is returned by Undo before a successful Execute.
	ErrNoUndoRecord = errors.New("nothing to undo")
	// ErrUnknownCommand is returned by Create for unregistered names.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNoComponent is returned when the host lacks a required component.
	ErrNoComponent = errors.New("component not available")
)

// Host is the part of the graphics host commands operate on.
type Host interface {
	Component(name string) (component.Component, bool)
	Object(id string) (canvas.Object, bool)
}

// Command is a single undoable edit. Each instance holds one undo slot.
type Command interface {
	Name() string
	Execute(Host) error
	Undo(Host) error
}

// Targeted is implemented by commands that edit a single object.
type Targeted interface {
	TargetID() string
}

// Constructor builds a command from positional arguments.
type Constructor func(args ...any) (Command, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// Register adds a constructor under name, replacing any previous one.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = ctor
}

// Create builds the named command.
func Create(name string, args ...any) (Command, error) {
	registryMu.RLock()
	ctor, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownCommand)
	}
	return ctor(args...)
}

// Names lists registered commands.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func colorer(h Host, name string) (component.Colorer, error) {
	c, ok := h.Component(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNoComponent)
	}
	col, ok := c.(component.Colorer)
	if !ok {
		return nil, fmt.Errorf("%s cannot change colors: %w", name, ErrNoComponent)
	}
	return col, nil
}
