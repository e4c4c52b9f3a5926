package feed

import (
	"sync"

	"github.com/example/polyshot/internal/canvas"
	"github.com/example/polyshot/internal/graphics"
)

// TypeSnapshot marks the frames sent to a client when it connects.
const TypeSnapshot = "snapshot"

// Index keeps the latest properties of every shape seen on the feed, in
// the order they were first added.
type Index struct {
	mu    sync.Mutex
	order []string
	props map[string]canvas.Props
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{props: make(map[string]canvas.Props)}
}

// Apply folds one event into the index. Unknown events are ignored.
func (x *Index) Apply(event string, p canvas.Props) {
	x.mu.Lock()
	defer x.mu.Unlock()
	switch event {
	case graphics.EventAddObject, graphics.EventObjectChanged, TypeSnapshot:
		if _, ok := x.props[p.ID]; !ok {
			x.order = append(x.order, p.ID)
		}
		x.props[p.ID] = p
	case graphics.EventObjectRemoved:
		if _, ok := x.props[p.ID]; !ok {
			return
		}
		delete(x.props, p.ID)
		for i, id := range x.order {
			if id == p.ID {
				x.order = append(x.order[:i], x.order[i+1:]...)
				break
			}
		}
	}
}

// List returns a copy of the tracked shapes.
func (x *Index) List() []canvas.Props {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := make([]canvas.Props, 0, len(x.order))
	for _, id := range x.order {
		out = append(out, x.props[id])
	}
	return out
}

// Len reports how many shapes are tracked.
func (x *Index) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.order)
}
