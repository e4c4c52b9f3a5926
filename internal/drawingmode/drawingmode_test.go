package drawingmode

import (
	"errors"
	"testing"

	"github.com/example/polyshot/internal/component"
)

type fakeComponent struct {
	name    string
	started []component.Settings
	ended   int
}

func (f *fakeComponent) Name() string { return f.name }
func (f *fakeComponent) Start(s component.Settings) error {
	f.started = append(f.started, s)
	return nil
}
func (f *fakeComponent) End() { f.ended++ }

type fakeHost map[string]component.Component

func (h fakeHost) Component(name string) (component.Component, bool) {
	c, ok := h[name]
	return c, ok
}

func TestStartEndDelegate(t *testing.T) {
	comp := &fakeComponent{name: component.NamePolygon}
	host := fakeHost{component.NamePolygon: comp}
	m, err := Lookup(PolygonDrawing)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Start(host, component.Settings{Width: 3}); err != nil {
		t.Fatal(err)
	}
	if err := m.End(host); err != nil {
		t.Fatal(err)
	}
	if len(comp.started) != 1 || comp.started[0].Width != 3 || comp.ended != 1 {
		t.Fatalf("component saw %+v / %d ends", comp.started, comp.ended)
	}
}

func TestMissingComponent(t *testing.T) {
	m, err := Lookup(PolygonLoopDrawing)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Start(fakeHost{}, component.Settings{}); !errors.Is(err, ErrNoComponent) {
		t.Fatalf("Start err = %v", err)
	}
	if err := m.End(fakeHost{}); !errors.Is(err, ErrNoComponent) {
		t.Fatalf("End err = %v", err)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("FREE_DRAWING"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("err = %v", err)
	}
	if got := Names(); len(got) != 2 || got[0] != PolygonDrawing {
		t.Fatalf("Names = %v", got)
	}
}
