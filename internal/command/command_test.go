package command

import (
	"errors"
	"testing"

	"github.com/example/polyshot/internal/canvas"
	"github.com/example/polyshot/internal/colorspec"
	"github.com/example/polyshot/internal/component"
)

type testHost struct {
	comps   map[string]component.Component
	objects map[string]canvas.Object
}

func (h *testHost) Component(name string) (component.Component, bool) {
	c, ok := h.comps[name]
	return c, ok
}

func (h *testHost) Object(id string) (canvas.Object, bool) {
	o, ok := h.objects[id]
	return o, ok
}

func newHost(t *testing.T, fills ...string) (*testHost, []*canvas.Polygon) {
	t.Helper()
	c := canvas.New(100, 100)
	h := &testHost{
		comps:   map[string]component.Component{component.NamePolygon: component.NewPolygon(c, nil)},
		objects: map[string]canvas.Object{},
	}
	var shapes []*canvas.Polygon
	for i, f := range fills {
		p := canvas.NewPolygon(string(rune('a'+i)), []canvas.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}})
		p.Fill = colorspec.MustParse(f)
		c.Add(p)
		h.objects[p.ID()] = p
		shapes = append(shapes, p)
	}
	return h, shapes
}

func TestExecuteUndoRestoresColor(t *testing.T) {
	for _, prior := range []string{"rgba(0, 0, 0, 0.5)", "#12345678", "navy"} {
		h, shapes := newHost(t, prior)
		want := shapes[0].Fill
		cmd := NewChangePolygonColor("a", "#00ff00")
		if err := cmd.Execute(h); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if got := shapes[0].Fill.String(); got != "rgba(0, 255, 0, 0.5)" {
			t.Fatalf("fill after execute = %q", got)
		}
		if err := cmd.Undo(h); err != nil {
			t.Fatalf("Undo: %v", err)
		}
		if shapes[0].Fill != want {
			t.Fatalf("fill after undo = %+v, want %+v", shapes[0].Fill, want)
		}
	}
}

func TestExecuteMissingObject(t *testing.T) {
	h, shapes := newHost(t, "red", "blue")
	before := []colorspec.Color{shapes[0].Fill, shapes[1].Fill}
	cmd := NewChangePolygonColor("zzz", "#00ff00")
	if err := cmd.Execute(h); !errors.Is(err, ErrNoObject) {
		t.Fatalf("err = %v, want ErrNoObject", err)
	}
	for i, s := range shapes {
		if s.Fill != before[i] {
			t.Fatalf("shape %d changed to %+v", i, s.Fill)
		}
	}
	if err := cmd.Undo(h); !errors.Is(err, ErrNoUndoRecord) {
		t.Fatalf("undo after failed execute: %v", err)
	}
}

func TestUndoConsumesRecord(t *testing.T) {
	h, _ := newHost(t, "red")
	cmd := NewChangePolygonColor("a", "blue")
	if err := cmd.Undo(h); !errors.Is(err, ErrNoUndoRecord) {
		t.Fatalf("undo before execute: %v", err)
	}
	if err := cmd.Execute(h); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Undo(h); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Undo(h); !errors.Is(err, ErrNoUndoRecord) {
		t.Fatalf("second undo: %v", err)
	}
}

func TestExecuteBadColorKeepsState(t *testing.T) {
	h, shapes := newHost(t, "red")
	before := shapes[0].Fill
	cmd := NewChangePolygonColor("a", "not-a-color")
	if err := cmd.Execute(h); err == nil {
		t.Fatal("expected error")
	}
	if shapes[0].Fill != before {
		t.Fatal("fill changed")
	}
	if err := cmd.Undo(h); !errors.Is(err, ErrNoUndoRecord) {
		t.Fatalf("undo: %v", err)
	}
}

func TestExecuteWithoutComponent(t *testing.T) {
	h := &testHost{objects: map[string]canvas.Object{}}
	if err := NewChangePolygonColor("a", "red").Execute(h); !errors.Is(err, ErrNoComponent) {
		t.Fatalf("err = %v", err)
	}
}

func TestCreate(t *testing.T) {
	cmd, err := Create(NameChangePolygonColor, "a", "red")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Name() != NameChangePolygonColor {
		t.Fatalf("name = %q", cmd.Name())
	}
	if _, err := Create(NameChangePolygonColor, "a"); err == nil {
		t.Fatal("expected arity error")
	}
	if _, err := Create(NameChangePolygonColor, 1, "red"); err == nil {
		t.Fatal("expected type error")
	}
	if _, err := Create("removeObject"); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err = %v", err)
	}
	found := false
	for _, n := range Names() {
		found = found || n == NameChangePolygonColor
	}
	if !found {
		t.Fatal("command did not self-register")
	}
}

func TestInvokerUndoRedo(t *testing.T) {
	h, shapes := newHost(t, "rgba(0, 0, 0, 0.5)")
	var inv Invoker
	if _, err := inv.Undo(h); !errors.Is(err, ErrUndoEmpty) {
		t.Fatalf("undo on empty: %v", err)
	}
	for _, c := range []string{"red", "blue"} {
		if err := inv.Execute(h, NewChangePolygonColor("a", c)); err != nil {
			t.Fatal(err)
		}
	}
	if err := inv.Execute(h, NewChangePolygonColor("missing", "green")); !errors.Is(err, ErrNoObject) {
		t.Fatalf("err = %v", err)
	}

	steps := []struct {
		op   string
		want string
	}{
		{"undo", "rgba(255, 0, 0, 0.5)"},
		{"undo", "rgba(0, 0, 0, 0.5)"},
		{"redo", "rgba(255, 0, 0, 0.5)"},
		{"redo", "rgba(0, 0, 255, 0.5)"},
	}
	for i, s := range steps {
		var err error
		if s.op == "undo" {
			_, err = inv.Undo(h)
		} else {
			_, err = inv.Redo(h)
		}
		if err != nil {
			t.Fatalf("step %d %s: %v", i, s.op, err)
		}
		if got := shapes[0].Fill.String(); got != s.want {
			t.Fatalf("step %d %s: fill = %q, want %q", i, s.op, got, s.want)
		}
	}
	if inv.CanRedo() {
		t.Fatal("redo stack should be empty")
	}
	if _, err := inv.Redo(h); !errors.Is(err, ErrRedoEmpty) {
		t.Fatalf("redo on empty: %v", err)
	}

	if _, err := inv.Undo(h); err != nil {
		t.Fatal(err)
	}
	if err := inv.Execute(h, NewChangePolygonColor("a", "green")); err != nil {
		t.Fatal(err)
	}
	if inv.CanRedo() {
		t.Fatal("execute should clear the redo stack")
	}
}

func TestInvokerFailedUndoStaysOnStack(t *testing.T) {
	h, shapes := newHost(t, "rgba(0, 0, 0, 0.5)")
	var inv Invoker
	if err := inv.Execute(h, NewChangePolygonColor("a", "red")); err != nil {
		t.Fatal(err)
	}
	comp := h.comps[component.NamePolygon]
	delete(h.comps, component.NamePolygon)
	if _, err := inv.Undo(h); err == nil {
		t.Fatal("undo without a polygon component should fail")
	}
	if !inv.CanUndo() || inv.CanRedo() {
		t.Fatalf("after failed undo: CanUndo=%v CanRedo=%v", inv.CanUndo(), inv.CanRedo())
	}

	h.comps[component.NamePolygon] = comp
	if _, err := inv.Undo(h); err != nil {
		t.Fatalf("retry undo: %v", err)
	}
	if got := shapes[0].Fill.String(); got != "rgba(0, 0, 0, 0.5)" {
		t.Fatalf("fill = %q", got)
	}
	if inv.CanUndo() || !inv.CanRedo() {
		t.Fatalf("after undo: CanUndo=%v CanRedo=%v", inv.CanUndo(), inv.CanRedo())
	}
}

func TestInvokerForget(t *testing.T) {
	h, shapes := newHost(t, "red", "blue")
	var inv Invoker
	for _, cmd := range []Command{
		NewChangePolygonColor("a", "green"),
		NewChangePolygonColor("b", "green"),
		NewChangePolygonColor("a", "yellow"),
	} {
		if err := inv.Execute(h, cmd); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := inv.Undo(h); err != nil {
		t.Fatal(err)
	}

	if n := inv.Forget("a"); n != 2 {
		t.Fatalf("Forget dropped %d, want 2", n)
	}
	if inv.CanRedo() {
		t.Fatal("redo entry for a should be gone")
	}
	cmd, err := inv.Undo(h)
	if err != nil {
		t.Fatal(err)
	}
	if got := cmd.(Targeted).TargetID(); got != "b" {
		t.Fatalf("undid %s, want b", got)
	}
	if got := shapes[1].Fill.String(); got != "rgba(0, 0, 255, 1)" {
		t.Fatalf("b fill = %q", got)
	}
	if inv.CanUndo() {
		t.Fatal("undo stack should be empty")
	}
	if n := inv.Forget("zzz"); n != 0 {
		t.Fatalf("Forget unknown dropped %d", n)
	}
}
