package graphics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/example/polyshot/internal/canvas"
	"github.com/example/polyshot/internal/command"
	"github.com/example/polyshot/internal/component"
	"github.com/example/polyshot/internal/drawingmode"
)

type seen struct {
	event string
	props canvas.Props
}

func newHost() (*Graphics, *[]seen) {
	n := 0
	g := New(canvas.New(300, 300), WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("obj-%d", n)
	}))
	var got []seen
	for _, ev := range []string{EventAddObject, EventObjectChanged, EventObjectRemoved} {
		g.On(ev, func(event string, p canvas.Props) { got = append(got, seen{event, p}) })
	}
	return g, &got
}

func drawTriangle(t *testing.T, g *Graphics) string {
	t.Helper()
	pts := []canvas.Point{{X: 20, Y: 20}, {X: 120, Y: 20}, {X: 70, Y: 120}}
	for _, p := range pts {
		g.Canvas().Press(p)
	}
	g.Canvas().Press(pts[0])
	objs := g.Objects()
	if len(objs) == 0 {
		t.Fatal("no shape registered")
	}
	return objs[len(objs)-1].ID()
}

func TestDrawingRegistersShape(t *testing.T) {
	g, got := newHost()
	if err := g.StartDrawingMode(drawingmode.PolygonDrawing, component.Settings{Color: "#ff0000"}); err != nil {
		t.Fatal(err)
	}
	if g.DrawingMode() != drawingmode.PolygonDrawing {
		t.Fatalf("mode = %q", g.DrawingMode())
	}
	id := drawTriangle(t, g)
	if id != "obj-1" {
		t.Fatalf("id = %q", id)
	}
	if len(*got) != 1 || (*got)[0].event != EventAddObject || (*got)[0].props.ID != id {
		t.Fatalf("events = %+v", *got)
	}
	if _, ok := g.Object(id); !ok {
		t.Fatal("shape missing from registry")
	}
	if got := g.CreateObjectProperties(g.Objects()[0]).Fill; got != "rgba(255, 0, 0, 1)" {
		t.Fatalf("fill = %q", got)
	}
}

func TestSwitchingModesEndsPrevious(t *testing.T) {
	g, _ := newHost()
	if err := g.StartDrawingMode(drawingmode.PolygonDrawing, component.Settings{}); err != nil {
		t.Fatal(err)
	}
	g.Canvas().Press(canvas.Point{X: 10, Y: 10})
	if err := g.StartDrawingMode(drawingmode.PolygonLoopDrawing, component.Settings{}); err != nil {
		t.Fatal(err)
	}
	if g.Canvas().Len() != 0 {
		t.Fatalf("pending aids survived the switch: %d objects", g.Canvas().Len())
	}
	if n := g.Canvas().ListenerCount(""); n != 3 {
		t.Fatalf("listeners = %d, want the loop tool's 3", n)
	}
	c, ok := g.ActiveComponent()
	if !ok || c.Name() != component.NamePolygonLoop {
		t.Fatalf("active = %v", c)
	}
	if err := g.StopDrawingMode(); err != nil {
		t.Fatal(err)
	}
	if err := g.StopDrawingMode(); err != nil {
		t.Fatal(err)
	}
	if g.Canvas().ListenerCount("") != 0 || g.DrawingMode() != "" {
		t.Fatal("stop left listeners behind")
	}
	if err := g.StartDrawingMode("NOPE", component.Settings{}); !errors.Is(err, drawingmode.ErrUnknownMode) {
		t.Fatalf("err = %v", err)
	}
}

func TestExecuteUndoRedoEvents(t *testing.T) {
	g, got := newHost()
	if err := g.StartDrawingMode(drawingmode.PolygonDrawing, component.Settings{}); err != nil {
		t.Fatal(err)
	}
	id := drawTriangle(t, g)
	if err := g.StopDrawingMode(); err != nil {
		t.Fatal(err)
	}
	*got = nil

	if err := g.Execute(command.NameChangePolygonColor, id, "blue"); err != nil {
		t.Fatal(err)
	}
	if !g.CanUndo() || g.CanRedo() {
		t.Fatal("history state wrong after execute")
	}
	if err := g.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := g.Redo(); err != nil {
		t.Fatal(err)
	}
	fills := []string{"rgba(0, 0, 255, 0.5)", component.DefaultColor, "rgba(0, 0, 255, 0.5)"}
	if len(*got) != len(fills) {
		t.Fatalf("events = %+v", *got)
	}
	for i, f := range fills {
		if (*got)[i].event != EventObjectChanged || (*got)[i].props.Fill != f {
			t.Fatalf("event %d = %+v, want fill %s", i, (*got)[i], f)
		}
	}

	if err := g.Execute(command.NameChangePolygonColor, "missing", "blue"); !errors.Is(err, command.ErrNoObject) {
		t.Fatalf("err = %v", err)
	}
	if err := g.Redo(); !IsEmptyHistory(err) {
		t.Fatalf("redo err = %v", err)
	}
}

func TestRemoveObject(t *testing.T) {
	g, got := newHost()
	shape := canvas.NewPolygon("manual", []canvas.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}})
	g.AddObject(shape)
	if err := g.RemoveObject("manual"); err != nil {
		t.Fatal(err)
	}
	if g.Canvas().Len() != 0 || len(g.Objects()) != 0 {
		t.Fatal("shape not removed")
	}
	if len(*got) != 2 || (*got)[1].event != EventObjectRemoved {
		t.Fatalf("events = %+v", *got)
	}
	if err := g.RemoveObject("manual"); !errors.Is(err, command.ErrNoObject) {
		t.Fatalf("err = %v", err)
	}
}

func TestRemoveObjectForgetsItsHistory(t *testing.T) {
	g, got := newHost()
	if err := g.StartDrawingMode(drawingmode.PolygonDrawing, component.Settings{}); err != nil {
		t.Fatal(err)
	}
	first := drawTriangle(t, g)
	second := drawTriangle(t, g)
	if err := g.StopDrawingMode(); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{first, second, first} {
		if err := g.Execute(command.NameChangePolygonColor, id, "blue"); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := g.RemoveObject(first); err != nil {
		t.Fatal(err)
	}
	if g.CanRedo() {
		t.Fatal("redo of a removed shape should be gone")
	}
	*got = nil

	if err := g.Undo(); err != nil {
		t.Fatal(err)
	}
	if len(*got) != 1 || (*got)[0].props.ID != second {
		t.Fatalf("events = %+v, want one change of %s", *got, second)
	}
	if err := g.Undo(); !IsEmptyHistory(err) {
		t.Fatalf("undo err = %v, want empty history", err)
	}
}
