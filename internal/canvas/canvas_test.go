package canvas

import (
	"image"
	"testing"
	"time"

	"golang.org/x/mobile/event/mouse"

	"github.com/example/polyshot/internal/colorspec"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestOnOffListenerCount(t *testing.T) {
	c := New(100, 100)
	var got []string
	a := c.On(EventMouseDown, func(PointerEvent) { got = append(got, "a") })
	c.On(EventMouseDown, func(PointerEvent) { got = append(got, "b") })
	c.On(EventMouseMove, func(PointerEvent) {})

	if n := c.ListenerCount(""); n != 3 {
		t.Fatalf("ListenerCount = %d, want 3", n)
	}
	c.Press(Point{1, 1})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("dispatch order = %v", got)
	}
	c.Off(EventMouseDown, a)
	c.Off(EventMouseDown, a)
	if n := c.ListenerCount(EventMouseDown); n != 1 {
		t.Fatalf("ListenerCount(down) = %d, want 1", n)
	}
}

func TestHandlerMayUnregisterDuringDispatch(t *testing.T) {
	c := New(10, 10)
	var id ListenerID
	calls := 0
	id = c.On(EventMouseDown, func(PointerEvent) {
		calls++
		c.Off(EventMouseDown, id)
	})
	c.On(EventMouseDown, func(PointerEvent) { calls++ })
	c.Press(Point{})
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestFindTargetTopmostEvented(t *testing.T) {
	c := New(100, 100)
	under := NewMarker("1", Point{10, 10}, 10)
	over := NewMarker("2", Point{12, 10}, 10)
	hidden := NewMarker("3", Point{11, 10}, 10)
	hidden.SetEvented(false)
	line := NewLine("4", Point{0, 0}, Point{20, 20})
	c.Add(under, over, hidden, line)

	if got := c.FindTarget(Point{11, 10}); got != over {
		t.Fatalf("target = %v, want marker 2", got)
	}
	if got := c.FindTarget(Point{90, 90}); got != nil {
		t.Fatalf("expected no target, got %v", got)
	}
}

func TestPolygonContains(t *testing.T) {
	p := NewPolygon("p", []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	if !p.Contains(Point{5, 5}) {
		t.Fatal("centre not contained")
	}
	if p.Contains(Point{15, 5}) {
		t.Fatal("outside point contained")
	}
}

func TestDoubleClickNeedsListener(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	c := New(100, 100, WithClock(clk.now))
	downs, dbl := 0, 0
	c.On(EventMouseDown, func(PointerEvent) { downs++ })

	c.Press(Point{5, 5})
	clk.advance(100 * time.Millisecond)
	c.Press(Point{5, 5})
	if downs != 2 {
		t.Fatalf("downs = %d, want 2 without dblclick listener", downs)
	}

	c.On(EventMouseDblClick, func(PointerEvent) { dbl++ })
	clk.advance(time.Second)
	c.Press(Point{5, 5})
	clk.advance(100 * time.Millisecond)
	c.Press(Point{6, 6})
	if downs != 3 || dbl != 1 {
		t.Fatalf("downs=%d dbl=%d, want 3 and 1", downs, dbl)
	}

	clk.advance(100 * time.Millisecond)
	c.Press(Point{6, 6})
	if downs != 4 || dbl != 1 {
		t.Fatalf("third press should start a new sequence: downs=%d dbl=%d", downs, dbl)
	}
}

func TestDoubleClickRespectsTimeAndDistance(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	c := New(100, 100, WithClock(clk.now))
	dbl := 0
	c.On(EventMouseDblClick, func(PointerEvent) { dbl++ })

	c.Press(Point{5, 5})
	clk.advance(DoubleClickInterval + time.Millisecond)
	c.Press(Point{5, 5})
	clk.advance(10 * time.Millisecond)
	c.Press(Point{50, 50})
	if dbl != 0 {
		t.Fatalf("dbl = %d, want 0", dbl)
	}
}

func TestDispatchTranslatesThroughView(t *testing.T) {
	c := New(100, 100)
	c.View = View{Origin: image.Pt(10, 20), Zoom: 2}
	var got Point
	c.On(EventMouseDown, func(e PointerEvent) { got = e.Pointer })
	if !c.Dispatch(mouse.Event{X: 30, Y: 40, Button: mouse.ButtonLeft, Direction: mouse.DirPress}) {
		t.Fatal("left press not handled")
	}
	if got != (Point{10, 10}) {
		t.Fatalf("pointer = %+v, want {10 10}", got)
	}
	if c.Dispatch(mouse.Event{Button: mouse.ButtonRight, Direction: mouse.DirPress}) {
		t.Fatal("right press should be ignored")
	}
}

func TestRemoveClearsActive(t *testing.T) {
	c := New(10, 10)
	p := NewPolygon("p", []Point{{0, 0}, {5, 0}, {5, 5}})
	c.Add(p)
	c.SetActive(p)
	c.Remove(p, nil)
	if c.Len() != 0 || c.Active() != nil {
		t.Fatalf("len=%d active=%v", c.Len(), c.Active())
	}
}

func TestRenderAllCallsInvalidate(t *testing.T) {
	n := 0
	c := New(10, 10, WithInvalidate(func() { n++ }))
	c.RenderAll()
	c.RenderAll()
	if n != 2 || c.Generation() != 2 {
		t.Fatalf("invalidate=%d generation=%d", n, c.Generation())
	}
}

func TestRenderDrawsPolygonFill(t *testing.T) {
	c := New(20, 20)
	p := NewPolygon("p", []Point{{0, 0}, {20, 0}, {20, 20}, {0, 20}})
	p.Fill = colorspec.Color{R: 255, A: 1}
	c.Add(p)
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	c.Render(dst, Style{})
	if got := dst.RGBAAt(10, 10); got.R != 255 || got.G != 0 {
		t.Fatalf("pixel = %+v, want red", got)
	}
}

func TestPropsOfPolygon(t *testing.T) {
	p := NewPolygon("id-1", []Point{{10, 20}, {40, 20}, {40, 60}})
	p.Left, p.Top = 10, 20
	p.Fill = colorspec.Color{A: 0.5}
	props := PropsOf(p)
	if props.Type != KindPolygon || props.Width != 30 || props.Height != 40 {
		t.Fatalf("props = %+v", props)
	}
	if props.Fill != "rgba(0, 0, 0, 0.5)" || len(props.Points) != 3 {
		t.Fatalf("props = %+v", props)
	}
	props.Points[0].X = 99
	if p.Points[0].X != 10 {
		t.Fatal("props share point storage with the polygon")
	}
}
