package colorspec

import (
	"image/color"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ff0000", Color{R: 255, A: 1}},
		{"#0F0", Color{G: 255, A: 1}},
		{"#00008080", Color{B: 128, A: 0.502}},
		{"rgb(1, 2, 3)", Color{R: 1, G: 2, B: 3, A: 1}},
		{"rgba(0, 0, 0, 0.5)", Color{A: 0.5}},
		{"RGBA(10,20,30,1)", Color{R: 10, G: 20, B: 30, A: 1}},
		{"red", Color{R: 255, A: 1}},
		{"  Navy ", Color{B: 128, A: 1}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "#12", "#zzzzzz", "rgba(1,2,3)", "rgb(256,0,0)", "rgba(0,0,0,2)", "rgb(1,2,3", "notacolor"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	c := Color{R: 12, G: 34, B: 56, A: 0.5}
	got, err := Parse(c.String())
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", c.String(), err)
	}
	if got != c {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, c)
	}
	if want := "rgba(12, 34, 56, 0.5)"; c.String() != want {
		t.Fatalf("String() = %q, want %q", c.String(), want)
	}
}

func TestWithAlphaClamps(t *testing.T) {
	c := Color{R: 1, A: 1}
	if got := c.WithAlpha(0.25).A; got != 0.25 {
		t.Fatalf("alpha = %v", got)
	}
	if got := c.WithAlpha(3).A; got != 1 {
		t.Fatalf("alpha not clamped: %v", got)
	}
	if got := c.WithAlpha(-1).A; got != 0 {
		t.Fatalf("alpha not clamped: %v", got)
	}
}

func TestHexAndNRGBA(t *testing.T) {
	c := Color{R: 255, G: 128, A: 0.5}
	if got := c.NRGBA(); got != (color.NRGBA{R: 255, G: 128, A: 128}) {
		t.Fatalf("NRGBA() = %+v", got)
	}
	if got := c.Hex(); got != "#FF800080" {
		t.Fatalf("Hex() = %q", got)
	}
	if got := c.WithAlpha(1).Hex(); got != "#FF8000" {
		t.Fatalf("Hex() = %q", got)
	}
}
