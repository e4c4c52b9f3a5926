package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	th, err := Parse(strings.NewReader(`
# comment
Name: Mine
guidestroke: #123456
FirstMarkerFill: rgba(0, 0, 255, 1)
Unknown: #FFFFFF
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if th.Name != "Mine" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.GuideStroke != (color.RGBA{0x12, 0x34, 0x56, 0xff}) {
		t.Errorf("GuideStroke = %+v", th.GuideStroke)
	}
	if th.FirstMarkerFill != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("FirstMarkerFill = %+v", th.FirstMarkerFill)
	}
	if th.ShapeStroke != Default().ShapeStroke {
		t.Errorf("ShapeStroke lost its default: %+v", th.ShapeStroke)
	}
}

func TestParseBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("MarkerFill: #12")); err == nil {
		t.Fatal("expected error")
	}
}

func TestEmbeddedThemesLoad(t *testing.T) {
	names := Embedded()
	if len(names) < 2 {
		t.Fatalf("embedded themes = %v", names)
	}
	l := &Loader{ConfigDir: t.TempDir(), SystemDir: t.TempDir()}
	for _, n := range names {
		th, err := l.Load(n)
		if err != nil {
			t.Fatalf("Load(%q): %v", n, err)
		}
		if th.Name == "" {
			t.Errorf("theme %q has no name", n)
		}
	}
	def, err := l.Load("default")
	if err != nil {
		t.Fatal(err)
	}
	if *def != *Default() {
		t.Errorf("embedded default differs from Default(): %+v", def)
	}
}

func TestLoaderSearchOrder(t *testing.T) {
	cfgDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(cfgDir, "site.theme"), []byte("Name: Site\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: cfgDir, SystemDir: t.TempDir()}
	th, err := l.Load("site")
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != "Site" {
		t.Fatalf("Name = %q", th.Name)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Fatal("expected error for missing theme")
	}
}

func TestPolygonStyle(t *testing.T) {
	s := Default().PolygonStyle(7)
	if s.MarkerRadius != 7 || s.GuideStroke.Hex() != "#999999" || s.FirstMarkerFill.Hex() != "#FF0000" {
		t.Fatalf("style = %+v", s)
	}
}
