package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/polyshot/internal/theme"
)

// Variant names accepted by [polygon] variant.
const (
	VariantClick = "click"
	VariantLoop  = "loop"
)

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Copy   bool
	Export bool
}

// Polygon holds the drawing tool defaults. Zero values mean "use the
// built-in default".
type Polygon struct {
	Width        float64
	Color        string
	Variant      string
	MarkerRadius float64
	DoubleClick  time.Duration
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Polygon Polygon
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:  "", // Default to empty to allow fallback to Env/Default
		Notify: Notify{},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[polygon]\n")
	if c.Polygon.Width > 0 {
		fmt.Fprintf(&sb, "width = %v\n", c.Polygon.Width)
	}
	if c.Polygon.Color != "" {
		fmt.Fprintf(&sb, "color = %q\n", c.Polygon.Color)
	}
	if c.Polygon.Variant != "" {
		fmt.Fprintf(&sb, "variant = %s\n", c.Polygon.Variant)
	}
	if c.Polygon.MarkerRadius > 0 {
		fmt.Fprintf(&sb, "marker_radius = %v\n", c.Polygon.MarkerRadius)
	}
	if c.Polygon.DoubleClick > 0 {
		fmt.Fprintf(&sb, "double_click = %s\n", c.Polygon.DoubleClick)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range theme.Fields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", f.Key, theme.Hex(f.Value))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
