package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/example/polyshot/internal/appstate"
	"github.com/example/polyshot/internal/colorspec"
	"github.com/example/polyshot/internal/component"
	"github.com/example/polyshot/internal/theme"
)

type colorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	palette := appstate.PaletteColors()
	if len(palette) == 0 {
		fmt.Fprintln(os.Stdout, "no colors available")
		return nil
	}
	fmt.Fprintln(os.Stdout, "available palette colors (* marks the default color):")
	defaultIdx := clampIndex(appstate.DefaultColorIndex(), len(palette))
	for idx, entry := range palette {
		marker := " "
		if idx == defaultIdx {
			marker = "*"
		}
		spec := colorspec.FromRGBA(entry.Color)
		hex := spec.Hex()
		name := entry.Name
		if name == "" {
			name = hex
		}
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
		fill := spec.WithAlpha(component.FillAlpha).String()
		fmt.Fprintf(os.Stdout, "%s %2d: %-12s %s %s fill %s\n", marker, idx, name, hex, block, fill)
	}
	return nil
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *colorsCmd) Template() string {
	return "colors.txt"
}

type widthsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseWidthsCmd(args []string, r *root) (*widthsCmd, error) {
	fs := flag.NewFlagSet("widths", flag.ExitOnError)
	cmd := &widthsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *widthsCmd) Run() error {
	widths := appstate.WidthOptions()
	if len(widths) == 0 {
		fmt.Fprintln(os.Stdout, "no widths available")
		return nil
	}
	fmt.Fprintln(os.Stdout, "available outline widths (* marks the default width):")
	defaultIdx := clampIndex(appstate.DefaultWidthIndex(), len(widths))
	for idx, width := range widths {
		marker := " "
		if idx == defaultIdx {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %3dpx\n", marker, width)
	}
	return nil
}

func (c *widthsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *widthsCmd) Template() string {
	return "widths.txt"
}

type themesCmd struct {
	*root
	fs *flag.FlagSet
}

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	fs := flag.NewFlagSet("themes", flag.ExitOnError)
	cmd := &themesCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *themesCmd) Run() error {
	active := ""
	if c.root != nil && c.root.activeTheme != nil {
		active = c.root.activeTheme.Name
	}
	fmt.Fprintln(os.Stdout, "embedded themes (* marks the active theme):")
	loader := theme.NewLoader()
	for _, name := range theme.Embedded() {
		t, err := loader.Load(name)
		if err != nil {
			fmt.Fprintf(os.Stdout, "  %-12s (failed to load: %v)\n", name, err)
			continue
		}
		marker := " "
		if t.Name == active {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %-12s %s\n", marker, name, t.Name)
	}
	if c.root != nil && c.root.config != nil {
		names := make([]string, 0, len(c.root.config.Themes))
		for name := range c.root.config.Themes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			t := c.root.config.Themes[name]
			marker := " "
			if t.Name == active {
				marker = "*"
			}
			fmt.Fprintf(os.Stdout, "%s %-12s %s (config)\n", marker, name, t.Name)
		}
	}
	return nil
}

func (c *themesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *themesCmd) Template() string {
	return "themes.txt"
}

func clampIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
