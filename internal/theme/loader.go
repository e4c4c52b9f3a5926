package theme

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader resolves theme names against the embedded set and the theme
// directories.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader creates a Loader with the standard directories.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "polyshot", "themes"),
		SystemDir: "/usr/share/polyshot/themes",
	}
}

// source is where a theme name resolved to. path is empty for embedded
// themes.
type source struct {
	path string
	open func() (io.ReadCloser, error)
}

func fileSource(path string) source {
	return source{path: path, open: func() (io.ReadCloser, error) { return os.Open(path) }}
}

// locate searches, in order: name as a file path, the embedded themes,
// ConfigDir, then SystemDir.
func (l *Loader) locate(name string) (source, bool) {
	if _, err := os.Stat(name); err == nil {
		return fileSource(name), true
	}
	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}
	embedded := "defaults/" + filename
	if _, err := EmbeddedThemes.Open(embedded); err == nil {
		return source{open: func() (io.ReadCloser, error) { return EmbeddedThemes.Open(embedded) }}, true
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, filename)
		if _, err := os.Stat(p); err == nil {
			return fileSource(p), true
		}
	}
	return source{}, false
}

// Load returns the named theme. An empty name is the default theme.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	src, ok := l.locate(name)
	if !ok {
		return nil, fmt.Errorf("theme '%s' not found", name)
	}
	rc, err := src.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Parse(rc)
}

// Path reports the file on disk that Load would read for name, or "" when
// name is empty, embedded or unknown.
func (l *Loader) Path(name string) string {
	if name == "" {
		return ""
	}
	src, _ := l.locate(name)
	return src.path
}

// Embedded lists the names of the built-in themes.
func Embedded() []string {
	entries, err := EmbeddedThemes.ReadDir("defaults")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".theme"))
	}
	sort.Strings(names)
	return names
}
