package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader finds and reads the rc file.
type Loader struct {
	Version      string // "dev" also searches the working directory
	OverridePath string // set at link time
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load attempts to load the configuration.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// candidates lists the config files to try, most specific first: the
// compile time override, .polyshotrc in the working directory for dev
// builds, then the XDG names.
func (l *Loader) candidates() []string {
	var paths []string
	if l.OverridePath != "" {
		paths = append(paths, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, ".polyshotrc"))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".config", "polyshot")
		paths = append(paths, filepath.Join(dir, "config.rc"), filepath.Join(dir, "polyshot.rc"))
	}
	return paths
}

// GetConfigPath returns the first existing config file, or "".
func (l *Loader) GetConfigPath() string {
	for _, p := range l.candidates() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultSavePath returns where Save writes when no config file exists yet.
func (l *Loader) DefaultSavePath() string {
	if l.OverridePath != "" {
		return l.OverridePath
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "polyshot", "config.rc")
}

// Save writes cfg to the override path, else the active config path,
// creating parent directories.
func (l *Loader) Save(cfg *Config) (string, error) {
	path := l.OverridePath
	if path == "" {
		path = l.GetConfigPath()
	}
	if path == "" {
		path = l.DefaultSavePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
