package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.theme")
	if err := os.WriteFile(path, []byte("Name: First\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan *Theme, 4)
	errc := make(chan error, 1)
	go func() { errc <- Watch(ctx, path, func(th *Theme) { got <- th }) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("Name: Second\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(3 * time.Second)
	for {
		select {
		case th := <-got:
			if th.Name == "Second" {
				cancel()
				if err := <-errc; err != nil {
					t.Fatalf("Watch: %v", err)
				}
				return
			}
		case <-deadline:
			t.Fatal("theme was not reloaded")
		}
	}
}

func TestLoaderPath(t *testing.T) {
	cfg := t.TempDir()
	l := &Loader{ConfigDir: cfg, SystemDir: t.TempDir()}
	if p := l.Path("dark"); p != "" {
		t.Errorf("embedded theme path = %q, want empty", p)
	}
	mine := filepath.Join(cfg, "mine.theme")
	if err := os.WriteFile(mine, []byte("Name: Mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if p := l.Path("mine"); p != mine {
		t.Errorf("Path(mine) = %q, want %q", p, mine)
	}
	if p := l.Path(mine); p != mine {
		t.Errorf("Path(file) = %q, want %q", p, mine)
	}
	if p := l.Path("missing"); p != "" {
		t.Errorf("Path(missing) = %q", p)
	}
}
