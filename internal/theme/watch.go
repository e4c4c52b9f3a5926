package theme

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn with the reparsed theme each time the file at path is
// written or replaced, until ctx is done. The parent directory is watched
// so editors that save by renaming are noticed too. Files that fail to
// parse are logged and skipped.
func Watch(ctx context.Context, path string, fn func(*Theme)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create theme watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			t, err := parseFile(abs)
			if err != nil {
				log.Printf("reload theme %s: %v", abs, err)
				continue
			}
			fn(t)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("theme watcher: %v", err)
		}
	}
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
