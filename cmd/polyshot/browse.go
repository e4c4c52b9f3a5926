package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/example/polyshot/internal/feed"
)

// browseCmd finds feeds announced on the network, or follows one.
type browseCmd struct {
	timeout time.Duration
	follow  bool
	url     string
	out     io.Writer
	*root
	fs *flag.FlagSet
}

func (b *browseCmd) FlagSet() *flag.FlagSet {
	return b.fs
}

func parseBrowseCmd(args []string, r *root) (*browseCmd, error) {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	b := &browseCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(b)
	fs.DurationVar(&b.timeout, "timeout", 2*time.Second, "how long to wait for announcements")
	fs.BoolVar(&b.follow, "follow", false, "print the events of the first feed found")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		b.url = fs.Arg(0)
		b.follow = true
	default:
		return nil, &UsageError{of: b}
	}
	if b.timeout < 0 {
		return nil, fmt.Errorf("-timeout must not be negative")
	}
	return b, nil
}

func (b *browseCmd) Run() error {
	url := b.url
	if url == "" {
		var found []string
		err := feed.Browse(b.timeout, func(u string) {
			found = append(found, u)
			fmt.Fprintln(b.out, u)
		})
		if err != nil {
			return fmt.Errorf("browse: %w", err)
		}
		if len(found) == 0 {
			fmt.Fprintln(os.Stderr, "no feeds found")
			return nil
		}
		if !b.follow {
			return nil
		}
		url = found[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	fmt.Fprintf(os.Stderr, "following %s\n", url)
	enc := json.NewEncoder(b.out)
	err := feed.Follow(ctx, url, func(m feed.Message) {
		if err := enc.Encode(m); err != nil {
			fmt.Fprintf(os.Stderr, "write: %v\n", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
