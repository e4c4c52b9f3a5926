package notify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/polyshot/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func capture(n *Notifier) *[]sent {
	var out []sent
	n.WithSender(func(title, body string, opts platform.Options) error {
		out = append(out, sent{title, body, opts})
		return nil
	})
	return &out
}

func TestDisabledEventsAreSilent(t *testing.T) {
	n := New(DefaultPreferences())
	got := capture(n)
	n.Copy("shape")
	n.Save("x.png")
	if len(*got) != 0 {
		t.Fatalf("sent %+v", *got)
	}
	var nilNotifier *Notifier
	nilNotifier.Copy("x")
}

func TestSaveUsesImageAsIcon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	n.Enable(EventExport, true)
	got := capture(n)
	n.Save(path)
	n.Export(path)
	if len(*got) != 2 {
		t.Fatalf("sent %d notifications", len(*got))
	}
	if (*got)[0].body != "Saved "+path || (*got)[0].opts.IconPath != path {
		t.Fatalf("save notification = %+v", (*got)[0])
	}
	if (*got)[1].body != "Exported "+path || (*got)[1].opts.IconPath != "" {
		t.Fatalf("export notification = %+v", (*got)[1])
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("POLYSHOT_NOTIFY_TITLE", "Shapes")
	t.Setenv("POLYSHOT_NOTIFY_COPY_TEXT", "Clipboard now has %s")
	n := New(LoadPreferences())
	n.Enable(EventCopy, true)
	got := capture(n)
	n.Copy("")
	if len(*got) != 1 || (*got)[0].title != "Shapes" || (*got)[0].body != "Clipboard now has image" {
		t.Fatalf("sent %+v", *got)
	}
}
