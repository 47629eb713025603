package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dvaldron/inputmap/internal/input"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "settings.toml", `
poll_timeout_ms = 125
log_level = "error"
bindings = ["defaults.json"]
user_bindings = "user.json"
`)
	writeFile(t, dir, "defaults.json", `{
  "contexts": {
    "default": {
      "UP": {"name": "Move up", "events": [{"kind": "keyboard", "keys": ["k"]}]},
      "QUIT": {"name": "Quit", "events": [{"kind": "keyboard", "keys": ["q"]}]}
    }
  }
}`)
	writeFile(t, dir, "user.json", `{
  "contexts": {
    "default": {
      "UP": {"events": [{"kind": "keyboard", "keys": ["UP"]}]}
    }
  }
}`)
	return dir
}

func TestNewLoadsDocumentsInOrder(t *testing.T) {
	dir := writeConfigDir(t)

	a, err := New(Options{ConfigPath: filepath.Join(dir, "settings.toml")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Shutdown()

	m := a.Manager()
	if got := m.Timeout(); got != 125*time.Millisecond {
		t.Errorf("Timeout() = %v, want 125ms", got)
	}

	// The user overlay fully replaced UP's event list.
	events, _ := m.EventsFor("UP", input.DefaultContext)
	if len(events) != 1 || events[0].FirstInput() != m.Keycode("UP") {
		t.Errorf("EventsFor(UP) = %v, want the arrow key alone", events)
	}

	// QUIT came from the defaults file untouched.
	events, _ = m.EventsFor("QUIT", input.DefaultContext)
	if len(events) != 1 || events[0].FirstInput() != 'q' {
		t.Errorf("EventsFor(QUIT) = %v, want %q", events, "q")
	}

	// UP pre-existed the user overlay, so it is not user-created.
	attrs, _ := m.AttributesFor("UP", input.DefaultContext)
	if attrs.UserCreated {
		t.Error("UP marked user-created")
	}
	if attrs.Name != "Move up" {
		t.Errorf("UP name = %q, want %q", attrs.Name, "Move up")
	}
}

func TestNewInstallsBuiltinsWithoutDocuments(t *testing.T) {
	a, err := New(Options{LogLevel: "error"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Shutdown()

	m := a.Manager()
	for _, action := range []string{"UP", "DOWN", "LEFT", "RIGHT", "CONFIRM", "QUIT"} {
		if events, _ := m.EventsFor(action, input.DefaultContext); len(events) == 0 {
			t.Errorf("builtin %s has no bindings", action)
		}
	}
}

func TestNewRejectsBrokenDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "settings.toml", `bindings = ["broken.json"]`)
	writeFile(t, dir, "broken.json", `{"contexts": {`)

	if _, err := New(Options{ConfigPath: filepath.Join(dir, "settings.toml")}); err == nil {
		t.Fatal("New() accepted a broken defaults document")
	}
}

func TestNewToleratesBrokenUserOverlay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "settings.toml", `
log_level = "error"
bindings = ["defaults.json"]
user_bindings = "user.json"
`)
	writeFile(t, dir, "defaults.json", `{
  "contexts": {"default": {"UP": {"events": [{"kind": "keyboard", "keys": ["k"]}]}}}
}`)
	writeFile(t, dir, "user.json", `{"contexts": {`)

	a, err := New(Options{ConfigPath: filepath.Join(dir, "settings.toml")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Shutdown()

	// Defaults survive; the broken overlay was skipped.
	events, _ := a.Manager().EventsFor("UP", input.DefaultContext)
	if len(events) != 1 || events[0].FirstInput() != 'k' {
		t.Errorf("EventsFor(UP) = %v, want the defaults binding", events)
	}
}

func TestReloadPreservesOverlayOrder(t *testing.T) {
	dir := writeConfigDir(t)

	a, err := New(Options{ConfigPath: filepath.Join(dir, "settings.toml")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Shutdown()

	// Rewrite the defaults file. After reload the user overlay must
	// still win for UP, while the defaults change lands for QUIT.
	writeFile(t, dir, "defaults.json", `{
  "contexts": {
    "default": {
      "UP": {"name": "Move up", "events": [{"kind": "keyboard", "keys": ["w"]}]},
      "QUIT": {"name": "Quit", "events": [{"kind": "keyboard", "keys": ["ESC"]}]}
    }
  }
}`)
	a.Reload()

	m := a.Manager()
	events, _ := m.EventsFor("UP", input.DefaultContext)
	if len(events) != 1 || events[0].FirstInput() != m.Keycode("UP") {
		t.Errorf("EventsFor(UP) after reload = %v, want the user overlay intact", events)
	}
	events, _ = m.EventsFor("QUIT", input.DefaultContext)
	if len(events) != 1 || events[0].FirstInput() != m.Keycode("ESC") {
		t.Errorf("EventsFor(QUIT) after reload = %v, want the new defaults binding", events)
	}
}

func TestDumpBindings(t *testing.T) {
	a, err := New(Options{LogLevel: "error"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Shutdown()

	var buf bytes.Buffer
	a.DumpBindings(&buf)

	out := buf.String()
	for _, want := range []string{"[default]", "UP", "Move up", "QUIT"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}
