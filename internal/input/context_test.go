package input

import (
	"testing"

	"github.com/dvaldron/inputmap/internal/input/keycode"
)

// menuManager builds a store with a few bindings split between the
// default context and a MENU context.
func menuManager() *Manager {
	m := NewManager()
	m.SetBindings("CONFIRM", DefaultContext, ActionAttributes{
		Name:   "Confirm",
		Events: []Event{NewEvent(KindKeyboard, keycode.KeyReturn)},
	})
	m.SetBindings("CANCEL", DefaultContext, ActionAttributes{
		Name:   "Cancel",
		Events: []Event{NewEvent(KindKeyboard, keycode.KeyEscape)},
	})
	m.SetBindings("UP", DefaultContext, ActionAttributes{
		Name:   "Move up",
		Events: []Event{NewEvent(KindKeyboard, 'k'), NewEvent(KindGamepad, keycode.JoyUp)},
	})
	m.SetBindings("UP", "MENU", ActionAttributes{
		Name:   "Previous entry",
		Events: []Event{NewEvent(KindKeyboard, 'w')},
	})
	return m
}

func TestResolveEventRegistrationOrder(t *testing.T) {
	m := NewManager()
	shared := NewEvent(KindKeyboard, 'x')
	m.AddBinding("FIRST", DefaultContext, shared)
	m.AddBinding("SECOND", DefaultContext, shared)

	c := NewContext(m, "MENU")
	c.Register("SECOND")
	c.Register("FIRST")

	if got := c.ResolveEvent(shared); got != "SECOND" {
		t.Errorf("ResolveEvent = %q, want first registered action to win", got)
	}
}

func TestResolveEventContextOverride(t *testing.T) {
	m := menuManager()
	c := NewContext(m, "MENU")
	c.Register("UP")

	if got := c.ResolveEvent(NewEvent(KindKeyboard, 'w')); got != "UP" {
		t.Errorf("context-local binding did not resolve, got %q", got)
	}

	// The default context's 'k' is shadowed by MENU's own UP record.
	if got := c.ResolveEvent(NewEvent(KindKeyboard, 'k')); got != ActionError {
		t.Errorf("shadowed default binding resolved to %q", got)
	}
}

func TestResolveEventDefaultFallback(t *testing.T) {
	m := menuManager()
	c := NewContext(m, "MENU")
	c.Register("CONFIRM")

	if got := c.ResolveEvent(NewEvent(KindKeyboard, keycode.KeyReturn)); got != "CONFIRM" {
		t.Errorf("default fallback did not resolve, got %q", got)
	}
}

func TestResolveEventUnregisteredActionIgnored(t *testing.T) {
	m := menuManager()
	c := NewContext(m, "MENU")
	c.Register("CONFIRM")

	// CANCEL is bound in the store but not registered on this context.
	if got := c.ResolveEvent(NewEvent(KindKeyboard, keycode.KeyEscape)); got != ActionError {
		t.Errorf("unregistered action resolved to %q", got)
	}
}

func TestResolveEventAnyInput(t *testing.T) {
	m := menuManager()
	c := NewContext(m, "MENU")
	c.Register("CONFIRM")
	c.Register(ActionAnyInput)

	if got := c.ResolveEvent(NewEvent(KindKeyboard, 'x')); got != ActionAnyInput {
		t.Errorf("unmatched event = %q, want ANY_INPUT", got)
	}

	// A real match still wins over the catch-all.
	if got := c.ResolveEvent(NewEvent(KindKeyboard, keycode.KeyReturn)); got != "CONFIRM" {
		t.Errorf("bound event = %q, want CONFIRM", got)
	}
}

func TestResolveEventCoordinate(t *testing.T) {
	m := menuManager()
	m.AddBinding("CLICK", DefaultContext, NewEvent(KindMouse, keycode.MouseLeft))

	c := NewContext(m, "MENU")
	c.Register("CLICK")
	c.Register(ActionCoordinate)

	if _, _, ok := c.Coordinates(); ok {
		t.Fatal("coordinates reported received before any mouse event")
	}

	// Even an event bound to CLICK goes to coordinate capture.
	ev := Event{Kind: KindMouse, Sequence: []int{keycode.MouseLeft}, MouseX: 5, MouseY: 10}
	if got := c.ResolveEvent(ev); got != ActionCoordinate {
		t.Fatalf("mouse event = %q, want COORDINATE", got)
	}

	x, y, ok := c.Coordinates()
	if !ok || x != 5 || y != 10 {
		t.Errorf("Coordinates() = (%d, %d, %v), want (5, 10, true)", x, y, ok)
	}
}

func TestResolveEventMouseWithoutCoordinate(t *testing.T) {
	m := menuManager()
	m.AddBinding("CLICK", DefaultContext, NewEvent(KindMouse, keycode.MouseLeft))

	c := NewContext(m, "MENU")
	c.Register("CLICK")

	ev := Event{Kind: KindMouse, Sequence: []int{keycode.MouseLeft}, MouseX: 3, MouseY: 4}
	if got := c.ResolveEvent(ev); got != "CLICK" {
		t.Errorf("mouse event without COORDINATE = %q, want CLICK", got)
	}
	if _, _, ok := c.Coordinates(); ok {
		t.Error("coordinate state set without COORDINATE registered")
	}
}

func TestResolveEventTimeout(t *testing.T) {
	m := menuManager()
	c := NewContext(m, "MENU")
	c.Register("CONFIRM")

	if got := c.ResolveEvent(Event{Kind: KindTimeout}); got != ActionError {
		t.Errorf("unbound timeout = %q, want ERROR", got)
	}

	// An action bound to the timeout event sees periodic wake-ups.
	m.AddBinding("REFRESH", "MENU", Event{Kind: KindTimeout})
	c.Register("REFRESH")
	if got := c.ResolveEvent(Event{Kind: KindTimeout}); got != "REFRESH" {
		t.Errorf("bound timeout = %q, want REFRESH", got)
	}
}

func TestHandleInputPolls(t *testing.T) {
	src := &stubSource{events: []Event{NewEvent(KindKeyboard, keycode.KeyReturn)}}
	m := menuManager()
	m.SetSource(src)

	c := NewContext(m, "MENU")
	c.Register("CONFIRM")

	if got := c.HandleInput(); got != "CONFIRM" {
		t.Errorf("HandleInput() = %q, want CONFIRM", got)
	}
	if got := c.HandleInput(); got != ActionError {
		t.Errorf("HandleInput() on exhausted source = %q, want ERROR", got)
	}
}

func TestLastEventKeepsText(t *testing.T) {
	m := menuManager()
	c := NewContext(m, "MENU")
	c.Register("CONFIRM")

	ev := NewEvent(KindKeyboard, keycode.KeyReturn)
	ev.Text = "\n"
	if got := c.ResolveEvent(ev); got != "CONFIRM" {
		t.Fatalf("ResolveEvent = %q", got)
	}

	// The text payload survives resolution even though an action matched.
	if got := c.LastEvent().Text; got != "\n" {
		t.Errorf("LastEvent().Text = %q, want the raw payload", got)
	}
}

func TestRegisterIdempotent(t *testing.T) {
	m := NewManager()
	c := NewContext(m, "MENU")
	c.Register("UP")
	c.Register("DOWN")
	c.Register("UP")

	got := c.RegisteredActions()
	if len(got) != 2 || got[0] != "UP" || got[1] != "DOWN" {
		t.Errorf("RegisteredActions() = %v", got)
	}
}

func TestRegisterShortcuts(t *testing.T) {
	tests := []struct {
		name     string
		register func(*Context)
		want     []string
	}{
		{"updown", (*Context).RegisterUpDown, []string{"UP", "DOWN"}},
		{"leftright", (*Context).RegisterLeftRight, []string{"LEFT", "RIGHT"}},
		{"cardinal", (*Context).RegisterCardinal, []string{"UP", "DOWN", "LEFT", "RIGHT"}},
		{"directions", (*Context).RegisterDirections,
			[]string{"UP", "DOWN", "LEFT", "RIGHT", "LEFTUP", "LEFTDOWN", "RIGHTUP", "RIGHTDOWN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext(NewManager(), "MENU")
			tt.register(c)
			got := c.RegisteredActions()
			if len(got) != len(tt.want) {
				t.Fatalf("registered %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("registered %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestConflicts(t *testing.T) {
	m := menuManager()
	c := NewContext(m, "MENU")

	ret := NewEvent(KindKeyboard, keycode.KeyReturn)

	if got := c.Conflicts(ret, ""); got != "Confirm" {
		t.Errorf("Conflicts() = %q, want %q", got, "Confirm")
	}
	if got := c.Conflicts(ret, "CONFIRM"); got != "" {
		t.Errorf("Conflicts() excluding the edited action = %q, want empty", got)
	}
	if got := c.Conflicts(NewEvent(KindKeyboard, 'z'), ""); got != "" {
		t.Errorf("Conflicts() for a free event = %q, want empty", got)
	}
}

func TestConflictsListsAll(t *testing.T) {
	m := NewManager()
	shared := NewEvent(KindKeyboard, 'x')
	m.SetBindings("ALPHA", DefaultContext, ActionAttributes{Name: "Alpha", Events: []Event{shared}})
	m.SetBindings("BETA", "MENU", ActionAttributes{Name: "Beta", Events: []Event{shared}})

	c := NewContext(m, "MENU")
	if got := c.Conflicts(shared, ""); got != "Alpha, Beta" {
		t.Errorf("Conflicts() = %q, want %q", got, "Alpha, Beta")
	}
}

func TestClearConflicts(t *testing.T) {
	m := NewManager()
	shared := NewEvent(KindKeyboard, 'x')
	other := NewEvent(KindKeyboard, 'y')
	m.AddBinding("ALPHA", DefaultContext, shared)
	m.AddBinding("ALPHA", DefaultContext, other)
	m.AddBinding("BETA", "MENU", shared)

	c := NewContext(m, "MENU")
	c.Register("ALPHA")
	c.Register("BETA")

	c.ClearConflicts(shared)
	c.mgr.AddBinding("GAMMA", "MENU", shared)
	c.Register("GAMMA")

	// Exactly one registered action remains bound to the event.
	if got := c.ResolveEvent(shared); got != "GAMMA" {
		t.Errorf("after ClearConflicts + AddBinding, event resolves to %q", got)
	}
	events, _ := m.EventsFor("ALPHA", DefaultContext)
	if len(events) != 1 || !events[0].Equal(other) {
		t.Errorf("ClearConflicts touched unrelated events: %v", events)
	}
	if events, _ := m.EventsFor("BETA", "MENU"); len(events) != 0 {
		t.Errorf("BETA still bound: %v", events)
	}
}

func TestAvailableSingleCharHotkeys(t *testing.T) {
	m := NewManager()
	m.AddBinding("BRAVO", DefaultContext, NewEvent(KindKeyboard, 'b'))
	m.AddBinding("MIKE", "MENU", NewEvent(KindKeyboard, 'm'))
	// Modified and non-keyboard bindings do not consume hotkeys.
	m.AddBinding("CUT", DefaultContext, NewEvent(KindKeyboard, 'c', ModCtrl))
	m.AddBinding("JOY", DefaultContext, NewEvent(KindGamepad, 'a'))

	c := NewContext(m, "MENU")

	tests := []struct {
		name      string
		requested string
		want      string
	}{
		{"single removal", "abc", "ac"},
		{"order preserved", "mab", "a"},
		{"modifier does not consume", "c", "c"},
		{"gamepad does not consume", "a", "a"},
		{"nothing bound", "xyz", "xyz"},
		{"empty request", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.AvailableSingleCharHotkeys(tt.requested); got != tt.want {
				t.Errorf("AvailableSingleCharHotkeys(%q) = %q, want %q", tt.requested, got, tt.want)
			}
		})
	}
}

func TestAvailableSingleCharHotkeysDefaultSet(t *testing.T) {
	m := NewManager()
	c := NewContext(m, "MENU")

	got := c.AvailableSingleCharHotkeys(DefaultHotkeys)
	if got != DefaultHotkeys {
		t.Errorf("unbound store altered the candidate set: %q", got)
	}

	m.AddBinding("QUIT", DefaultContext, NewEvent(KindKeyboard, 'q'))
	got = c.AvailableSingleCharHotkeys(DefaultHotkeys)
	if len(got) != len(DefaultHotkeys)-1 {
		t.Fatalf("expected exactly one removal, got %d -> %d", len(DefaultHotkeys), len(got))
	}
	for _, r := range got {
		if r == 'q' {
			t.Error("bound hotkey still available")
		}
	}
}
