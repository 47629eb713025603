package input

import (
	"strings"
	"unicode"
)

// Reserved action identifiers. These form a closed set checked only
// inside ResolveEvent; they are never looked up in the binding store.
const (
	// ActionAnyInput, when registered, catches every raw event that no
	// registered action's bindings match.
	ActionAnyInput = "ANY_INPUT"
	// ActionCoordinate, when registered, captures mouse events into the
	// coordinate state instead of searching the binding tables.
	ActionCoordinate = "COORDINATE"
	// ActionError is returned when an event resolves to nothing.
	ActionError = "ERROR"
)

// DefaultHotkeys is the candidate set handed to
// AvailableSingleCharHotkeys when the caller has no preference. Note the
// lowercase run skips l through o.
const DefaultHotkeys = "abcdefghijkpqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-=:;'\",./<>?!@#$%^&*()_+[]\\{}|`~"

// Context is a per-screen handle over the actions currently meaningful
// there. It registers a subset of action ids, pulls raw events from the
// Manager's source, and resolves them to registered actions, applying
// default-context fallback, ANY_INPUT, and COORDINATE semantics.
//
// A Context holds a non-owning reference to its Manager and lives only
// as long as its screen is active.
type Context struct {
	mgr      *Manager
	category string

	registered []string
	overrides  map[string]string

	iso bool

	coordX, coordY int
	coordsActive   bool

	lastEvent Event
}

// NewContext returns a context resolving against category's bindings,
// with the default context as fallback.
func NewContext(mgr *Manager, category string) *Context {
	return &Context{
		mgr:       mgr,
		category:  category,
		overrides: make(map[string]string),
	}
}

// Category returns the context name this handle resolves against.
func (c *Context) Category() string {
	return c.category
}

// Register adds action to the registered set. Registration is idempotent
// and registration order determines resolution order.
func (c *Context) Register(action string) {
	if c.IsRegistered(action) {
		return
	}
	c.registered = append(c.registered, action)
}

// RegisterWithName registers action and overrides its display name for
// the lifetime of this context instance.
func (c *Context) RegisterWithName(action, name string) {
	c.Register(action)
	c.overrides[action] = name
}

// IsRegistered reports whether action is in the registered set.
func (c *Context) IsRegistered(action string) bool {
	for _, id := range c.registered {
		if id == action {
			return true
		}
	}
	return false
}

// RegisteredActions returns a copy of the registered ids in registration
// order.
func (c *Context) RegisteredActions() []string {
	return append([]string(nil), c.registered...)
}

// RegisterUpDown registers the vertical movement actions.
func (c *Context) RegisterUpDown() {
	c.Register("UP")
	c.Register("DOWN")
}

// RegisterLeftRight registers the horizontal movement actions.
func (c *Context) RegisterLeftRight() {
	c.Register("LEFT")
	c.Register("RIGHT")
}

// RegisterCardinal registers the four cardinal movement actions.
func (c *Context) RegisterCardinal() {
	c.RegisterUpDown()
	c.RegisterLeftRight()
}

// RegisterDirections registers all eight movement actions.
func (c *Context) RegisterDirections() {
	c.RegisterCardinal()
	c.Register("LEFTUP")
	c.Register("LEFTDOWN")
	c.Register("RIGHTUP")
	c.Register("RIGHTDOWN")
}

// HandleInput pulls one raw event from the Manager's source and resolves
// it. This is the engine's only blocking call; it waits up to the
// configured timeout, and timeout itself arrives as a resolvable event.
func (c *Context) HandleInput() string {
	return c.ResolveEvent(c.mgr.PollEvent())
}

// ResolveEvent resolves one raw event against the registered actions:
//
// A mouse event with ActionCoordinate registered is captured into the
// coordinate state without touching the binding tables. Otherwise the
// registered actions are scanned in registration order and the first
// whose bound events (category with default fallback) contain an equal
// event wins. An event matching nothing resolves to ActionAnyInput when
// registered, else ActionError. Timeout and error events take the same
// scan, so an action bound to a timeout event sees periodic wake-ups.
//
// The event is retained and remains available through LastEvent
// regardless of the outcome, so callers needing the literal text payload
// can read it even after an action matched.
func (c *Context) ResolveEvent(ev Event) string {
	c.lastEvent = ev.Clone()

	if ev.Kind == KindMouse && c.IsRegistered(ActionCoordinate) {
		c.coordX = ev.MouseX
		c.coordY = ev.MouseY
		c.coordsActive = true
		return ActionCoordinate
	}

	for _, id := range c.registered {
		if c.actionUsesEvent(id, ev) {
			return id
		}
	}

	if c.IsRegistered(ActionAnyInput) {
		return ActionAnyInput
	}
	return ActionError
}

// actionUsesEvent reports whether the action's resolved bindings contain
// an event equal to ev.
func (c *Context) actionUsesEvent(action string, ev Event) bool {
	attrs, found, _ := c.mgr.lookup(action, c.category)
	if !found {
		return false
	}
	for _, bound := range attrs.Events {
		if bound.Equal(ev) {
			return true
		}
	}
	return false
}

// LastEvent returns the raw event behind the most recent resolution.
func (c *Context) LastEvent() Event {
	return c.lastEvent.Clone()
}

// Coordinates returns the mouse position captured by the most recent
// coordinate resolution. The flag stays false until a mouse event has
// been captured on this context.
func (c *Context) Coordinates() (x, y int, ok bool) {
	return c.coordX, c.coordY, c.coordsActive
}

// Conflicts returns a user-presentable list of the actions resolvable
// from this context whose bound events already contain an event equal to
// ev, or "" when the event is free. The editing action id is excluded so
// a rebinding dialog does not report the action being edited as its own
// conflict.
func (c *Context) Conflicts(ev Event, editing string) string {
	var names []string
	for _, id := range c.mgr.ActionIDs(c.category) {
		if id == editing {
			continue
		}
		if c.actionUsesEvent(id, ev) {
			names = append(names, c.ActionName(id))
		}
	}
	return strings.Join(names, ", ")
}

// ClearConflicts removes ev from the bound events of every registered
// action, in both this context's category and the default context, so a
// following AddBinding leaves exactly one registered action bound to the
// event. Other events on those actions are untouched.
func (c *Context) ClearConflicts(ev Event) {
	for _, id := range c.registered {
		c.mgr.RemoveEvent(id, c.category, ev)
		c.mgr.RemoveEvent(id, DefaultContext, ev)
	}
}

// AvailableSingleCharHotkeys returns requested minus every character
// already bound, modifier-free, to any action resolvable from this
// context. Order of requested is preserved. Pass DefaultHotkeys for the
// standard candidate set.
func (c *Context) AvailableSingleCharHotkeys(requested string) string {
	used := make(map[rune]bool)
	for _, id := range c.mgr.ActionIDs(c.category) {
		attrs, found, _ := c.mgr.lookup(id, c.category)
		if !found {
			continue
		}
		for _, ev := range attrs.Events {
			if ev.Kind != KindKeyboard || len(ev.Modifiers) > 0 {
				continue
			}
			for _, code := range ev.Sequence {
				if code > 0 && code <= unicode.MaxRune {
					used[rune(code)] = true
				}
			}
		}
	}

	var b strings.Builder
	for _, r := range requested {
		if !used[r] {
			b.WriteRune(r)
		}
	}
	return b.String()
}
