package input

import (
	"sort"
	"time"

	"github.com/dvaldron/inputmap/internal/input/keycode"
)

// DefaultContext is the distinguished fallback context. Every action not
// overridden in a specific context resolves against its bindings here.
const DefaultContext = "default"

// ActionAttributes is the per-context record for one action identifier.
type ActionAttributes struct {
	// Name is the display name shown in menus and conflict reports.
	Name string
	// UserCreated is set when the action exists only because the user
	// bound something not present in the shipped defaults.
	UserCreated bool
	// Events are the raw events bound to the action, in insertion order.
	// Insertion order is display order.
	Events []Event
}

func (a ActionAttributes) clone() ActionAttributes {
	c := a
	if a.Events != nil {
		c.Events = make([]Event, len(a.Events))
		for i, ev := range a.Events {
			c.Events[i] = ev.Clone()
		}
	}
	return c
}

// Manager is the binding store: the source of truth for action/event
// bindings per context, keycode translation, and the poll timeout. It is
// constructed once at startup and passed to every Context.
//
// The Manager performs no internal locking. The intended deployment is
// single threaded, with callers serializing binding edits themselves.
type Manager struct {
	contexts map[string]map[string]*ActionAttributes
	tables   *keycode.Tables
	timeout  time.Duration
	prevKey  int
	source   Source
}

// Option configures a Manager during construction.
type Option func(*Manager)

// WithSource sets the platform event source polled by HandleInput.
func WithSource(s Source) Option {
	return func(m *Manager) { m.source = s }
}

// WithTables replaces the default keycode tables.
func WithTables(t *keycode.Tables) Option {
	return func(m *Manager) { m.tables = t }
}

// WithTimeout sets the initial poll timeout. The default is NoTimeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// NewManager returns a Manager with default keycode tables, no timeout,
// and the default context present.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		contexts: map[string]map[string]*ActionAttributes{
			DefaultContext: {},
		},
		tables:  keycode.Default(),
		timeout: NoTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ensure returns the action map for context, creating it if needed.
func (m *Manager) ensure(context string) map[string]*ActionAttributes {
	ctx, ok := m.contexts[context]
	if !ok {
		ctx = make(map[string]*ActionAttributes)
		m.contexts[context] = ctx
	}
	return ctx
}

// lookup is the single fallback rule shared by every read. It resolves
// action in context, falling back to the default context, and reports
// whether a context-specific record overrides a differing default.
func (m *Manager) lookup(action, context string) (attrs *ActionAttributes, found, overridden bool) {
	if ctx, ok := m.contexts[context]; ok {
		if attrs, ok := ctx[action]; ok {
			if context != DefaultContext {
				if def, ok := m.contexts[DefaultContext][action]; ok && !eventsEqual(attrs.Events, def.Events) {
					overridden = true
				}
			}
			return attrs, true, overridden
		}
	}
	if context != DefaultContext {
		if attrs, ok := m.contexts[DefaultContext][action]; ok {
			return attrs, true, false
		}
	}
	return nil, false, false
}

// EventsFor returns the events bound to action when resolved from
// context. The overridden result is true only when the context holds its
// own record for the action and the default context holds a different
// event list, signalling that a context-specific override supersedes the
// shared default. An action absent from both contexts yields nil, false.
func (m *Manager) EventsFor(action, context string) (events []Event, overridden bool) {
	attrs, found, overridden := m.lookup(action, context)
	if !found {
		return nil, false
	}
	out := make([]Event, len(attrs.Events))
	for i, ev := range attrs.Events {
		out[i] = ev.Clone()
	}
	return out, overridden
}

// AttributesFor is EventsFor over the full attribute record. An action
// absent from both contexts yields a zero record and false.
func (m *Manager) AttributesFor(action, context string) (attrs ActionAttributes, overridden bool) {
	rec, found, overridden := m.lookup(action, context)
	if !found {
		return ActionAttributes{}, false
	}
	return rec.clone(), overridden
}

// HasAction reports whether action exists in context itself, without
// default fallback.
func (m *Manager) HasAction(action, context string) bool {
	_, ok := m.contexts[context][action]
	return ok
}

// AddBinding appends ev to the action's event list in context. A missing
// action is created as user made, named after the default context's
// record when one exists and the action id otherwise.
func (m *Manager) AddBinding(action, context string, ev Event) {
	ctx := m.ensure(context)
	attrs, ok := ctx[action]
	if !ok {
		attrs = &ActionAttributes{
			Name:        m.defaultActionName(action),
			UserCreated: true,
		}
		ctx[action] = attrs
	}
	attrs.Events = append(attrs.Events, ev.Clone())
}

// RemoveBindings clears every event bound to action in context. The
// action entry itself is kept, preserving its name; a cleared entry in a
// non-default context still shadows the default context's bindings.
func (m *Manager) RemoveBindings(action, context string) {
	if attrs, ok := m.contexts[context][action]; ok {
		attrs.Events = nil
	}
}

// RemoveEvent removes every event equal to ev from the action's list in
// context, leaving other events untouched.
func (m *Manager) RemoveEvent(action, context string, ev Event) {
	attrs, ok := m.contexts[context][action]
	if !ok {
		return
	}
	kept := attrs.Events[:0]
	for _, bound := range attrs.Events {
		if !bound.Equal(ev) {
			kept = append(kept, bound)
		}
	}
	attrs.Events = kept
}

// SetBindings installs a full attribute record for action in context,
// replacing any previous record. Loaders use this so that a later file
// fully replaces a (context, action) pair rather than merging into it.
func (m *Manager) SetBindings(action, context string, attrs ActionAttributes) {
	c := attrs.clone()
	if c.Name == "" {
		c.Name = m.defaultActionName(action)
	}
	m.ensure(context)[action] = &c
}

// defaultActionName is the display name a newly created action receives:
// the default context's name for the same action when present, else the
// action id itself.
func (m *Manager) defaultActionName(action string) string {
	if def, ok := m.contexts[DefaultContext][action]; ok && def.Name != "" {
		return def.Name
	}
	return action
}

// ContextNames returns all context names in sorted order.
func (m *Manager) ContextNames() []string {
	names := make([]string, 0, len(m.contexts))
	for name := range m.contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActionsIn returns the action ids present in context itself, sorted,
// without default fallback.
func (m *Manager) ActionsIn(context string) []string {
	ctx := m.contexts[context]
	ids := make([]string, 0, len(ctx))
	for id := range ctx {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ActionIDs returns the sorted union of action ids present in context and
// in the default context, the full set resolvable from context.
func (m *Manager) ActionIDs(context string) []string {
	seen := make(map[string]bool)
	for id := range m.contexts[context] {
		seen[id] = true
	}
	for id := range m.contexts[DefaultContext] {
		seen[id] = true
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns a deep copy of every context's bindings, keyed by
// context name then action id.
func (m *Manager) Snapshot() map[string]map[string]ActionAttributes {
	out := make(map[string]map[string]ActionAttributes, len(m.contexts))
	for name, ctx := range m.contexts {
		actions := make(map[string]ActionAttributes, len(ctx))
		for id, attrs := range ctx {
			actions[id] = attrs.clone()
		}
		out[name] = actions
	}
	return out
}

// Tables returns the keycode tables the store translates through.
func (m *Manager) Tables() *keycode.Tables {
	return m.tables
}

// Keycode returns the code registered for a key name, or 0 for an
// unknown name. Use Tables().Code to tell an unknown name apart from
// gamepad button zero.
func (m *Manager) Keycode(name string) int {
	code, _ := m.tables.Code(name)
	return code
}

// KeyName returns the name for a code on the given device class. See
// keycode.Tables.Name for the portable contract.
func (m *Manager) KeyName(code int, device keycode.Device, portable bool) string {
	return m.tables.Name(code, device, portable)
}

// SetTimeout configures the blocking-read timeout used by PollEvent.
// NoTimeout blocks indefinitely; zero and positive values make the
// source synthesize a KindTimeout event when nothing arrives in time.
func (m *Manager) SetTimeout(d time.Duration) {
	m.timeout = d
}

// Timeout returns the configured poll timeout.
func (m *Manager) Timeout() time.Duration {
	return m.timeout
}

// SetSource replaces the platform event source.
func (m *Manager) SetSource(s Source) {
	m.source = s
}

// PollEvent pulls one raw event from the source using the configured
// timeout, recording the previously pressed key. With no source
// configured it returns a KindError event.
func (m *Manager) PollEvent() Event {
	if m.source == nil {
		return Event{Kind: KindError, Text: "no input source"}
	}
	ev := m.source.PollEvent(m.timeout)
	if ev.Kind == KindKeyboard {
		m.prevKey = ev.FirstInput()
	} else {
		m.prevKey = 0
	}
	return ev
}

// PreviouslyPressedKey returns the keyboard code of the most recently
// delivered event, or 0 when nothing has been delivered yet or the most
// recent event was not a keyboard event.
func (m *Manager) PreviouslyPressedKey() int {
	return m.prevKey
}
