package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dvaldron/inputmap/internal/input"
	"github.com/dvaldron/inputmap/internal/input/keycode"
)

// bindingsDoc is the on-disk shape of a bindings file.
type bindingsDoc struct {
	Contexts map[string]map[string]actionDoc `json:"contexts" yaml:"contexts"`
	Keycodes *keycodesDoc                    `json:"keycodes,omitempty" yaml:"keycodes,omitempty"`
}

// keycodesDoc carries additions to the key-name tables. Entries are
// installed before any event names are resolved, so a file may bind
// keys it names itself.
type keycodesDoc struct {
	Keyboard map[string]int `json:"keyboard,omitempty" yaml:"keyboard,omitempty"`
	Gamepad  map[string]int `json:"gamepad,omitempty" yaml:"gamepad,omitempty"`
}

type actionDoc struct {
	Name        string     `json:"name,omitempty" yaml:"name,omitempty"`
	UserCreated bool       `json:"user_created,omitempty" yaml:"user_created,omitempty"`
	// Events may be empty: an action entry with no events is how a user
	// file records "unbound here", shadowing any default bindings.
	Events []eventDoc `json:"events" yaml:"events"`
}

type eventDoc struct {
	Kind string   `json:"kind" yaml:"kind"`
	Keys []string `json:"keys" yaml:"keys"`
	Mods []string `json:"mods,omitempty" yaml:"mods,omitempty"`
}

// Bindings is one fully validated bindings document, parsed and
// name-resolved but not yet applied to any store.
type Bindings struct {
	// Path is the file the document was read from.
	Path string

	keyboard map[string]int
	gamepad  map[string]int
	contexts map[string]map[string]input.ActionAttributes
}

// LoadBindings reads and validates the bindings document at path.
// Event key and modifier names are resolved against a staging copy of
// tables extended with the document's own keycode entries, so a
// rejected file provably changes nothing. A missing file is not an
// error; it loads as nil.
func LoadBindings(path string, tables *keycode.Tables) (*Bindings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading bindings file %s: %w", path, err)
	}

	var doc bindingsDoc
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	b := &Bindings{
		Path:     path,
		contexts: make(map[string]map[string]input.ActionAttributes, len(doc.Contexts)),
	}

	staged := tables.Clone()
	if doc.Keycodes != nil {
		if err := b.stageKeycodes(doc.Keycodes, staged); err != nil {
			return nil, err
		}
	}

	for context, actions := range doc.Contexts {
		if context == "" {
			return nil, &ParseError{Path: path, Message: "empty context name"}
		}
		resolved := make(map[string]input.ActionAttributes, len(actions))
		for id, action := range actions {
			if id == "" {
				return nil, &ParseError{Path: path, Context: context, Message: "empty action id"}
			}
			attrs, err := resolveAction(path, context, id, action, staged)
			if err != nil {
				return nil, err
			}
			resolved[id] = attrs
		}
		b.contexts[context] = resolved
	}
	return b, nil
}

// stageKeycodes validates the document's keycode entries and installs
// them into the staging tables.
func (b *Bindings) stageKeycodes(doc *keycodesDoc, staged *keycode.Tables) error {
	b.keyboard = make(map[string]int, len(doc.Keyboard))
	for name, code := range doc.Keyboard {
		if name == "" || code <= 0 {
			return &ParseError{Path: b.Path, Message: fmt.Sprintf("bad keyboard keycode entry %q = %d", name, code)}
		}
		b.keyboard[name] = code
		staged.Add(code, name)
	}
	b.gamepad = make(map[string]int, len(doc.Gamepad))
	for name, code := range doc.Gamepad {
		if name == "" || code < 0 {
			return &ParseError{Path: b.Path, Message: fmt.Sprintf("bad gamepad keycode entry %q = %d", name, code)}
		}
		b.gamepad[name] = code
		staged.AddGamepad(code, name)
	}
	return nil
}

func resolveAction(path, context, id string, doc actionDoc, tables *keycode.Tables) (input.ActionAttributes, error) {
	attrs := input.ActionAttributes{
		Name:        doc.Name,
		UserCreated: doc.UserCreated,
	}
	fail := func(format string, args ...any) (input.ActionAttributes, error) {
		return input.ActionAttributes{}, &ParseError{
			Path: path, Context: context, Action: id,
			Message: fmt.Sprintf(format, args...),
		}
	}

	for _, ev := range doc.Events {
		kind, ok := input.ParseKind(ev.Kind)
		if !ok {
			return fail("unknown event kind %q", ev.Kind)
		}
		if kind == input.KindError || kind == input.KindTimeout {
			return fail("event kind %q is not bindable", ev.Kind)
		}
		if len(ev.Keys) == 0 {
			return fail("event has no keys")
		}

		out := input.Event{Kind: kind}
		for _, name := range ev.Keys {
			code, ok := tables.Code(name)
			if !ok {
				return fail("unknown key name %q", name)
			}
			out.Sequence = append(out.Sequence, code)
		}
		var mods []int
		for _, name := range ev.Mods {
			mod := input.ModCode(name)
			if mod == 0 {
				return fail("unknown modifier %q", name)
			}
			mods = append(mods, mod)
		}
		out.Modifiers = input.NormalizeModifiers(mods)
		attrs.Events = append(attrs.Events, out)
	}
	return attrs, nil
}

// Apply installs the document into m: keycode entries first, then every
// (context, action) pair, each fully replacing whatever the store held
// for it. With userPrefs set, actions the store did not already know
// are marked user-created. Applying a nil document is a no-op.
func (b *Bindings) Apply(m *input.Manager, userPrefs bool) {
	if b == nil {
		return
	}

	tables := m.Tables()
	for _, name := range sortedKeys(b.keyboard) {
		tables.Add(b.keyboard[name], name)
	}
	for _, name := range sortedKeys(b.gamepad) {
		tables.AddGamepad(b.gamepad[name], name)
	}

	existing := m.Snapshot()

	// The default context goes first so that display-name fallback for
	// the other contexts sees names this same document establishes.
	order := make([]string, 0, len(b.contexts))
	if _, ok := b.contexts[input.DefaultContext]; ok {
		order = append(order, input.DefaultContext)
	}
	for _, context := range sortedKeys(b.contexts) {
		if context != input.DefaultContext {
			order = append(order, context)
		}
	}

	for _, context := range order {
		actions := b.contexts[context]
		for _, id := range sortedKeys(actions) {
			attrs := actions[id]
			if userPrefs && !attrs.UserCreated {
				if _, ok := existing[context][id]; !ok {
					attrs.UserCreated = true
				}
			}
			m.SetBindings(id, context, attrs)
		}
	}
}

// Contexts returns the context names the document defines.
func (b *Bindings) Contexts() []string {
	if b == nil {
		return nil
	}
	return sortedKeys(b.contexts)
}

// SaveBindings writes m's complete state, contexts and keycode tables
// both, to path in the format the extension selects. The write is
// atomic: a temp file in the same directory is renamed over path.
func SaveBindings(path string, m *input.Manager) error {
	doc, err := documentFor(path, m)
	if err != nil {
		return err
	}

	var data []byte
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if data, err = json.MarshalIndent(doc, "", "  "); err == nil {
			data = append(data, '\n')
		}
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return fmt.Errorf("encoding bindings for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".bindings-*")
	if err != nil {
		return fmt.Errorf("saving bindings to %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("saving bindings to %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("saving bindings to %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("saving bindings to %s: %w", path, err)
	}
	return nil
}

// documentFor builds the serializable document for m's current state.
func documentFor(path string, m *input.Manager) (*bindingsDoc, error) {
	tables := m.Tables()
	doc := &bindingsDoc{
		Contexts: make(map[string]map[string]actionDoc),
		Keycodes: &keycodesDoc{
			Keyboard: tables.KeyboardTable(),
			Gamepad:  tables.GamepadTable(),
		},
	}

	for context, actions := range m.Snapshot() {
		out := make(map[string]actionDoc, len(actions))
		for id, attrs := range actions {
			action := actionDoc{
				Name:        attrs.Name,
				UserCreated: attrs.UserCreated,
				Events:      []eventDoc{},
			}
			for _, ev := range attrs.Events {
				encoded, err := encodeEvent(path, context, id, ev, tables)
				if err != nil {
					return nil, err
				}
				action.Events = append(action.Events, encoded)
			}
			out[id] = action
		}
		doc.Contexts[context] = out
	}
	return doc, nil
}

func encodeEvent(path, context, id string, ev input.Event, tables *keycode.Tables) (eventDoc, error) {
	out := eventDoc{Kind: ev.Kind.String()}
	for _, code := range ev.Sequence {
		name := tables.Name(code, ev.Kind.Device(), true)
		if name == "" {
			return eventDoc{}, fmt.Errorf("saving %s: action %q in context %q binds keycode %d: %w",
				path, id, context, code, ErrUnnameableKey)
		}
		out.Keys = append(out.Keys, name)
	}
	for _, mod := range ev.Modifiers {
		out.Mods = append(out.Mods, input.ModName(mod))
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
