package input

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dvaldron/inputmap/internal/input/keycode"
)

// Kind classifies a raw event by the device or condition that produced it.
type Kind uint8

const (
	// KindError marks events synthesized for failure conditions such as a
	// closed source.
	KindError Kind = iota
	// KindTimeout marks events synthesized when the poll timeout elapses.
	KindTimeout
	// KindKeyboard marks key presses.
	KindKeyboard
	// KindGamepad marks gamepad button presses.
	KindGamepad
	// KindMouse marks mouse buttons, wheel motion, and pointer movement.
	KindMouse
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindTimeout:
		return "timeout"
	case KindKeyboard:
		return "keyboard"
	case KindGamepad:
		return "gamepad"
	case KindMouse:
		return "mouse"
	default:
		return "unknown"
	}
}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "error":
		return KindError, true
	case "timeout":
		return KindTimeout, true
	case "keyboard":
		return KindKeyboard, true
	case "gamepad":
		return KindGamepad, true
	case "mouse":
		return KindMouse, true
	default:
		return KindError, false
	}
}

// Device returns the keycode device class used to name this kind's codes.
func (k Kind) Device() keycode.Device {
	switch k {
	case KindGamepad:
		return keycode.Gamepad
	case KindMouse:
		return keycode.Mouse
	default:
		return keycode.Keyboard
	}
}

// Modifier key codes carried in Event.Modifiers.
const (
	ModCtrl = iota + 1
	ModAlt
	ModShift
)

// ModName returns the configuration name of a modifier code, or "".
func ModName(mod int) string {
	switch mod {
	case ModCtrl:
		return "ctrl"
	case ModAlt:
		return "alt"
	case ModShift:
		return "shift"
	default:
		return ""
	}
}

// ModCode returns the modifier code for a configuration name, or 0.
func ModCode(name string) int {
	switch strings.ToLower(name) {
	case "ctrl":
		return ModCtrl
	case "alt":
		return ModAlt
	case "shift":
		return ModShift
	default:
		return 0
	}
}

// Event is one raw input occurrence. Sequence holds the key or button
// codes forming the event, length one for simple presses. Modifiers holds
// the modifier codes required held, kept sorted so equality can compare
// element-wise. MouseX, MouseY, and Text are payload only and do not
// participate in equality.
type Event struct {
	Kind      Kind
	Modifiers []int
	Sequence  []int
	MouseX    int
	MouseY    int
	Text      string
}

// NewEvent returns an event of the given kind holding a single code.
// Modifiers are normalized into sorted order.
func NewEvent(kind Kind, code int, mods ...int) Event {
	return Event{Kind: kind, Sequence: []int{code}, Modifiers: NormalizeModifiers(mods)}
}

// NormalizeModifiers sorts mods and drops duplicates and zero values,
// returning nil when nothing remains.
func NormalizeModifiers(mods []int) []int {
	if len(mods) == 0 {
		return nil
	}
	out := make([]int, 0, len(mods))
	for _, m := range mods {
		if m != 0 {
			out = append(out, m)
		}
	}
	sort.Ints(out)
	n := 0
	for i, m := range out {
		if i == 0 || m != out[i-1] {
			out[n] = m
			n++
		}
	}
	out = out[:n]
	if len(out) == 0 {
		return nil
	}
	return out
}

// FirstInput returns the first code of the sequence, or 0 for an empty
// event.
func (e Event) FirstInput() int {
	if len(e.Sequence) == 0 {
		return 0
	}
	return e.Sequence[0]
}

// AddInput appends a code to the sequence.
func (e *Event) AddInput(code int) {
	e.Sequence = append(e.Sequence, code)
}

// Equal reports whether two events are the same binding identity: same
// kind, same sequence, and same modifiers, compared element-wise in
// order. Mouse coordinates and text payloads are ignored, so two clicks
// at different positions with the same button are equal.
func (e Event) Equal(other Event) bool {
	if e.Kind != other.Kind {
		return false
	}
	if len(e.Sequence) != len(other.Sequence) || len(e.Modifiers) != len(other.Modifiers) {
		return false
	}
	for i, c := range e.Sequence {
		if other.Sequence[i] != c {
			return false
		}
	}
	for i, m := range e.Modifiers {
		if other.Modifiers[i] != m {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	c := e
	if e.Sequence != nil {
		c.Sequence = append([]int(nil), e.Sequence...)
	}
	if e.Modifiers != nil {
		c.Modifiers = append([]int(nil), e.Modifiers...)
	}
	return c
}

// String renders the event compactly for logs, without consulting the
// keycode tables.
func (e Event) String() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	for _, m := range e.Modifiers {
		if name := ModName(m); name != "" {
			b.WriteString(" " + name)
		}
	}
	for i, c := range e.Sequence {
		if i == 0 {
			b.WriteString(" ")
		} else {
			b.WriteString("+")
		}
		fmt.Fprintf(&b, "%d", c)
	}
	if e.Kind == KindMouse {
		fmt.Fprintf(&b, " @%d,%d", e.MouseX, e.MouseY)
	}
	return b.String()
}

// Describe renders the event compactly for display using tables, joining
// modifier names and key names with "+". Codes the tables cannot name
// portably render as their decimal value.
func (e Event) Describe(tables *keycode.Tables) string {
	parts := make([]string, 0, len(e.Modifiers)+len(e.Sequence))
	for _, m := range e.Modifiers {
		if name := ModName(m); name != "" {
			parts = append(parts, name)
		}
	}
	device := e.Kind.Device()
	for _, c := range e.Sequence {
		name := tables.Name(c, device, true)
		if name == "" {
			name = fmt.Sprintf("%d", c)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "+")
}

// eventsEqual reports whether two event lists are element-wise equal.
func eventsEqual(a, b []Event) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
