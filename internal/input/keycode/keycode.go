// Package keycode maintains the translation tables between numeric input
// codes and the key names used in configuration files and help text.
//
// Two code-to-name tables are kept, one for keyboard codes and one for
// gamepad codes, alongside a single shared name-to-code table. Mouse
// buttons form a small closed set and are named through a fixed mapping
// rather than a table. Printable keyboard keys name themselves; special
// keys carry symbolic names such as "UP" or "F5". Lookups that miss
// return zero values, never errors, since the tables are expected to be
// incomplete for exotic devices.
package keycode

import (
	"fmt"
	"unicode"
)

// Device identifies the class of hardware a code belongs to. Keyboard and
// gamepad codes occupy independent numeric spaces, so the same integer can
// name different keys on different devices.
type Device uint8

const (
	// Keyboard codes cover printable runes, a few ASCII control keys, and
	// the special-key block above the Unicode range.
	Keyboard Device = iota
	// Gamepad codes cover the numbered buttons and the directional hat.
	Gamepad
	// Mouse codes form the fixed button set below.
	Mouse
)

func (d Device) String() string {
	switch d {
	case Keyboard:
		return "keyboard"
	case Gamepad:
		return "gamepad"
	case Mouse:
		return "mouse"
	default:
		return "unknown"
	}
}

// Printable keyboard keys use their Unicode code point as their keycode.
// Keys with no character identity live in a block starting above the
// Unicode range so the two can never collide.
const SpecialBase = 0x110000

// Keyboard keys that coincide with ASCII control characters keep those
// codes.
const (
	KeyTab       = 9
	KeyReturn    = 10
	KeyEscape    = 27
	KeyBackspace = 127
)

// Keyboard special keycodes.
const (
	KeyUp = SpecialBase + iota
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyBacktab
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Gamepad button codes.
const (
	JoyButton0 = iota
	JoyButton1
	JoyButton2
	JoyButton3
	JoyButton4
	JoyButton5
	JoyButton6
	JoyButton7
)

// JoyOffset is the base of the gamepad directional block. Directional
// codes sit above the 256-button ceiling so they cannot collide with
// numbered buttons on the same device.
const JoyOffset = 256

// Gamepad directional codes.
const (
	JoyLeft = JoyOffset + 1 + iota
	JoyRight
	JoyUp
	JoyDown
	JoyRightUp
	JoyRightDown
	JoyLeftUp
	JoyLeftDown
)

// Mouse button codes, meaningful only with the Mouse device.
const (
	MouseLeft = iota + 1
	MouseRight
	ScrollUp
	ScrollDown
	MouseMove
)

// mouseNames is the fixed mouse button naming. Mouse buttons are a closed
// set, so they are not part of the mutable tables.
var mouseNames = map[int]string{
	MouseLeft:  "MOUSE_LEFT",
	MouseRight: "MOUSE_RIGHT",
	ScrollUp:   "SCROLL_UP",
	ScrollDown: "SCROLL_DOWN",
	MouseMove:  "MOUSE_MOVE",
}

// Tables holds the bidirectional code/name mappings for one process. The
// zero value is not usable; construct with New or Default.
type Tables struct {
	keyboard map[int]string
	gamepad  map[int]string
	codes    map[string]int
}

// New returns empty tables containing only the fixed mouse button names.
func New() *Tables {
	t := &Tables{
		keyboard: make(map[int]string),
		gamepad:  make(map[int]string),
		codes:    make(map[string]int),
	}
	for code, name := range mouseNames {
		t.codes[name] = code
	}
	return t
}

// Add registers a keyboard code/name pair. Re-registering a name rebinds
// it to the new code and retires the old code's entry.
func (t *Tables) Add(code int, name string) {
	if old, ok := t.codes[name]; ok && old != code && t.keyboard[old] == name {
		delete(t.keyboard, old)
	}
	t.keyboard[code] = name
	t.codes[name] = code
}

// AddGamepad registers a gamepad code/name pair.
func (t *Tables) AddGamepad(code int, name string) {
	if old, ok := t.codes[name]; ok && old != code && t.gamepad[old] == name {
		delete(t.gamepad, old)
	}
	t.gamepad[code] = name
	t.codes[name] = code
}

// Code returns the code registered for name. Single printable
// characters not present in the tables name themselves, so their code
// is the character's code point. The second result reports whether the
// name resolved at all; note that 0 is a valid code (JoyButton0).
func (t *Tables) Code(name string) (int, bool) {
	if code, ok := t.codes[name]; ok {
		return code, true
	}
	runes := []rune(name)
	if len(runes) == 1 && unicode.IsPrint(runes[0]) {
		return int(runes[0]), true
	}
	return 0, false
}

// Name returns the name registered for code on the given device class.
//
// With portable set, only spellings that Code can translate back are
// returned, making Name(Code(n), d, true) == n hold for every name the
// tables produce; unregistered printable keyboard codes spell themselves.
// Codes with no such spelling yield "" when portable and a numeric
// description otherwise.
func (t *Tables) Name(code int, device Device, portable bool) string {
	switch device {
	case Gamepad:
		if name, ok := t.gamepad[code]; ok {
			return name
		}
		if portable {
			return ""
		}
		return fmt.Sprintf("unknown gamepad key %d", code)
	case Mouse:
		if name, ok := mouseNames[code]; ok {
			return name
		}
		if portable {
			return ""
		}
		return fmt.Sprintf("unknown mouse button %d", code)
	}
	if name, ok := t.keyboard[code]; ok {
		return name
	}
	if code > 0 && code <= unicode.MaxRune && unicode.IsPrint(rune(code)) {
		return string(rune(code))
	}
	if portable {
		return ""
	}
	return fmt.Sprintf("unknown key %d", code)
}

// KeyboardTable returns a copy of the keyboard name-to-code pairs.
func (t *Tables) KeyboardTable() map[string]int {
	out := make(map[string]int, len(t.keyboard))
	for code, name := range t.keyboard {
		out[name] = code
	}
	return out
}

// GamepadTable returns a copy of the gamepad name-to-code pairs.
func (t *Tables) GamepadTable() map[string]int {
	out := make(map[string]int, len(t.gamepad))
	for code, name := range t.gamepad {
		out[name] = code
	}
	return out
}

// Clone returns an independent copy of the tables.
func (t *Tables) Clone() *Tables {
	c := &Tables{
		keyboard: make(map[int]string, len(t.keyboard)),
		gamepad:  make(map[int]string, len(t.gamepad)),
		codes:    make(map[string]int, len(t.codes)),
	}
	for k, v := range t.keyboard {
		c.keyboard[k] = v
	}
	for k, v := range t.gamepad {
		c.gamepad[k] = v
	}
	for k, v := range t.codes {
		c.codes[k] = v
	}
	return c
}
