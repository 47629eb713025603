package source

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dvaldron/inputmap/internal/input"
	"github.com/dvaldron/inputmap/internal/input/keycode"
)

// Terminal is an input.Source backed by a tcell screen. Key, mouse, and
// wheel events are translated into engine events; window-management
// events such as resize and paste markers are consumed silently.
type Terminal struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	once   sync.Once
}

// NewTerminal initializes the terminal and starts delivering its events.
// Mouse reporting and bracketed paste are enabled.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.EnablePaste()

	t := &Terminal{
		screen: screen,
		events: make(chan tcell.Event, 16),
		quit:   make(chan struct{}),
	}
	go screen.ChannelEvents(t.events, t.quit)
	return t, nil
}

// Screen exposes the underlying tcell screen so callers can draw.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// PollEvent blocks until a translatable event arrives. A negative
// timeout blocks indefinitely; otherwise a KindTimeout event is
// delivered once the timeout elapses, promptly for a zero timeout.
func (t *Terminal) PollEvent(timeout time.Duration) input.Event {
	if timeout < 0 {
		for {
			ev, ok := <-t.events
			if !ok {
				return closedEvent()
			}
			if out, ok := translateEvent(ev); ok {
				return out
			}
		}
	}

	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			// One non-blocking drain so a zero timeout still delivers
			// anything already queued.
			select {
			case ev, ok := <-t.events:
				if !ok {
					return closedEvent()
				}
				if out, ok := translateEvent(ev); ok {
					return out
				}
				continue
			default:
				return input.Event{Kind: input.KindTimeout}
			}
		}

		timer := time.NewTimer(remaining)
		select {
		case ev, ok := <-t.events:
			timer.Stop()
			if !ok {
				return closedEvent()
			}
			if out, ok := translateEvent(ev); ok {
				return out
			}
		case <-timer.C:
			return input.Event{Kind: input.KindTimeout}
		}
	}
}

// Close stops event delivery and restores the terminal.
func (t *Terminal) Close() error {
	t.once.Do(func() {
		close(t.quit)
		t.screen.Fini()
	})
	return nil
}

func closedEvent() input.Event {
	return input.Event{Kind: input.KindError, Text: "input source closed"}
}

// specialKeys maps tcell named keys to engine keycodes.
var specialKeys = map[tcell.Key]int{
	tcell.KeyEnter:      keycode.KeyReturn,
	tcell.KeyTab:        keycode.KeyTab,
	tcell.KeyBacktab:    keycode.KeyBacktab,
	tcell.KeyEscape:     keycode.KeyEscape,
	tcell.KeyBackspace:  keycode.KeyBackspace,
	tcell.KeyBackspace2: keycode.KeyBackspace,
	tcell.KeyUp:         keycode.KeyUp,
	tcell.KeyDown:       keycode.KeyDown,
	tcell.KeyLeft:       keycode.KeyLeft,
	tcell.KeyRight:      keycode.KeyRight,
	tcell.KeyHome:       keycode.KeyHome,
	tcell.KeyEnd:        keycode.KeyEnd,
	tcell.KeyPgUp:       keycode.KeyPageUp,
	tcell.KeyPgDn:       keycode.KeyPageDown,
	tcell.KeyDelete:     keycode.KeyDelete,
	tcell.KeyF1:         keycode.KeyF1,
	tcell.KeyF2:         keycode.KeyF2,
	tcell.KeyF3:         keycode.KeyF3,
	tcell.KeyF4:         keycode.KeyF4,
	tcell.KeyF5:         keycode.KeyF5,
	tcell.KeyF6:         keycode.KeyF6,
	tcell.KeyF7:         keycode.KeyF7,
	tcell.KeyF8:         keycode.KeyF8,
	tcell.KeyF9:         keycode.KeyF9,
	tcell.KeyF10:        keycode.KeyF10,
	tcell.KeyF11:        keycode.KeyF11,
	tcell.KeyF12:        keycode.KeyF12,
}

// translateEvent converts a tcell event into an engine event. The second
// result is false for events the engine has no use for, which the poll
// loop consumes silently.
func translateEvent(ev tcell.Event) (input.Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return translateKey(e)
	case *tcell.EventMouse:
		return translateMouse(e), true
	case *tcell.EventError:
		return input.Event{Kind: input.KindError, Text: e.Error()}, true
	default:
		// Resize, paste markers, focus, and interrupts are not input.
		return input.Event{}, false
	}
}

// translateKey converts a tcell key event. Ctrl-letter chords arrive
// from tcell as dedicated key constants; they are normalized back to the
// plain letter with a ctrl modifier so bindings stay readable.
func translateKey(ev *tcell.EventKey) (input.Event, bool) {
	mods := translateMods(ev.Modifiers())
	key := ev.Key()

	if key == tcell.KeyRune {
		out := input.NewEvent(input.KindKeyboard, int(ev.Rune()), mods...)
		out.Text = string(ev.Rune())
		return out, true
	}
	if code, ok := specialKeys[key]; ok {
		return input.NewEvent(input.KindKeyboard, code, mods...), true
	}
	if key == tcell.KeyCtrlSpace {
		return input.NewEvent(input.KindKeyboard, ' ', append(mods, input.ModCtrl)...), true
	}
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		code := int('a') + int(key-tcell.KeyCtrlA)
		return input.NewEvent(input.KindKeyboard, code, append(mods, input.ModCtrl)...), true
	}
	return input.Event{}, false
}

// translateMouse converts a tcell mouse event. Exactly one code is
// produced per event: the pressed button, the wheel direction, or
// MOUSE_MOVE for plain motion.
func translateMouse(ev *tcell.EventMouse) input.Event {
	buttons := ev.Buttons()
	code := keycode.MouseMove
	switch {
	case buttons&tcell.Button1 != 0:
		code = keycode.MouseLeft
	case buttons&tcell.Button2 != 0:
		code = keycode.MouseRight
	case buttons&tcell.WheelUp != 0:
		code = keycode.ScrollUp
	case buttons&tcell.WheelDown != 0:
		code = keycode.ScrollDown
	}

	out := input.NewEvent(input.KindMouse, code, translateMods(ev.Modifiers())...)
	out.MouseX, out.MouseY = ev.Position()
	return out
}

// translateMods converts a tcell modifier mask to engine modifier codes.
// Meta has no engine equivalent and is dropped.
func translateMods(m tcell.ModMask) []int {
	var mods []int
	if m&tcell.ModCtrl != 0 {
		mods = append(mods, input.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = append(mods, input.ModAlt)
	}
	if m&tcell.ModShift != 0 {
		mods = append(mods, input.ModShift)
	}
	return mods
}
