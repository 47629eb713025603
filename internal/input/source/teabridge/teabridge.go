// Package teabridge feeds engine events from a Bubble Tea program.
//
// A Bridge sits between the two event models: the program's Update
// function forwards every tea.Msg through [Bridge.Deliver], and the
// engine polls the bridge as an ordinary input source from its own
// goroutine. Messages that do not describe input, window sizing for
// one, are reported as undeliverable and otherwise ignored.
package teabridge

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dvaldron/inputmap/internal/input"
	"github.com/dvaldron/inputmap/internal/input/keycode"
)

// Bridge is an input.Source fed by a Bubble Tea update loop.
type Bridge struct {
	events chan input.Event
	quit   chan struct{}
	once   sync.Once
}

// NewBridge returns a bridge buffering up to size events between the
// program loop and the engine. A non-positive size selects a default.
func NewBridge(size int) *Bridge {
	if size <= 0 {
		size = 64
	}
	return &Bridge{
		events: make(chan input.Event, size),
		quit:   make(chan struct{}),
	}
}

// Deliver translates msg and queues it for the engine. It reports
// whether the message was queued: false for messages that are not
// input, after Close, and when the buffer is full. Deliver never
// blocks, so a stalled engine cannot stall the program loop.
func (b *Bridge) Deliver(msg tea.Msg) bool {
	out, ok := fromMsg(msg)
	if !ok {
		return false
	}
	select {
	case <-b.quit:
		return false
	default:
	}
	select {
	case b.events <- out:
		return true
	default:
		return false
	}
}

// PollEvent blocks until a queued event arrives. A negative timeout
// blocks indefinitely; otherwise a KindTimeout event is delivered once
// the timeout elapses, promptly for a zero timeout.
func (b *Bridge) PollEvent(timeout time.Duration) input.Event {
	if timeout < 0 {
		select {
		case ev := <-b.events:
			return ev
		case <-b.quit:
			return closedEvent()
		}
	}

	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			// One non-blocking drain so a zero timeout still delivers
			// anything already queued.
			select {
			case ev := <-b.events:
				return ev
			case <-b.quit:
				return closedEvent()
			default:
				return input.Event{Kind: input.KindTimeout}
			}
		}

		timer := time.NewTimer(remaining)
		select {
		case ev := <-b.events:
			timer.Stop()
			return ev
		case <-b.quit:
			timer.Stop()
			return closedEvent()
		case <-timer.C:
			return input.Event{Kind: input.KindTimeout}
		}
	}
}

// Close stops the bridge. Later polls yield error events and later
// delivers are dropped.
func (b *Bridge) Close() error {
	b.once.Do(func() {
		close(b.quit)
	})
	return nil
}

func closedEvent() input.Event {
	return input.Event{Kind: input.KindError, Text: "input source closed"}
}

func fromMsg(msg tea.Msg) (input.Event, bool) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return FromKeyMsg(m)
	case tea.MouseMsg:
		return FromMouseMsg(m), true
	default:
		return input.Event{}, false
	}
}

// specialTeaKeys maps Bubble Tea named keys to engine keycodes. It is
// consulted before the ctrl-letter range because Tab, Enter, and their
// kin share values with ctrl chords.
var specialTeaKeys = map[tea.KeyType]int{
	tea.KeyEnter:     keycode.KeyReturn,
	tea.KeyTab:       keycode.KeyTab,
	tea.KeyShiftTab:  keycode.KeyBacktab,
	tea.KeyEscape:    keycode.KeyEscape,
	tea.KeyBackspace: keycode.KeyBackspace,
	tea.KeyUp:        keycode.KeyUp,
	tea.KeyDown:      keycode.KeyDown,
	tea.KeyLeft:      keycode.KeyLeft,
	tea.KeyRight:     keycode.KeyRight,
	tea.KeyHome:      keycode.KeyHome,
	tea.KeyEnd:       keycode.KeyEnd,
	tea.KeyPgUp:      keycode.KeyPageUp,
	tea.KeyPgDown:    keycode.KeyPageDown,
	tea.KeyDelete:    keycode.KeyDelete,
	tea.KeyF1:        keycode.KeyF1,
	tea.KeyF2:        keycode.KeyF2,
	tea.KeyF3:        keycode.KeyF3,
	tea.KeyF4:        keycode.KeyF4,
	tea.KeyF5:        keycode.KeyF5,
	tea.KeyF6:        keycode.KeyF6,
	tea.KeyF7:        keycode.KeyF7,
	tea.KeyF8:        keycode.KeyF8,
	tea.KeyF9:        keycode.KeyF9,
	tea.KeyF10:       keycode.KeyF10,
	tea.KeyF11:       keycode.KeyF11,
	tea.KeyF12:       keycode.KeyF12,
}

// modifiedTeaKeys covers the key types Bubble Tea reserves for
// modifier-and-key combinations that arrive as a single constant.
var modifiedTeaKeys = map[tea.KeyType]struct {
	code int
	mods []int
}{
	tea.KeyShiftUp:        {keycode.KeyUp, []int{input.ModShift}},
	tea.KeyShiftDown:      {keycode.KeyDown, []int{input.ModShift}},
	tea.KeyShiftLeft:      {keycode.KeyLeft, []int{input.ModShift}},
	tea.KeyShiftRight:     {keycode.KeyRight, []int{input.ModShift}},
	tea.KeyCtrlUp:         {keycode.KeyUp, []int{input.ModCtrl}},
	tea.KeyCtrlDown:       {keycode.KeyDown, []int{input.ModCtrl}},
	tea.KeyCtrlLeft:       {keycode.KeyLeft, []int{input.ModCtrl}},
	tea.KeyCtrlRight:      {keycode.KeyRight, []int{input.ModCtrl}},
	tea.KeyCtrlHome:       {keycode.KeyHome, []int{input.ModCtrl}},
	tea.KeyCtrlEnd:        {keycode.KeyEnd, []int{input.ModCtrl}},
	tea.KeyCtrlPgUp:       {keycode.KeyPageUp, []int{input.ModCtrl}},
	tea.KeyCtrlPgDown:     {keycode.KeyPageDown, []int{input.ModCtrl}},
	tea.KeyCtrlShiftUp:    {keycode.KeyUp, []int{input.ModCtrl, input.ModShift}},
	tea.KeyCtrlShiftDown:  {keycode.KeyDown, []int{input.ModCtrl, input.ModShift}},
	tea.KeyCtrlShiftLeft:  {keycode.KeyLeft, []int{input.ModCtrl, input.ModShift}},
	tea.KeyCtrlShiftRight: {keycode.KeyRight, []int{input.ModCtrl, input.ModShift}},
	tea.KeyCtrlShiftHome:  {keycode.KeyHome, []int{input.ModCtrl, input.ModShift}},
	tea.KeyCtrlShiftEnd:   {keycode.KeyEnd, []int{input.ModCtrl, input.ModShift}},
}

// FromKeyMsg converts a Bubble Tea key message into an engine keyboard
// event. Ctrl-letter chords are normalized to the plain letter with a
// ctrl modifier, and typed text, pasted runs included, is carried in
// the event's Text field. The second result is false for key types the
// engine cannot represent.
func FromKeyMsg(msg tea.KeyMsg) (input.Event, bool) {
	var mods []int
	if msg.Alt {
		mods = append(mods, input.ModAlt)
	}

	switch t := msg.Type; {
	case t == tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return input.Event{}, false
		}
		out := input.NewEvent(input.KindKeyboard, int(msg.Runes[0]), mods...)
		out.Text = string(msg.Runes)
		return out, true

	case t == tea.KeySpace:
		out := input.NewEvent(input.KindKeyboard, ' ', mods...)
		out.Text = " "
		return out, true
	}

	if code, ok := specialTeaKeys[msg.Type]; ok {
		return input.NewEvent(input.KindKeyboard, code, mods...), true
	}
	if mk, ok := modifiedTeaKeys[msg.Type]; ok {
		return input.NewEvent(input.KindKeyboard, mk.code, append(mods, mk.mods...)...), true
	}
	if msg.Type == tea.KeyCtrlAt {
		// Ctrl-space arrives as the NUL chord.
		return input.NewEvent(input.KindKeyboard, ' ', append(mods, input.ModCtrl)...), true
	}
	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		code := int('a') + int(msg.Type-tea.KeyCtrlA)
		return input.NewEvent(input.KindKeyboard, code, append(mods, input.ModCtrl)...), true
	}
	return input.Event{}, false
}

// FromMouseMsg converts a Bubble Tea mouse message. Button presses and
// wheel ticks map to their engine codes; releases, plain motion, and
// buttons without an engine code all map to MOUSE_MOVE so the cursor
// position keeps flowing.
func FromMouseMsg(msg tea.MouseMsg) input.Event {
	code := keycode.MouseMove
	if msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonLeft:
			code = keycode.MouseLeft
		case tea.MouseButtonRight:
			code = keycode.MouseRight
		case tea.MouseButtonWheelUp:
			code = keycode.ScrollUp
		case tea.MouseButtonWheelDown:
			code = keycode.ScrollDown
		}
	}

	var mods []int
	if msg.Ctrl {
		mods = append(mods, input.ModCtrl)
	}
	if msg.Alt {
		mods = append(mods, input.ModAlt)
	}
	if msg.Shift {
		mods = append(mods, input.ModShift)
	}

	out := input.NewEvent(input.KindMouse, code, mods...)
	out.MouseX, out.MouseY = msg.X, msg.Y
	return out
}
