package keycode

import "fmt"

// Default returns tables populated with the standard keyboard and gamepad
// names. Printable ASCII keys name themselves; space and everything
// without a character identity get a symbolic name.
func Default() *Tables {
	t := New()

	for c := '!'; c <= '~'; c++ {
		t.Add(int(c), string(c))
	}

	t.Add(' ', "SPACE")
	t.Add(KeyTab, "TAB")
	t.Add(KeyBacktab, "BACKTAB")
	t.Add(KeyReturn, "RETURN")
	t.Add(KeyEscape, "ESC")
	t.Add(KeyBackspace, "BACKSPACE")
	t.Add(KeyUp, "UP")
	t.Add(KeyDown, "DOWN")
	t.Add(KeyLeft, "LEFT")
	t.Add(KeyRight, "RIGHT")
	t.Add(KeyHome, "HOME")
	t.Add(KeyEnd, "END")
	t.Add(KeyPageUp, "PPAGE")
	t.Add(KeyPageDown, "NPAGE")
	t.Add(KeyDelete, "DELETE")
	for i := 0; i < 12; i++ {
		t.Add(KeyF1+i, fmt.Sprintf("F%d", i+1))
	}

	for i := 0; i < 8; i++ {
		t.AddGamepad(JoyButton0+i, fmt.Sprintf("JOY_%d", i))
	}
	t.AddGamepad(JoyLeft, "JOY_LEFT")
	t.AddGamepad(JoyRight, "JOY_RIGHT")
	t.AddGamepad(JoyUp, "JOY_UP")
	t.AddGamepad(JoyDown, "JOY_DOWN")
	t.AddGamepad(JoyRightUp, "JOY_RIGHTUP")
	t.AddGamepad(JoyRightDown, "JOY_RIGHTDOWN")
	t.AddGamepad(JoyLeftUp, "JOY_LEFTUP")
	t.AddGamepad(JoyLeftDown, "JOY_LEFTDOWN")

	return t
}
