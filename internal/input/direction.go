package input

// The eight canonical movement action identifiers map onto unit deltas
// in {-1,0,1} squared. No direction maps to (0,0).

// NonDirection is the delta returned for actions that are not movement
// actions.
const NonDirection = -2

// SetISO switches the context into isometric direction mapping, in which
// every movement delta is rotated one 45 degree step clockwise so that
// "north" on screen maps to northeast in world space.
func (c *Context) SetISO(on bool) {
	c.iso = on
}

// ISO reports whether isometric direction mapping is active.
func (c *Context) ISO() bool {
	return c.iso
}

// DirectionFor maps a movement action id to its delta. Non-movement
// actions yield (NonDirection, NonDirection, false). With isometric
// mapping active the delta is rotated via RotateDirectionCW.
func (c *Context) DirectionFor(action string) (dx, dy int, ok bool) {
	switch action {
	case "UP":
		dx, dy = 0, -1
	case "DOWN":
		dx, dy = 0, 1
	case "LEFT":
		dx, dy = -1, 0
	case "RIGHT":
		dx, dy = 1, 0
	case "LEFTUP":
		dx, dy = -1, -1
	case "LEFTDOWN":
		dx, dy = -1, 1
	case "RIGHTUP":
		dx, dy = 1, -1
	case "RIGHTDOWN":
		dx, dy = 1, 1
	default:
		return NonDirection, NonDirection, false
	}
	if c.iso {
		dx, dy = RotateDirectionCW(dx, dy)
	}
	return dx, dy, true
}

// RotateDirectionCW rotates a unit movement delta one 45 degree step
// clockwise: up becomes up-right, up-right becomes right, and so on.
// Deltas outside the eight movement directions are returned unchanged.
func RotateDirectionCW(dx, dy int) (int, int) {
	switch [2]int{dx, dy} {
	case [2]int{0, -1}:
		return 1, -1
	case [2]int{1, -1}:
		return 1, 0
	case [2]int{1, 0}:
		return 1, 1
	case [2]int{1, 1}:
		return 0, 1
	case [2]int{0, 1}:
		return -1, 1
	case [2]int{-1, 1}:
		return -1, 0
	case [2]int{-1, 0}:
		return -1, -1
	case [2]int{-1, -1}:
		return 0, -1
	default:
		return dx, dy
	}
}
