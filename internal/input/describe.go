package input

import (
	"strings"
	"unicode"
)

// ActionName returns the human-readable name for an action id: the
// context's registration-time override when one was given, then the
// binding store's display name, then the id itself.
func (c *Context) ActionName(action string) string {
	if name, ok := c.overrides[action]; ok {
		return name
	}
	if attrs, found, _ := c.mgr.lookup(action, c.category); found && attrs.Name != "" {
		return attrs.Name
	}
	return action
}

// Description returns a display list of the inputs bound to action, such
// as "j, DOWN or JOY_DOWN". The reserved identifiers describe themselves
// and an action with nothing bound reads "unbound".
func (c *Context) Description(action string) string {
	switch action {
	case ActionAnyInput:
		return "any input"
	case ActionCoordinate:
		return "mouse position"
	}

	attrs, found, _ := c.mgr.lookup(action, c.category)
	if !found || len(attrs.Events) == 0 {
		return "unbound"
	}

	names := make([]string, 0, len(attrs.Events))
	for _, ev := range attrs.Events {
		names = append(names, ev.Describe(c.mgr.Tables()))
	}
	return joinForDisplay(names)
}

// PressX returns a prompt of the form "Press X to ..." for the action's
// current bindings, or "Try" phrasing when nothing is bound.
func (c *Context) PressX(action string) string {
	return c.PressXWith(action, "Press ", "", "Try")
}

// PressXWith is PressX with caller-supplied phrasing: boundPre and
// boundSuf wrap the key list when the action has bindings, and unbound
// is returned alone when it has none.
func (c *Context) PressXWith(action, boundPre, boundSuf, unbound string) string {
	switch action {
	case ActionAnyInput:
		return "any action"
	case ActionCoordinate:
		return "mouse movement"
	}

	attrs, found, _ := c.mgr.lookup(action, c.category)
	if !found || len(attrs.Events) == 0 {
		return unbound
	}

	var b strings.Builder
	b.WriteString(boundPre)
	for i, ev := range attrs.Events {
		if i > 0 {
			b.WriteString(" or ")
		}
		b.WriteString(ev.Describe(c.mgr.Tables()))
	}
	b.WriteString(boundSuf)
	return b.String()
}

// KeysBoundTo returns the plain keyboard keys that trigger action:
// single-code, modifier-free keyboard events only, other input types are
// not included.
func (c *Context) KeysBoundTo(action string) []rune {
	attrs, found, _ := c.mgr.lookup(action, c.category)
	if !found {
		return nil
	}
	var keys []rune
	for _, ev := range attrs.Events {
		if ev.Kind != KindKeyboard || len(ev.Sequence) != 1 || len(ev.Modifiers) > 0 {
			continue
		}
		code := ev.Sequence[0]
		if code > 0 && code <= unicode.MaxRune {
			keys = append(keys, rune(code))
		}
	}
	return keys
}

// joinForDisplay joins names with commas and a final "or", matching how
// binding lists read in help text.
func joinForDisplay(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
	}
}
