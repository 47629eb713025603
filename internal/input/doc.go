// Package input resolves raw device events into semantic, user-rebindable
// actions scoped by context.
//
// The package transforms keyboard, gamepad, and mouse events into action
// identifiers such as "CONFIRM" or "LEFTUP". Bindings are looked up per
// context with automatic fallback to the shared "default" context, so a
// screen can override just the keys it cares about.
//
// # Architecture
//
// Two layers cooperate:
//
//   - Manager: owns the action/event bindings per context, the keycode
//     translation tables, the poll timeout, and the platform Source.
//   - Context: a per-screen handle that registers the actions meaningful
//     there and resolves incoming events against them.
//
// A Manager is constructed once at startup and passed to every Context;
// Contexts are created ad hoc per screen and discarded when the screen
// closes.
//
// # Resolution
//
// Each HandleInput call pulls exactly one event from the Source and walks
// the registered actions in registration order, returning the first whose
// bound events contain an equal event. Two reserved identifiers modify
// this: ActionCoordinate captures mouse positions before any table lookup,
// and ActionAnyInput catches everything that matched nothing. With neither
// applicable the resolver returns ActionError.
//
// # Usage
//
//	mgr := input.NewManager(input.WithSource(src))
//	mgr.AddBinding("QUIT", input.DefaultContext, input.NewEvent(input.KindKeyboard, 'q'))
//
//	ctx := input.NewContext(mgr, "MAIN")
//	ctx.Register("QUIT")
//	ctx.RegisterDirections()
//
//	for {
//	    action := ctx.HandleInput()
//	    if action == "QUIT" {
//	        break
//	    }
//	    if dx, dy, ok := ctx.DirectionFor(action); ok {
//	        move(dx, dy)
//	    }
//	}
//
// The engine is single threaded: HandleInput is the only blocking call,
// and callers serialize binding edits themselves.
package input
