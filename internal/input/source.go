package input

import "time"

// NoTimeout configures a Source poll to block until an event arrives.
const NoTimeout = time.Duration(-1)

// Source delivers raw platform events. Implementations translate their
// toolkit's events into Events, tagging Kind per device class and filling
// Sequence, Modifiers, coordinates, and text as applicable.
//
// PollEvent blocks until an event is available. A negative timeout blocks
// indefinitely; a zero or positive timeout that elapses with no event
// must yield a KindTimeout event rather than nothing, and failure
// conditions must yield KindError events, so the caller always receives
// a value.
type Source interface {
	PollEvent(timeout time.Duration) Event
	Close() error
}
