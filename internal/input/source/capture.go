package source

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dvaldron/inputmap/internal/input"
)

const (
	captureFormat  = "inputmap-capture"
	captureVersion = 1
)

// captureHeader is the first line of a capture file.
type captureHeader struct {
	Format  string    `json:"format"`
	Version int       `json:"version"`
	Session string    `json:"session"`
	Started time.Time `json:"started"`
}

// capturedEvent is one recorded event, one JSON line each.
type capturedEvent struct {
	Kind string `json:"kind"`
	Seq  []int  `json:"seq,omitempty"`
	Mods []int  `json:"mods,omitempty"`
	X    int    `json:"x,omitempty"`
	Y    int    `json:"y,omitempty"`
	Text string `json:"text,omitempty"`
}

func encodeEvent(ev input.Event) capturedEvent {
	return capturedEvent{
		Kind: ev.Kind.String(),
		Seq:  ev.Sequence,
		Mods: ev.Modifiers,
		X:    ev.MouseX,
		Y:    ev.MouseY,
		Text: ev.Text,
	}
}

func (c capturedEvent) decode() (input.Event, bool) {
	kind, ok := input.ParseKind(c.Kind)
	if !ok {
		return input.Event{}, false
	}
	return input.Event{
		Kind:      kind,
		Sequence:  c.Seq,
		Modifiers: input.NormalizeModifiers(c.Mods),
		MouseX:    c.X,
		MouseY:    c.Y,
		Text:      c.Text,
	}, true
}

// Capture wraps another input.Source and tees every delivered event,
// timeouts included, into a JSON-lines file. The file opens with a
// header line carrying a fresh session id, and a Replay of the file
// reproduces the exact event sequence.
type Capture struct {
	src     input.Source
	file    *os.File
	enc     *json.Encoder
	session string
}

// NewCapture starts recording src's events to path, truncating any
// previous capture there.
func NewCapture(src input.Source, path string) (*Capture, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	c := &Capture{
		src:     src,
		file:    file,
		enc:     json.NewEncoder(file),
		session: uuid.NewString(),
	}
	header := captureHeader{
		Format:  captureFormat,
		Version: captureVersion,
		Session: c.session,
		Started: time.Now().UTC(),
	}
	if err := c.enc.Encode(header); err != nil {
		file.Close()
		return nil, err
	}
	return c, nil
}

// Session returns the capture's session id.
func (c *Capture) Session() string {
	return c.session
}

func (c *Capture) PollEvent(timeout time.Duration) input.Event {
	ev := c.src.PollEvent(timeout)
	_ = c.enc.Encode(encodeEvent(ev)) // best-effort; recording must not stall input
	return ev
}

// Close closes the wrapped source, then the capture file.
func (c *Capture) Close() error {
	err := c.src.Close()
	if cerr := c.file.Close(); err == nil {
		err = cerr
	}
	return err
}
