package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dvaldron/inputmap/internal/input"
)

// Replay is an input.Source playing back a capture file. Events are
// delivered in recorded order regardless of the requested timeout; once
// the recording is exhausted every poll yields an error event.
type Replay struct {
	session string
	events  []input.Event
	pos     int
}

// OpenReplay reads an entire capture file up front, so a malformed file
// fails here rather than mid-playback.
func OpenReplay(path string) (*Replay, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	dec := json.NewDecoder(file)

	var header captureHeader
	if err := dec.Decode(&header); err != nil {
		return nil, fmt.Errorf("read capture header from %s: %w", path, err)
	}
	if header.Format != captureFormat {
		return nil, fmt.Errorf("%s is not a capture file", path)
	}
	if header.Version != captureVersion {
		return nil, fmt.Errorf("%s: unsupported capture version %d", path, header.Version)
	}

	r := &Replay{session: header.Session}
	for {
		var rec capturedEvent
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read capture event %d from %s: %w", len(r.events)+1, path, err)
		}
		ev, ok := rec.decode()
		if !ok {
			return nil, fmt.Errorf("capture event %d in %s has unknown kind %q", len(r.events)+1, path, rec.Kind)
		}
		r.events = append(r.events, ev)
	}
	return r, nil
}

// Session returns the session id recorded in the capture header.
func (r *Replay) Session() string {
	return r.session
}

// Remaining returns the number of undelivered events.
func (r *Replay) Remaining() int {
	return len(r.events) - r.pos
}

func (r *Replay) PollEvent(time.Duration) input.Event {
	if r.pos >= len(r.events) {
		return input.Event{Kind: input.KindError, Text: "replay exhausted"}
	}
	ev := r.events[r.pos]
	r.pos++
	return ev.Clone()
}

func (r *Replay) Close() error {
	return nil
}
