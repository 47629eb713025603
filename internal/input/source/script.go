package source

import (
	"sync"
	"time"

	"github.com/dvaldron/inputmap/internal/input"
)

// Script is an in-memory input.Source delivering a queued event list in
// order. An empty queue delivers a timeout event immediately, whatever
// the requested timeout, so test loops never block. A closed script
// delivers error events.
type Script struct {
	mu     sync.Mutex
	queue  []input.Event
	closed bool
}

// NewScript returns a script preloaded with events.
func NewScript(events ...input.Event) *Script {
	s := &Script{}
	s.Push(events...)
	return s
}

// Push appends events to the queue.
func (s *Script) Push(events ...input.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		s.queue = append(s.queue, ev.Clone())
	}
}

// Pending returns the number of undelivered events.
func (s *Script) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Script) PollEvent(time.Duration) input.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return closedEvent()
	}
	if len(s.queue) == 0 {
		return input.Event{Kind: input.KindTimeout}
	}
	ev := s.queue[0]
	s.queue = s.queue[1:]
	return ev
}

func (s *Script) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
