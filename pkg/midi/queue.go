package midi

import "sync"

// EventQueue hands events from a control goroutine (UI, sequencer) to the
// audio callback. The audio side drains the queue once per buffer; the lock
// is held only for the swap, never across rendering.
type EventQueue struct {
	mu      sync.Mutex
	pending []Event
	drained []Event
}

func NewEventQueue() *EventQueue {
	return &EventQueue{
		pending: make([]Event, 0, 128),
		drained: make([]Event, 0, 128),
	}
}

// Add appends an event. Safe for concurrent use with Drain.
func (q *EventQueue) Add(event Event) {
	q.mu.Lock()
	q.pending = append(q.pending, event)
	q.mu.Unlock()
}

// Drain returns all queued events in arrival order. The returned slice is
// valid until the next Drain call; the queue reuses its backing storage so
// steady-state operation does not allocate.
func (q *EventQueue) Drain() []Event {
	q.mu.Lock()
	q.pending, q.drained = q.drained[:0], q.pending
	q.mu.Unlock()
	return q.drained
}

// Len reports the number of queued events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
