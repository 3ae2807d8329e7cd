package event

import "sync/atomic"

// Buffer collects events written by a plugin during one processing call.
// Its capacity is fixed at creation; Write never allocates.
type Buffer struct {
	events  []Event
	dropped atomic.Uint64
}

// NewBuffer preallocates room for capacity events.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{events: make([]Event, 0, capacity)}
}

// Write appends ev, or counts it as dropped and returns false when full.
func (b *Buffer) Write(ev Event) bool {
	if len(b.events) == cap(b.events) {
		b.dropped.Add(1)
		return false
	}
	b.events = append(b.events, ev)
	return true
}

// Drop counts an event rejected before it reached the buffer.
func (b *Buffer) Drop() {
	b.dropped.Add(1)
}

// Events returns the events written since the last Reset. The slice is only
// valid until the next Reset.
func (b *Buffer) Events() []Event {
	return b.events
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	return len(b.events)
}

// Reset empties the buffer, keeping its storage.
func (b *Buffer) Reset() {
	b.events = b.events[:0]
}

// Dropped returns the number of events dropped so far.
func (b *Buffer) Dropped() uint64 {
	return b.dropped.Load()
}
