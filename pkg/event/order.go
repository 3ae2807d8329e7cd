package event

import (
	"fmt"
	"strings"
)

// Ordering selects how a host treats events that are not sorted by frame.
type Ordering int

const (
	// OrderSort accepts any order and sorts the host copy. Events sharing a frame keep array order.
	OrderSort Ordering = iota
	// OrderStrict rejects unsorted input.
	OrderStrict
)

// ParseOrdering accepts "sort" and "strict". Empty means sort.
func ParseOrdering(s string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sort":
		return OrderSort, nil
	case "strict":
		return OrderStrict, nil
	}
	return OrderSort, fmt.Errorf("event: unknown ordering %q", s)
}

func (o Ordering) String() string {
	if o == OrderStrict {
		return "strict"
	}
	return "sort"
}

// Validate checks that every event is well formed and inside a block of
// frames samples. It returns the index of the first bad event.
func Validate(events []Event, frames uint32) (int, error) {
	for i := range events {
		ev := &events[i]
		if ev.Frame >= frames {
			return i, ErrFrameOutOfRange
		}
		switch ev.Kind {
		case KindMidi:
			if ev.Size > MaxMidiSize {
				return i, ErrMidiTooLong
			}
		case KindMidiProgram, KindParameter:
		default:
			return i, ErrBadKind
		}
	}
	return -1, nil
}

// IsSorted reports whether frames are non-decreasing.
func IsSorted(events []Event) bool {
	for i := 1; i < len(events); i++ {
		if events[i].Frame < events[i-1].Frame {
			return false
		}
	}
	return true
}

// Sort orders events by frame in place. It is a stable insertion sort: no
// allocation, and linear on the already sorted input hosts usually send.
func Sort(events []Event) {
	for i := 1; i < len(events); i++ {
		if events[i].Frame >= events[i-1].Frame {
			continue
		}
		ev := events[i]
		j := i - 1
		for j >= 0 && events[j].Frame > ev.Frame {
			events[j+1] = events[j]
			j--
		}
		events[j+1] = ev
	}
}

// Order applies the ordering policy to events.
func (o Ordering) Order(events []Event) error {
	if IsSorted(events) {
		return nil
	}
	if o == OrderStrict {
		return ErrUnsorted
	}
	Sort(events)
	return nil
}
