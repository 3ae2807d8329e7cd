// Package voice assigns MIDI notes to a fixed pool of synth voices.
package voice

import (
	"github.com/justyntemme/nativeplug/pkg/event"
)

// AllocationMode defines how voices are allocated
type AllocationMode int

const (
	// ModePoly gives each note its own voice
	ModePoly AllocationMode = iota
	// ModeMono plays one note at a time on the first voice
	ModeMono
)

// StealingMode defines how voices are stolen when all are in use
type StealingMode int

const (
	StealOldest StealingMode = iota
	StealQuietest
	// StealNone ignores new notes when every voice is busy
	StealNone
)

// MIDI controllers the allocator reacts to.
const (
	ccSustain     = 64
	ccAllSoundOff = 120
	ccAllNotesOff = 123
)

// Voice is one sound generator.
type Voice interface {
	// Active reports whether the voice still produces sound, including its
	// release tail.
	Active() bool
	// Amplitude is the current envelope level, used to steal the quietest.
	Amplitude() float32
	Start(note, velocity uint8)
	Release()
	// Stop silences the voice immediately.
	Stop()
}

type slot struct {
	v         Voice
	note      uint8
	held      bool // key down
	sustained bool // key up while the pedal was down
	started   uint64
}

// Allocator maps notes to voices. It keeps no maps and never allocates
// after construction, so it can run inside a processing call.
type Allocator struct {
	slots    []slot
	mode     AllocationMode
	stealing StealingMode
	sustain  bool
	clock    uint64
	next     int
}

// NewAllocator creates a new voice allocator
func NewAllocator(voices []Voice) *Allocator {
	a := &Allocator{slots: make([]slot, len(voices))}
	for i, v := range voices {
		a.slots[i].v = v
	}
	return a
}

// SetMode sets the allocation mode and stops every voice.
func (a *Allocator) SetMode(mode AllocationMode) {
	if mode == a.mode {
		return
	}
	a.mode = mode
	a.Reset()
}

// Mode returns the allocation mode.
func (a *Allocator) Mode() AllocationMode {
	return a.mode
}

// SetStealingMode sets the voice stealing mode
func (a *Allocator) SetStealingMode(mode StealingMode) {
	a.stealing = mode
}

// HandleEvent applies a raw MIDI event: note on/off, sustain pedal, all
// notes off and all sound off. Other events are ignored.
func (a *Allocator) HandleEvent(ev *event.Event) {
	if ev.Kind != event.KindMidi {
		return
	}
	var ch, key, vel, cc, val uint8
	msg := ev.Message()
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		a.NoteOn(key, vel)
	case msg.GetNoteEnd(&ch, &key):
		a.NoteOff(key)
	case msg.GetControlChange(&ch, &cc, &val):
		switch cc {
		case ccSustain:
			a.SetSustain(val >= 64)
		case ccAllNotesOff:
			a.ReleaseAll()
		case ccAllSoundOff:
			a.Reset()
		}
	}
}

// NoteOn starts note, retriggering a voice that already plays it.
func (a *Allocator) NoteOn(note, velocity uint8) {
	if len(a.slots) == 0 {
		return
	}
	a.clock++

	var i int
	if a.mode == ModeMono {
		i = 0
	} else {
		i = a.find(note)
		if i < 0 {
			i = a.free()
		}
		if i < 0 {
			i = a.steal()
		}
		if i < 0 {
			return
		}
	}

	s := &a.slots[i]
	s.note = note
	s.held = true
	s.sustained = false
	s.started = a.clock
	s.v.Start(note, velocity)
}

// NoteOff releases note, or marks it sustained while the pedal is down.
func (a *Allocator) NoteOff(note uint8) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.held || s.note != note {
			continue
		}
		s.held = false
		if a.sustain {
			s.sustained = true
			continue
		}
		s.v.Release()
	}
}

// SetSustain sets the pedal. Lifting it releases the sustained notes.
func (a *Allocator) SetSustain(on bool) {
	a.sustain = on
	if on {
		return
	}
	for i := range a.slots {
		s := &a.slots[i]
		if s.sustained {
			s.sustained = false
			s.v.Release()
		}
	}
}

// ReleaseAll releases every sounding note.
func (a *Allocator) ReleaseAll() {
	for i := range a.slots {
		s := &a.slots[i]
		if s.held || s.sustained {
			s.held, s.sustained = false, false
			s.v.Release()
		}
	}
}

// Reset stops all voices and clears the pedal.
func (a *Allocator) Reset() {
	for i := range a.slots {
		a.slots[i].v.Stop()
		a.slots[i].held = false
		a.slots[i].sustained = false
	}
	a.sustain = false
}

// ActiveCount returns the number of sounding voices.
func (a *Allocator) ActiveCount() int {
	n := 0
	for i := range a.slots {
		if a.slots[i].v.Active() {
			n++
		}
	}
	return n
}

// Each calls fn for every voice in slot order.
func (a *Allocator) Each(fn func(v Voice)) {
	for i := range a.slots {
		fn(a.slots[i].v)
	}
}

func (a *Allocator) find(note uint8) int {
	for i := range a.slots {
		s := &a.slots[i]
		if s.note == note && (s.held || s.sustained) && s.v.Active() {
			return i
		}
	}
	return -1
}

// free finds an idle voice round-robin.
func (a *Allocator) free() int {
	n := len(a.slots)
	for k := 0; k < n; k++ {
		i := (a.next + k) % n
		if !a.slots[i].v.Active() {
			a.next = (i + 1) % n
			return i
		}
	}
	return -1
}

func (a *Allocator) steal() int {
	best := -1
	for i := range a.slots {
		s := &a.slots[i]
		switch a.stealing {
		case StealOldest:
			if best < 0 || s.started < a.slots[best].started {
				best = i
			}
		case StealQuietest:
			if best < 0 || s.v.Amplitude() < a.slots[best].v.Amplitude() {
				best = i
			}
		}
	}
	if best >= 0 {
		a.slots[best].v.Stop()
	}
	return best
}
