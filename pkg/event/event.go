// Package event implements the frame-ordered event channel used inside a
// processing call.
//
// Events are fixed-size records so a block's events can live in a
// preallocated slice. Every event carries both an enumerated Kind and the
// interned Type token it travels under at the host boundary.
package event

import (
	"errors"
	"fmt"

	"github.com/justyntemme/nativeplug/pkg/intern"
)

// Kind enumerates the event variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindMidi
	KindMidiProgram
	KindParameter
)

// Type strings as mapped through the interner.
const (
	TypeMidi        = "midi"
	TypeMidiProgram = "midiprogram"
	TypeParameter   = "parameter"
)

// MaxMidiSize is the largest raw MIDI payload an event can carry.
const MaxMidiSize = 4

var (
	ErrMidiTooLong     = errors.New("event: midi payload longer than 4 bytes")
	ErrFrameOutOfRange = errors.New("event: frame outside the processing block")
	ErrUnsorted        = errors.New("event: events are not sorted by frame")
	ErrBadKind         = errors.New("event: unknown event kind")
)

func (k Kind) String() string {
	switch k {
	case KindMidi:
		return TypeMidi
	case KindMidiProgram:
		return TypeMidiProgram
	case KindParameter:
		return TypeParameter
	}
	return "invalid"
}

// Event is one entry of the channel. Only the payload fields of its Kind are
// meaningful.
type Event struct {
	Kind  Kind
	Type  intern.Token
	Frame uint32

	// KindMidi
	Port uint8
	Size uint8
	Data [MaxMidiSize]byte

	// KindMidiProgram
	Channel uint8
	Bank    uint32
	Program uint32

	// KindParameter
	Index uint32
	Value float32
}

// Bytes returns the raw MIDI payload.
func (e *Event) Bytes() []byte {
	if e.Kind != KindMidi || e.Size > MaxMidiSize {
		return nil
	}
	return e.Data[:e.Size]
}

func (e Event) String() string {
	switch e.Kind {
	case KindMidi:
		return fmt.Sprintf("Midi{frame:%d, port:%d, data:% x}", e.Frame, e.Port, e.Data[:min(int(e.Size), MaxMidiSize)])
	case KindMidiProgram:
		return fmt.Sprintf("MidiProgram{frame:%d, ch:%d, bank:%d, program:%d}", e.Frame, e.Channel, e.Bank, e.Program)
	case KindParameter:
		return fmt.Sprintf("Parameter{frame:%d, index:%d, value:%g}", e.Frame, e.Index, e.Value)
	}
	return "Invalid{}"
}

// Types holds the interned type tokens of the three event kinds. It is built
// once at session setup so no interning happens on the processing path.
type Types struct {
	MidiType        intern.Token
	MidiProgramType intern.Token
	ParameterType   intern.Token
}

// NewTypes interns the event type strings.
func NewTypes(in *intern.Interner) Types {
	return Types{
		MidiType:        in.Intern(TypeMidi),
		MidiProgramType: in.Intern(TypeMidiProgram),
		ParameterType:   in.Intern(TypeParameter),
	}
}

// Token returns the type token for k.
func (t Types) Token(k Kind) intern.Token {
	switch k {
	case KindMidi:
		return t.MidiType
	case KindMidiProgram:
		return t.MidiProgramType
	case KindParameter:
		return t.ParameterType
	}
	return intern.Undefined
}

// Kind maps a type token back to its kind.
func (t Types) Kind(tok intern.Token) Kind {
	switch {
	case tok == intern.Undefined:
		return KindInvalid
	case tok == t.MidiType:
		return KindMidi
	case tok == t.MidiProgramType:
		return KindMidiProgram
	case tok == t.ParameterType:
		return KindParameter
	}
	return KindInvalid
}

// Midi builds a raw MIDI event.
func (t Types) Midi(frame uint32, port uint8, data ...byte) (Event, error) {
	if len(data) > MaxMidiSize {
		return Event{}, fmt.Errorf("%w: %d bytes", ErrMidiTooLong, len(data))
	}
	ev := Event{Kind: KindMidi, Type: t.MidiType, Frame: frame, Port: port, Size: uint8(len(data))}
	copy(ev.Data[:], data)
	return ev, nil
}

// MidiProgram builds a program switch request.
func (t Types) MidiProgram(frame uint32, channel uint8, bank, program uint32) Event {
	return Event{
		Kind:    KindMidiProgram,
		Type:    t.MidiProgramType,
		Frame:   frame,
		Channel: channel,
		Bank:    bank,
		Program: program,
	}
}

// Parameter builds a realtime parameter change.
func (t Types) Parameter(frame uint32, index uint32, value float32) Event {
	return Event{
		Kind:  KindParameter,
		Type:  t.ParameterType,
		Frame: frame,
		Index: index,
		Value: value,
	}
}
