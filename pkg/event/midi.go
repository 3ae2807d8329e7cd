package event

import (
	"gitlab.com/gomidi/midi/v2"
)

// MIDI controller numbers used for bank select.
const (
	ccBankMSB = 0
	ccBankLSB = 32
)

// Message returns a MIDI event's payload as a gomidi message for decoding.
func (e *Event) Message() midi.Message {
	return midi.Message(e.Bytes())
}

// FromMessage builds a MIDI event from a gomidi message.
func (t Types) FromMessage(frame uint32, port uint8, msg midi.Message) (Event, error) {
	return t.Midi(frame, port, msg.Bytes()...)
}

// ProgramChangeBytes encodes a program change message.
func ProgramChangeBytes(channel, program uint8) []byte {
	return midi.ProgramChange(channel, program).Bytes()
}

// AppendProgramChange translates a program event into raw MIDI events for
// plugins that handle program changes themselves: bank select (when the
// bank is not zero) followed by a program change, all at the same frame.
// The bytes are written in place so the translation does not allocate when
// dst has room.
func (t Types) AppendProgramChange(dst []Event, ev Event) []Event {
	ch := ev.Channel & 0x0f
	if ev.Bank != 0 {
		dst = append(dst, t.raw(ev.Frame, 0xB0|ch, ccBankMSB, uint8(ev.Bank>>7)&0x7f))
		dst = append(dst, t.raw(ev.Frame, 0xB0|ch, ccBankLSB, uint8(ev.Bank)&0x7f))
	}
	pc := t.raw(ev.Frame, 0xC0|ch, uint8(ev.Program)&0x7f)
	return append(dst, pc)
}

func (t Types) raw(frame uint32, data ...byte) Event {
	ev := Event{Kind: KindMidi, Type: t.MidiType, Frame: frame, Size: uint8(len(data))}
	copy(ev.Data[:], data)
	return ev
}
