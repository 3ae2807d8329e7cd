package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"

	"github.com/justyntemme/nativeplug/pkg/intern"
)

func testTypes() Types {
	return NewTypes(intern.New())
}

func TestTypesRoundTrip(t *testing.T) {
	in := intern.New()
	types := NewTypes(in)

	for _, k := range []Kind{KindMidi, KindMidiProgram, KindParameter} {
		tok := types.Token(k)
		require.NotEqual(t, intern.Undefined, tok)
		assert.Equal(t, k, types.Kind(tok))

		s, err := in.Resolve(tok)
		require.NoError(t, err)
		assert.Equal(t, k.String(), s)
	}
	assert.Equal(t, KindInvalid, types.Kind(intern.Undefined))
}

func TestMidiConstructor(t *testing.T) {
	types := testTypes()

	ev, err := types.Midi(3, 1, 0x90, 60, 100)
	require.NoError(t, err)
	assert.Equal(t, KindMidi, ev.Kind)
	assert.Equal(t, []byte{0x90, 60, 100}, ev.Bytes())

	_, err = types.Midi(0, 0, 0xF0, 1, 2, 3, 0xF7)
	assert.ErrorIs(t, err, ErrMidiTooLong)
}

func TestConstructorsCarryTypeTokens(t *testing.T) {
	types := testTypes()

	ev, err := types.Midi(0, 0, 0x80, 60, 0)
	require.NoError(t, err)
	assert.Equal(t, types.MidiType, ev.Type)
	assert.Equal(t, KindMidi, types.Kind(ev.Type))

	ev = types.MidiProgram(1, 0, 2, 5)
	assert.Equal(t, types.MidiProgramType, ev.Type)
	assert.Equal(t, KindMidiProgram, types.Kind(ev.Type))

	ev = types.Parameter(2, 4, 0.5)
	assert.Equal(t, types.ParameterType, ev.Type)
	assert.Equal(t, KindParameter, types.Kind(ev.Type))

	assert.Equal(t, types.ParameterType, types.Token(KindParameter))
}

func TestMessageDecoding(t *testing.T) {
	types := testTypes()
	ev, err := types.FromMessage(0, 0, midi.NoteOn(2, 64, 90))
	require.NoError(t, err)

	var ch, key, vel uint8
	require.True(t, ev.Message().GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, uint8(2), ch)
	assert.Equal(t, uint8(64), key)
	assert.Equal(t, uint8(90), vel)
}

func TestValidate(t *testing.T) {
	types := testTypes()
	events := []Event{
		types.Parameter(0, 0, 1),
		types.Parameter(63, 0, 1),
	}
	i, err := Validate(events, 64)
	assert.NoError(t, err)
	assert.Equal(t, -1, i)

	events = append(events, types.Parameter(64, 0, 1))
	i, err = Validate(events, 64)
	assert.ErrorIs(t, err, ErrFrameOutOfRange)
	assert.Equal(t, 2, i)

	_, err = Validate([]Event{{Frame: 0}}, 64)
	assert.ErrorIs(t, err, ErrBadKind)
}

func TestSortIsStable(t *testing.T) {
	types := testTypes()
	events := []Event{
		types.Parameter(10, 0, 1),
		types.Parameter(5, 1, 1),
		types.Parameter(10, 2, 1),
		types.Parameter(0, 3, 1),
		types.Parameter(5, 4, 1),
	}
	Sort(events)

	var order []uint32
	for _, ev := range events {
		order = append(order, ev.Index)
	}
	assert.Equal(t, []uint32{3, 1, 4, 0, 2}, order)
	assert.True(t, IsSorted(events))
}

func TestOrderingPolicy(t *testing.T) {
	types := testTypes()
	unsorted := func() []Event {
		return []Event{types.Parameter(4, 0, 1), types.Parameter(1, 1, 1)}
	}

	events := unsorted()
	require.NoError(t, OrderSort.Order(events))
	assert.Equal(t, uint32(1), events[0].Frame)

	events = unsorted()
	assert.ErrorIs(t, OrderStrict.Order(events), ErrUnsorted)
	assert.Equal(t, uint32(4), events[0].Frame)

	o, err := ParseOrdering("STRICT")
	require.NoError(t, err)
	assert.Equal(t, OrderStrict, o)
	_, err = ParseOrdering("random")
	assert.Error(t, err)
}

func TestSortDoesNotAllocate(t *testing.T) {
	types := testTypes()
	events := make([]Event, 32)
	for i := range events {
		events[i] = types.Parameter(uint32(31-i), uint32(i), 0)
	}
	allocs := testing.AllocsPerRun(10, func() {
		Sort(events)
	})
	assert.Zero(t, allocs)
}

type segment struct {
	start, end uint32
	n          int
}

func TestSegments(t *testing.T) {
	types := testTypes()
	tests := []struct {
		name   string
		events []Event
		want   []segment
	}{
		{"no events", nil, []segment{{0, 64, 0}}},
		{"event at zero", []Event{types.Parameter(0, 0, 1)}, []segment{{0, 64, 1}}},
		{
			"split at frames",
			[]Event{types.Parameter(16, 0, 1), types.Parameter(16, 1, 1), types.Parameter(40, 0, 0)},
			[]segment{{0, 16, 0}, {16, 40, 2}, {40, 64, 1}},
		},
		{"last frame", []Event{types.Parameter(63, 0, 1)}, []segment{{0, 63, 0}, {63, 64, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []segment
			Segments(tt.events, 64, func(start, end uint32, at []Event) {
				got = append(got, segment{start, end, len(at)})
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuffer(t *testing.T) {
	types := testTypes()
	b := NewBuffer(2)

	assert.True(t, b.Write(types.Parameter(0, 0, 1)))
	assert.True(t, b.Write(types.Parameter(1, 0, 1)))
	assert.False(t, b.Write(types.Parameter(2, 0, 1)))
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, uint64(1), b.Dropped())

	b.Reset()
	assert.Zero(t, b.Len())
	assert.Equal(t, 2, cap(b.Events()))
}

func TestAppendProgramChange(t *testing.T) {
	types := testTypes()

	out := types.AppendProgramChange(nil, types.MidiProgram(7, 3, 0, 5))
	require.Len(t, out, 1)
	assert.Equal(t, ProgramChangeBytes(3, 5), out[0].Bytes())

	var ch, prog uint8
	require.True(t, out[0].Message().GetProgramChange(&ch, &prog))
	assert.Equal(t, uint8(3), ch)
	assert.Equal(t, uint8(5), prog)
	assert.Equal(t, uint32(7), out[0].Frame)

	out = types.AppendProgramChange(out[:0], types.MidiProgram(0, 0, 130, 1))
	require.Len(t, out, 3)

	var cc, val uint8
	require.True(t, out[0].Message().GetControlChange(&ch, &cc, &val))
	assert.Equal(t, uint8(0), cc)
	assert.Equal(t, uint8(1), val)
	require.True(t, out[1].Message().GetControlChange(&ch, &cc, &val))
	assert.Equal(t, uint8(32), cc)
	assert.Equal(t, uint8(2), val)
}
