package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"

	"github.com/justyntemme/nativeplug/pkg/event"
	"github.com/justyntemme/nativeplug/pkg/intern"
)

// testVoice stays active through its release until Stop.
type testVoice struct {
	active    bool
	releasing bool
	note      uint8
	velocity  uint8
	amplitude float32
	starts    int
}

func (v *testVoice) Active() bool       { return v.active }
func (v *testVoice) Amplitude() float32 { return v.amplitude }
func (v *testVoice) Release()           { v.releasing = true }
func (v *testVoice) Stop()              { v.active, v.releasing = false, false }

func (v *testVoice) Start(note, velocity uint8) {
	v.active, v.releasing = true, false
	v.note, v.velocity = note, velocity
	v.amplitude = float32(velocity) / 127
	v.starts++
}

func pool(n int) ([]Voice, []*testVoice) {
	voices := make([]Voice, n)
	raw := make([]*testVoice, n)
	for i := range voices {
		raw[i] = &testVoice{}
		voices[i] = raw[i]
	}
	return voices, raw
}

func sounding(raw []*testVoice) map[uint8]bool {
	notes := map[uint8]bool{}
	for _, v := range raw {
		if v.active && !v.releasing {
			notes[v.note] = true
		}
	}
	return notes
}

func TestPolyAllocation(t *testing.T) {
	voices, raw := pool(4)
	a := NewAllocator(voices)

	a.NoteOn(60, 100)
	a.NoteOn(64, 100)
	a.NoteOn(67, 100)
	assert.Equal(t, 3, a.ActiveCount())
	assert.Equal(t, map[uint8]bool{60: true, 64: true, 67: true}, sounding(raw))

	a.NoteOff(64)
	assert.Equal(t, map[uint8]bool{60: true, 67: true}, sounding(raw))

	// retrigger reuses the voice already playing the note
	a.NoteOn(60, 80)
	n := 0
	for _, v := range raw {
		if v.note == 60 {
			n++
			assert.Equal(t, uint8(80), v.velocity)
			assert.Equal(t, 2, v.starts)
		}
	}
	assert.Equal(t, 1, n)
}

func TestStealing(t *testing.T) {
	tests := []struct {
		name   string
		mode   StealingMode
		stolen uint8 // note that must be gone, 0 for none
		plays  bool
	}{
		{"oldest", StealOldest, 60, true},
		{"quietest", StealQuietest, 62, true},
		{"none", StealNone, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			voices, raw := pool(2)
			a := NewAllocator(voices)
			a.SetStealingMode(tt.mode)

			a.NoteOn(60, 100)
			a.NoteOn(62, 10)
			a.NoteOn(72, 90)

			notes := sounding(raw)
			assert.Equal(t, tt.plays, notes[72])
			if tt.stolen != 0 {
				assert.False(t, notes[tt.stolen])
			} else {
				assert.True(t, notes[60])
				assert.True(t, notes[62])
			}
		})
	}
}

func TestMonoMode(t *testing.T) {
	voices, raw := pool(3)
	a := NewAllocator(voices)
	a.SetMode(ModeMono)
	assert.Equal(t, ModeMono, a.Mode())

	a.NoteOn(60, 100)
	a.NoteOn(67, 100)
	assert.Equal(t, 1, a.ActiveCount())
	assert.Equal(t, uint8(67), raw[0].note)

	// the replaced note no longer owns the voice
	a.NoteOff(60)
	assert.False(t, raw[0].releasing)
	a.NoteOff(67)
	assert.True(t, raw[0].releasing)
}

func TestSustainPedal(t *testing.T) {
	voices, raw := pool(2)
	a := NewAllocator(voices)

	a.NoteOn(60, 100)
	a.SetSustain(true)
	a.NoteOff(60)
	assert.False(t, raw[0].releasing)

	a.SetSustain(false)
	assert.True(t, raw[0].releasing)
}

func TestHandleEvent(t *testing.T) {
	voices, raw := pool(4)
	a := NewAllocator(voices)
	types := event.NewTypes(intern.New())

	send := func(msg midi.Message) {
		ev, err := types.FromMessage(0, 0, msg)
		require.NoError(t, err)
		a.HandleEvent(&ev)
	}

	send(midi.NoteOn(0, 60, 100))
	send(midi.NoteOn(0, 64, 100))
	assert.Len(t, sounding(raw), 2)

	// note on with velocity 0 ends the note
	send(midi.NoteOn(0, 64, 0))
	assert.Equal(t, map[uint8]bool{60: true}, sounding(raw))

	send(midi.ControlChange(0, ccSustain, 127))
	send(midi.NoteOff(0, 60))
	assert.Equal(t, map[uint8]bool{60: true}, sounding(raw))
	send(midi.ControlChange(0, ccSustain, 0))
	assert.Empty(t, sounding(raw))

	send(midi.NoteOn(0, 50, 100))
	send(midi.ControlChange(0, ccAllSoundOff, 0))
	assert.Equal(t, 0, a.ActiveCount())

	param := types.Parameter(0, 0, 1)
	a.HandleEvent(&param)
	assert.Equal(t, 0, a.ActiveCount())
}
