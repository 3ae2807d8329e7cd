package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotAtStart(t *testing.T) {
	c := NewClock(48000)
	info := c.Snapshot()

	assert.False(t, info.Playing)
	assert.Zero(t, info.Frame)
	assert.True(t, info.BBT.Valid)
	assert.Equal(t, int32(1), info.BBT.Bar)
	assert.Equal(t, int32(1), info.BBT.Beat)
	assert.Zero(t, info.BBT.Tick)
}

func TestAdvanceOnlyWhilePlaying(t *testing.T) {
	c := NewClock(48000)
	c.Advance(512)
	assert.Zero(t, c.Frame())

	c.Play()
	c.Advance(512)
	c.Advance(512)
	assert.Equal(t, uint64(1024), c.Frame())

	c.Stop()
	c.Advance(512)
	assert.Equal(t, uint64(1024), c.Frame())
}

func TestBBT(t *testing.T) {
	tests := []struct {
		name            string
		frame           uint64
		bpm             float64
		beatsPerBar     float32
		beatType        float32
		bar, beat, tick int32
		barStartTick    float64
	}{
		// 120 bpm at 48k: one beat is 24000 frames
		{"second beat", 24000, 120, 4, 4, 1, 2, 0, 0},
		{"half beat", 12000, 120, 4, 4, 1, 1, 960, 0},
		{"second bar", 96000, 120, 4, 4, 2, 1, 0, 4 * 1920},
		{"three four", 72000, 120, 3, 4, 2, 1, 0, 3 * 1920},
		{"six eight", 12000, 120, 6, 8, 1, 2, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock(48000)
			c.SetTempo(tt.bpm)
			c.SetSignature(tt.beatsPerBar, tt.beatType)
			c.Locate(tt.frame)

			bbt := c.Snapshot().BBT
			assert.Equal(t, tt.bar, bbt.Bar)
			assert.Equal(t, tt.beat, bbt.Beat)
			assert.Equal(t, tt.tick, bbt.Tick)
			assert.Equal(t, tt.barStartTick, bbt.BarStartTick)
		})
	}
}

func TestUsecs(t *testing.T) {
	c := NewClock(48000)
	c.Locate(48000)
	assert.Equal(t, uint64(1000000), c.Snapshot().Usecs)
}

func TestInvalidSampleRate(t *testing.T) {
	c := NewClock(0)
	assert.False(t, c.Snapshot().BBT.Valid)
}
