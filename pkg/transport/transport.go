// Package transport provides the time and tempo snapshot a host hands to a
// plugin inside a processing call.
package transport

import (
	"fmt"
	"math"
)

// Defaults used when a clock is created.
const (
	DefaultTempo        = 120.0
	DefaultBeatsPerBar  = 4
	DefaultBeatType     = 4
	DefaultTicksPerBeat = 1920.0
)

// BBT is the bar/beat/tick position. Bar and beat are 1-based.
type BBT struct {
	Valid bool

	Bar  int32
	Beat int32
	Tick int32

	BarStartTick float64

	BeatsPerBar    float32
	BeatType       float32
	TicksPerBeat   float64
	BeatsPerMinute float64
}

// Info is the transport state at the first frame of a block.
type Info struct {
	Playing bool
	Frame   uint64
	Usecs   uint64
	BBT     BBT
}

func (i Info) String() string {
	state := "stopped"
	if i.Playing {
		state = "playing"
	}
	if !i.BBT.Valid {
		return fmt.Sprintf("%s frame=%d", state, i.Frame)
	}
	return fmt.Sprintf("%s frame=%d %d.%d.%d @ %.2f bpm", state, i.Frame,
		i.BBT.Bar, i.BBT.Beat, i.BBT.Tick, i.BBT.BeatsPerMinute)
}

// Clock is the host-side transport. It is owned by a session and is not
// safe for concurrent use; the session serializes control changes against
// processing.
type Clock struct {
	sampleRate   float64
	tempo        float64
	beatsPerBar  float32
	beatType     float32
	ticksPerBeat float64
	playing      bool
	frame        uint64
}

// NewClock creates a stopped clock at frame 0.
func NewClock(sampleRate float64) *Clock {
	return &Clock{
		sampleRate:   sampleRate,
		tempo:        DefaultTempo,
		beatsPerBar:  DefaultBeatsPerBar,
		beatType:     DefaultBeatType,
		ticksPerBeat: DefaultTicksPerBeat,
	}
}

// SetSampleRate changes the rate frames are converted with.
func (c *Clock) SetSampleRate(sampleRate float64) {
	c.sampleRate = sampleRate
}

// SetTempo sets beats per minute. Non-positive values are ignored.
func (c *Clock) SetTempo(bpm float64) {
	if bpm > 0 {
		c.tempo = bpm
	}
}

// SetSignature sets the time signature, e.g. 3/4.
func (c *Clock) SetSignature(beatsPerBar, beatType float32) {
	if beatsPerBar > 0 && beatType > 0 {
		c.beatsPerBar = beatsPerBar
		c.beatType = beatType
	}
}

// Play starts the transport.
func (c *Clock) Play() { c.playing = true }

// Stop halts the transport without moving it.
func (c *Clock) Stop() { c.playing = false }

// Locate moves to frame.
func (c *Clock) Locate(frame uint64) { c.frame = frame }

// Playing reports whether the transport runs.
func (c *Clock) Playing() bool { return c.playing }

// Frame returns the current position.
func (c *Clock) Frame() uint64 { return c.frame }

// Advance moves the position by frames when playing. Hosts call it after
// each processing call.
func (c *Clock) Advance(frames uint32) {
	if c.playing {
		c.frame += uint64(frames)
	}
}

// Snapshot computes the transport info for the current position.
func (c *Clock) Snapshot() Info {
	info := Info{Playing: c.playing, Frame: c.frame}
	if c.sampleRate <= 0 {
		return info
	}

	seconds := float64(c.frame) / c.sampleRate
	info.Usecs = uint64(seconds * 1e6)

	// beat length follows the beat type: a quarter-note tempo in 6/8 has
	// eighth-note beats twice as fast
	beats := seconds * c.tempo / 60 * float64(c.beatType) / 4
	perBar := float64(c.beatsPerBar)
	bars := math.Floor(beats / perBar)
	inBar := beats - bars*perBar
	beat := math.Floor(inBar)

	info.BBT = BBT{
		Valid:          true,
		Bar:            int32(bars) + 1,
		Beat:           int32(beat) + 1,
		Tick:           int32((inBar - beat) * c.ticksPerBeat),
		BarStartTick:   bars * perBar * c.ticksPerBeat,
		BeatsPerBar:    c.beatsPerBar,
		BeatType:       c.beatType,
		TicksPerBeat:   c.ticksPerBeat,
		BeatsPerMinute: c.tempo,
	}
	return info
}
