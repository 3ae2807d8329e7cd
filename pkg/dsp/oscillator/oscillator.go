// Package oscillator provides naive periodic waveforms for synthesis
package oscillator

import "math"

// Waveform selects the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Saw
	Square
	Triangle
)

// Names of the waveforms in Waveform order.
var Names = [...]string{"Sine", "Saw", "Square", "Triangle"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(Names) {
		return "unknown"
	}
	return Names[w]
}

// NoteToFrequency converts a MIDI note number to Hz (A4 = 440).
func NoteToFrequency(note uint8) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

// Oscillator generates one waveform sample at a time. Phase runs in [0, 1).
type Oscillator struct {
	sampleRate float64
	frequency  float64
	phase      float64
	phaseInc   float64
}

// New creates a new oscillator at 440 Hz
func New(sampleRate float64) *Oscillator {
	o := &Oscillator{sampleRate: sampleRate}
	o.SetFrequency(440)
	return o
}

// SetSampleRate keeps the frequency and recomputes the increment.
func (o *Oscillator) SetSampleRate(sampleRate float64) {
	o.sampleRate = sampleRate
	o.SetFrequency(o.frequency)
}

// SetFrequency sets the oscillator frequency
func (o *Oscillator) SetFrequency(freq float64) {
	o.frequency = freq
	if o.sampleRate > 0 {
		o.phaseInc = freq / o.sampleRate
	}
}

// Frequency returns the current frequency.
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// Reset resets the oscillator phase to 0
func (o *Oscillator) Reset() {
	o.phase = 0
}

// Next returns the next sample of waveform w.
func (o *Oscillator) Next(w Waveform) float32 {
	p := o.phase
	var sample float64
	switch w {
	case Saw:
		sample = 2*p - 1
	case Square:
		sample = 1
		if p >= 0.5 {
			sample = -1
		}
	case Triangle:
		if p < 0.5 {
			sample = 4*p - 1
		} else {
			sample = 3 - 4*p
		}
	default:
		sample = math.Sin(2 * math.Pi * p)
	}

	o.phase += o.phaseInc
	if o.phase >= 1 {
		o.phase -= math.Floor(o.phase)
	}
	return float32(sample)
}
