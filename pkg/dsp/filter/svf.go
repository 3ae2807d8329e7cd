// Package filter provides digital signal processing filters
package filter

import "math"

// SVF implements a state variable filter with simultaneous lowpass,
// highpass, bandpass and notch outputs. Zero-delay feedback topology.
type SVF struct {
	g float32 // frequency coefficient
	k float32 // damping, 1/Q

	// integrator state per channel
	ic1eq []float32
	ic2eq []float32
}

// Outputs holds every filter response for one sample.
type Outputs struct {
	Lowpass  float32
	Highpass float32
	Bandpass float32
	Notch    float32
}

// NewSVF creates a new state variable filter for the specified number of channels
func NewSVF(channels int) *SVF {
	s := &SVF{
		ic1eq: make([]float32, channels),
		ic2eq: make([]float32, channels),
	}
	s.SetFrequencyAndQ(48000, 1000, 0.707)
	return s
}

// Reset clears the filter state
func (s *SVF) Reset() {
	clear(s.ic1eq)
	clear(s.ic2eq)
}

// SetFrequencyAndQ sets cutoff and resonance. The cutoff is kept below
// Nyquist.
func (s *SVF) SetFrequencyAndQ(sampleRate, frequency, q float64) {
	nyquist := sampleRate * 0.49
	if frequency > nyquist {
		frequency = nyquist
	}
	if frequency < 1 {
		frequency = 1
	}
	if q < 0.1 {
		q = 0.1
	}
	// pre-warp for the bilinear transform
	s.g = float32(math.Tan(math.Pi * frequency / sampleRate))
	s.k = float32(1 / q)
}

// ProcessSample filters one sample of channel ch.
func (s *SVF) ProcessSample(input float32, ch int) Outputs {
	ic1eq, ic2eq := s.ic1eq[ch], s.ic2eq[ch]

	a1 := 1 / (1 + s.g*(s.g+s.k))
	a2 := s.g * a1
	a3 := s.g * a2

	v3 := input - ic2eq
	v1 := a1*ic1eq + a2*v3
	v2 := ic2eq + a2*ic1eq + a3*v3

	s.ic1eq[ch] = 2*v1 - ic1eq
	s.ic2eq[ch] = 2*v2 - ic2eq

	return Outputs{
		Lowpass:  v2,
		Bandpass: v1,
		Highpass: input - s.k*v1 - v2,
		Notch:    input - s.k*v1,
	}
}

// ProcessLowpass filters buffer in place - no allocations
func (s *SVF) ProcessLowpass(buffer []float32, ch int) {
	for i := range buffer {
		buffer[i] = s.ProcessSample(buffer[i], ch).Lowpass
	}
}
