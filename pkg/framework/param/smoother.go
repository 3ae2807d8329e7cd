package param

import (
	"math"
)

// SmoothingType defines different parameter smoothing algorithms.
type SmoothingType int

const (
	// LinearSmoothing ramps to the target over a fixed number of samples
	LinearSmoothing SmoothingType = iota
	// ExponentialSmoothing uses a one-pole filter
	ExponentialSmoothing
)

// Smoother removes zipper noise from rtsafe parameter changes. It belongs to
// the processing thread and is not safe for concurrent use.
type Smoother struct {
	kind      SmoothingType
	current   float32
	target    float32
	rate      float32 // samples for linear, coefficient for exponential
	step      float32
	threshold float32
	active    bool
}

// NewSmoother creates a new parameter smoother.
func NewSmoother(kind SmoothingType, rate float32) *Smoother {
	return &Smoother{
		kind:      kind,
		rate:      rate,
		threshold: 0.0001,
	}
}

// SetTime derives the rate from a ramp time in milliseconds.
func (s *Smoother) SetTime(sampleRate float64, ms float64) {
	samples := sampleRate * ms / 1000
	if samples < 1 {
		samples = 1
	}
	switch s.kind {
	case LinearSmoothing:
		s.rate = float32(samples)
	case ExponentialSmoothing:
		// -60 dB after the ramp time
		s.rate = float32(math.Exp(-6.908 / samples))
	}
}

// SetTarget sets the target value for smoothing. Repeating the running
// target leaves the ramp untouched.
func (s *Smoother) SetTarget(target float32) {
	if target == s.target && s.active {
		return
	}
	if abs32(target-s.target) < s.threshold && !s.active {
		return
	}
	s.target = target
	s.active = true
	if s.kind == LinearSmoothing && s.rate > 0 {
		s.step = (target - s.current) / s.rate
	}
}

// Next returns the next smoothed value.
func (s *Smoother) Next() float32 {
	if !s.active {
		return s.current
	}
	switch s.kind {
	case ExponentialSmoothing:
		s.current += (s.target - s.current) * (1 - s.rate)
		if abs32(s.current-s.target) < s.threshold {
			s.current = s.target
			s.active = false
		}
	case LinearSmoothing:
		if s.rate <= 0 {
			s.current = s.target
			s.active = false
			break
		}
		s.current += s.step
		if (s.step >= 0 && s.current >= s.target) || (s.step < 0 && s.current <= s.target) {
			s.current = s.target
			s.active = false
		}
	}
	return s.current
}

// IsSmoothing returns true while a ramp is in progress.
func (s *Smoother) IsSmoothing() bool {
	return s.active
}

// Reset jumps to value without ramping.
func (s *Smoother) Reset(value float32) {
	s.current = value
	s.target = value
	s.active = false
}
