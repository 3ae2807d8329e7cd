package filter

import (
	"math"
	"testing"
)

func rms(buf []float32) float64 {
	var sum float64
	for _, s := range buf {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(buf)))
}

func sine(freq, rate float64, n int) []float32 {
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / rate))
	}
	return buf
}

func TestLowpassAttenuatesHighFrequencies(t *testing.T) {
	const rate = 48000
	s := NewSVF(1)
	s.SetFrequencyAndQ(rate, 500, 0.707)

	low := sine(100, rate, 4800)
	s.ProcessLowpass(low, 0)
	s.Reset()
	high := sine(10000, rate, 4800)
	s.ProcessLowpass(high, 0)

	// skip the transient
	lowRMS, highRMS := rms(low[480:]), rms(high[480:])
	if lowRMS < 0.6 {
		t.Errorf("passband RMS too low: %f", lowRMS)
	}
	if highRMS > 0.05 {
		t.Errorf("stopband RMS too high: %f", highRMS)
	}
}

func TestCutoffClampedBelowNyquist(t *testing.T) {
	s := NewSVF(2)
	s.SetFrequencyAndQ(44100, 40000, 0)

	out := s.ProcessSample(1, 1)
	if math.IsNaN(float64(out.Lowpass)) || math.IsInf(float64(out.Lowpass), 0) {
		t.Fatalf("unstable output %v", out)
	}
	if s.ic1eq[0] != 0 {
		t.Error("channel 0 state touched by channel 1")
	}
}
