package debug

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

// LoadMeter measures processing time against the block deadline. Record is
// lock-free and allocation-free so it can run at the end of every block.
type LoadMeter struct {
	count    atomic.Uint64
	total    atomic.Int64
	max      atomic.Int64
	lastLoad atomic.Uint64 // float64 bits
	peakLoad atomic.Uint64 // float64 bits
	overruns atomic.Uint64
}

// LoadStats is a point-in-time copy of a LoadMeter.
type LoadStats struct {
	Count    uint64
	Average  time.Duration
	Max      time.Duration
	Load     float64 // last block, 1.0 means the whole deadline was used
	PeakLoad float64
	Overruns uint64
}

// Record stores one processing call of frames samples at sampleRate.
func (m *LoadMeter) Record(elapsed time.Duration, frames uint32, sampleRate float64) {
	m.count.Add(1)
	m.total.Add(int64(elapsed))

	for {
		cur := m.max.Load()
		if int64(elapsed) <= cur || m.max.CompareAndSwap(cur, int64(elapsed)) {
			break
		}
	}

	if frames == 0 || sampleRate <= 0 {
		return
	}
	deadline := float64(frames) / sampleRate * float64(time.Second)
	load := float64(elapsed) / deadline
	m.lastLoad.Store(math.Float64bits(load))
	if load > 1 {
		m.overruns.Add(1)
	}
	for {
		cur := m.peakLoad.Load()
		if load <= math.Float64frombits(cur) || m.peakLoad.CompareAndSwap(cur, math.Float64bits(load)) {
			break
		}
	}
}

// Snapshot returns the current statistics.
func (m *LoadMeter) Snapshot() LoadStats {
	s := LoadStats{
		Count:    m.count.Load(),
		Max:      time.Duration(m.max.Load()),
		Load:     math.Float64frombits(m.lastLoad.Load()),
		PeakLoad: math.Float64frombits(m.peakLoad.Load()),
		Overruns: m.overruns.Load(),
	}
	if s.Count > 0 {
		s.Average = time.Duration(m.total.Load() / int64(s.Count))
	}
	return s
}

// Reset clears all measurements.
func (m *LoadMeter) Reset() {
	m.count.Store(0)
	m.total.Store(0)
	m.max.Store(0)
	m.lastLoad.Store(0)
	m.peakLoad.Store(0)
	m.overruns.Store(0)
}

// String formats the statistics for reports.
func (s LoadStats) String() string {
	return fmt.Sprintf("blocks=%d avg=%v max=%v load=%.1f%% peak=%.1f%% overruns=%d",
		s.Count, s.Average, s.Max, s.Load*100, s.PeakLoad*100, s.Overruns)
}
