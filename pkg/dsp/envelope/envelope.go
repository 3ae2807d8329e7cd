// Package envelope provides envelope generators for audio synthesis
package envelope

import "math"

// Stage represents the current envelope stage
type Stage int

const (
	StageIdle Stage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

// minTime keeps every segment at least 1ms long.
const minTime = 0.001

// ADSR implements an Attack-Decay-Sustain-Release envelope generator with
// exponential segments.
type ADSR struct {
	sampleRate float64

	// seconds for attack, decay and release, 0-1 for sustain
	attack  float64
	decay   float64
	sustain float64
	release float64

	attackCoef  float64
	decayCoef   float64
	releaseCoef float64

	stage Stage
	value float64
}

// New creates a new ADSR envelope
func New(sampleRate float64) *ADSR {
	e := &ADSR{
		sampleRate: sampleRate,
		attack:     0.01,
		decay:      0.1,
		sustain:    0.7,
		release:    0.3,
	}
	e.updateCoefficients()
	return e
}

// SetSampleRate recomputes the coefficients for a new rate.
func (e *ADSR) SetSampleRate(sampleRate float64) {
	e.sampleRate = sampleRate
	e.updateCoefficients()
}

// SetADSR sets all parameters at once
func (e *ADSR) SetADSR(attack, decay, sustain, release float64) {
	e.attack = math.Max(minTime, attack)
	e.decay = math.Max(minTime, decay)
	e.sustain = math.Max(0, math.Min(1, sustain))
	e.release = math.Max(minTime, release)
	e.updateCoefficients()
}

func (e *ADSR) updateCoefficients() {
	e.attackCoef = coef(e.attack, e.sampleRate)
	e.decayCoef = coef(e.decay, e.sampleRate)
	e.releaseCoef = coef(e.release, e.sampleRate)
}

// coef = exp(-1 / (time * sampleRate))
func coef(seconds, sampleRate float64) float64 {
	if seconds <= 0 || sampleRate <= 0 {
		return 0
	}
	return math.Exp(-1 / (seconds * sampleRate))
}

// Trigger starts the envelope (note on). A running envelope restarts its
// attack from the current level.
func (e *ADSR) Trigger() {
	e.stage = StageAttack
}

// Release starts the release stage (note off)
func (e *ADSR) Release() {
	if e.stage != StageIdle {
		e.stage = StageRelease
	}
}

// Reset immediately returns the envelope to idle
func (e *ADSR) Reset() {
	e.stage = StageIdle
	e.value = 0
}

// IsActive returns true if the envelope is generating output
func (e *ADSR) IsActive() bool {
	return e.stage != StageIdle
}

// Stage returns the current stage.
func (e *ADSR) Stage() Stage {
	return e.stage
}

// Value returns the last generated level.
func (e *ADSR) Value() float32 {
	return float32(e.value)
}

// Next generates the next envelope value
func (e *ADSR) Next() float32 {
	switch e.stage {
	case StageAttack:
		// aim past 1 so the exponential actually reaches the top
		e.value = 1.2 + (e.value-1.2)*e.attackCoef
		if e.value >= 1 {
			e.value = 1
			e.stage = StageDecay
		}
	case StageDecay:
		e.value = e.sustain + (e.value-e.sustain)*e.decayCoef
		if e.value <= e.sustain+0.001 {
			e.value = e.sustain
			e.stage = StageSustain
		}
	case StageSustain:
		e.value = e.sustain
	case StageRelease:
		e.value *= e.releaseCoef
		if e.value <= 0.001 {
			e.value = 0
			e.stage = StageIdle
		}
	default:
		e.value = 0
	}
	return float32(e.value)
}
