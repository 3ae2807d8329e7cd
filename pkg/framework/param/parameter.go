// Package param provides parameter descriptors, hint semantics and the
// indexed parameter registry shared by hosts and plugins.
package param

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Default range steps.
const (
	DefaultStep      float32 = 0.01
	DefaultStepSmall float32 = 0.0001
	DefaultStepLarge float32 = 0.1
)

// Ranges describes the legal values of a parameter.
type Ranges struct {
	Def       float32
	Min       float32
	Max       float32
	Step      float32
	StepSmall float32
	StepLarge float32
}

// NewRanges fills in the default steps.
func NewRanges(def, min, max float32) Ranges {
	return Ranges{
		Def:       def,
		Min:       min,
		Max:       max,
		Step:      DefaultStep,
		StepSmall: DefaultStepSmall,
		StepLarge: DefaultStepLarge,
	}
}

// Scaled multiplies every value by f.
func (r Ranges) Scaled(f float32) Ranges {
	return Ranges{
		Def:       r.Def * f,
		Min:       r.Min * f,
		Max:       r.Max * f,
		Step:      r.Step * f,
		StepSmall: r.StepSmall * f,
		StepLarge: r.StepLarge * f,
	}
}

// ScalePoint is a named discrete value.
type ScalePoint struct {
	Label string
	Value float32
}

// Descriptor is the static description of one parameter. For parameters with
// the sample-rate hint, Ranges and ScalePoints are declared per unit of sample
// rate; the registry reports them scaled.
type Descriptor struct {
	Hints       Hints
	Name        string
	Unit        string
	Ranges      Ranges
	ScalePoints []ScalePoint
}

// Parameter is one live parameter: its descriptor plus the current value.
// The value is read and written atomically so the processing call never locks.
type Parameter struct {
	desc  Descriptor
	value atomic.Uint32 // float32 bits, already scaled
	scale float32       // current sample rate for UsesSampleRate, else 1
	text  func(float32) string
}

// NewParameter creates a parameter at its default value.
func NewParameter(desc Descriptor) *Parameter {
	p := &Parameter{desc: desc, scale: 1}
	p.value.Store(math.Float32bits(p.Constrain(desc.Ranges.Def)))
	return p
}

// Descriptor returns the descriptor as reported to the host, with sample-rate
// scaling applied.
func (p *Parameter) Descriptor() Descriptor {
	d := p.desc
	if p.scale != 1 {
		d.Ranges = d.Ranges.Scaled(p.scale)
		if len(d.ScalePoints) > 0 {
			points := make([]ScalePoint, len(d.ScalePoints))
			for i, sp := range d.ScalePoints {
				points[i] = ScalePoint{Label: sp.Label, Value: sp.Value * p.scale}
			}
			d.ScalePoints = points
		}
	}
	return d
}

// Hints returns the parameter hints.
func (p *Parameter) Hints() Hints {
	return p.desc.Hints
}

// Name returns the display name.
func (p *Parameter) Name() string {
	return p.desc.Name
}

// Ranges returns the current, scaled ranges.
func (p *Parameter) Ranges() Ranges {
	if p.scale == 1 {
		return p.desc.Ranges
	}
	return p.desc.Ranges.Scaled(p.scale)
}

// Value returns the current value.
func (p *Parameter) Value() float32 {
	return math.Float32frombits(p.value.Load())
}

// Normalized returns the value with sample-rate scaling removed. This is the
// form used for persistence.
func (p *Parameter) Normalized() float32 {
	if p.scale == 0 {
		return 0
	}
	return p.Value() / p.scale
}

// Constrain applies the hint semantics to v: clamp to the range, snap
// booleans to the nearest bound, round integers and snap integer scale-point
// parameters to the nearest point.
func (p *Parameter) Constrain(v float32) float32 {
	r := p.Ranges()
	if math.IsNaN(float64(v)) {
		return r.Def
	}
	v = clamp(v, r.Min, r.Max)

	h := p.desc.Hints
	switch {
	case h.Has(IsBoolean):
		if v < r.Min+(r.Max-r.Min)/2 {
			return r.Min
		}
		return r.Max
	case h.Has(IsInteger):
		v = clamp(float32(math.Round(float64(v))), r.Min, r.Max)
		if h.Has(UsesScalePoints) && len(p.desc.ScalePoints) > 0 {
			v = p.nearestPoint(v)
		}
	}
	return v
}

func (p *Parameter) nearestPoint(v float32) float32 {
	best := p.desc.ScalePoints[0].Value * p.scale
	bestDist := abs32(v - best)
	for _, sp := range p.desc.ScalePoints[1:] {
		pv := sp.Value * p.scale
		if d := abs32(v - pv); d < bestDist {
			best, bestDist = pv, d
		}
	}
	return best
}

// store constrains and publishes v, returning the stored value.
func (p *Parameter) store(v float32) float32 {
	v = p.Constrain(v)
	p.value.Store(math.Float32bits(v))
	return v
}

// setScale rescales a sample-rate parameter so that its normalized value is
// preserved. It is a no-op for other parameters.
func (p *Parameter) setScale(sampleRate float32) {
	if !p.desc.Hints.Has(UsesSampleRate) || sampleRate <= 0 {
		return
	}
	norm := p.Normalized()
	p.scale = sampleRate
	p.value.Store(math.Float32bits(p.Constrain(norm * sampleRate)))
}

// Text formats v using the custom text function, falling back to a plain
// number. Hosts only ask for this when UsesCustomText is set.
func (p *Parameter) Text(v float32) string {
	if p.text != nil {
		return p.text(v)
	}
	if p.desc.Hints.Has(UsesScalePoints) {
		for _, sp := range p.desc.ScalePoints {
			if sp.Value*p.scale == v {
				return sp.Label
			}
		}
	}
	if p.desc.Hints.Has(IsInteger) || p.desc.Hints.Has(IsBoolean) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
