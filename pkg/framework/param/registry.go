package param

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	ErrIndexOutOfRange = errors.New("param: index out of range")
	ErrRealtimeOnly    = errors.New("param: rtsafe input can only change through a parameter event")
	ErrNotRealtime     = errors.New("param: non-rtsafe input cannot change during processing")
	ErrOutput          = errors.New("param: output parameters are read-only for the host")
	ErrNotOutput       = errors.New("param: not an output parameter")
	ErrFrozen          = errors.New("param: registry is frozen")
	ErrInvalidValue    = errors.New("param: invalid value")
	ErrCountMismatch   = errors.New("param: value count mismatch")
)

// Registry holds a plugin's parameters in index order. Indices are stable
// for the lifetime of the instance: parameters are added during
// instantiation and the registry is frozen before the host sees it.
type Registry struct {
	mu     sync.Mutex
	params []*Parameter
	frozen bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends parameters in order.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	r.params = append(r.params, params...)
	return nil
}

// Freeze fixes the parameter list. Reads after Freeze never lock.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Count returns the number of parameters.
func (r *Registry) Count() uint32 {
	return uint32(len(r.params))
}

// Get returns the parameter at index i.
func (r *Registry) Get(i uint32) (*Parameter, error) {
	if i >= uint32(len(r.params)) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return r.params[i], nil
}

// All returns the parameters in index order.
func (r *Registry) All() []*Parameter {
	out := make([]*Parameter, len(r.params))
	copy(out, r.params)
	return out
}

// Describe returns the host-facing descriptor of parameter i.
func (r *Registry) Describe(i uint32) (Descriptor, error) {
	p, err := r.Get(i)
	if err != nil {
		return Descriptor{}, err
	}
	return p.Descriptor(), nil
}

// Value returns the current value of parameter i, or 0 when out of range.
func (r *Registry) Value(i uint32) float32 {
	if i >= uint32(len(r.params)) {
		return 0
	}
	return r.params[i].Value()
}

// FormatText returns the custom display string for v. It is empty unless
// the parameter carries the customtext hint.
func (r *Registry) FormatText(i uint32, v float32) string {
	p, err := r.Get(i)
	if err != nil || !p.Hints().Has(UsesCustomText) {
		return ""
	}
	return p.Text(v)
}

// ApplyEvent is the realtime mutation path: it accepts only rtsafe inputs.
func (r *Registry) ApplyEvent(i uint32, v float32) (float32, error) {
	p, err := r.Get(i)
	if err != nil {
		return 0, err
	}
	h := p.Hints()
	switch {
	case h.Has(IsOutput):
		return p.Value(), ErrOutput
	case !h.Has(IsRTSafe):
		return p.Value(), ErrNotRealtime
	}
	return p.store(v), nil
}

// SetNonRT is the control-thread mutation path: it accepts only
// non-rtsafe inputs.
func (r *Registry) SetNonRT(i uint32, v float32) (float32, error) {
	p, err := r.Get(i)
	if err != nil {
		return 0, err
	}
	h := p.Hints()
	switch {
	case h.Has(IsOutput):
		return p.Value(), ErrOutput
	case h.Has(IsRTSafe):
		return p.Value(), ErrRealtimeOnly
	}
	return p.store(v), nil
}

// PushOutput is used by the plugin to publish an output parameter value.
func (r *Registry) PushOutput(i uint32, v float32) (float32, error) {
	p, err := r.Get(i)
	if err != nil {
		return 0, err
	}
	if !p.Hints().Has(IsOutput) {
		return p.Value(), ErrNotOutput
	}
	return p.store(v), nil
}

// Set stores v on any parameter regardless of its mutation path. Plugins use
// it for program changes and state restore.
func (r *Registry) Set(i uint32, v float32) (float32, error) {
	p, err := r.Get(i)
	if err != nil {
		return 0, err
	}
	return p.store(v), nil
}

// SetSampleRate rescales every sample-rate parameter, keeping its
// rate-independent value.
func (r *Registry) SetSampleRate(sampleRate float32) {
	for _, p := range r.params {
		p.setScale(sampleRate)
	}
}

// Normalized returns every value with sample-rate scaling removed.
func (r *Registry) Normalized() []float32 {
	out := make([]float32, len(r.params))
	for i, p := range r.params {
		out[i] = p.Normalized()
	}
	return out
}

// RestoreNormalized applies values saved by Normalized. Every value is
// checked before any is applied, so a failed restore changes nothing.
func (r *Registry) RestoreNormalized(values []float32) error {
	if len(values) != len(r.params) {
		return fmt.Errorf("%w: have %d, got %d", ErrCountMismatch, len(r.params), len(values))
	}
	for i, v := range values {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: parameter %d is %v", ErrInvalidValue, i, v)
		}
	}
	for i, v := range values {
		p := r.params[i]
		p.store(v * p.scale)
	}
	return nil
}

// Reset returns every parameter to its default.
func (r *Registry) Reset() {
	for _, p := range r.params {
		p.store(p.Ranges().Def)
	}
}
