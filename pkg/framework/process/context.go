// Package process provides the per-call processing context handed to a
// plugin.
package process

import (
	"github.com/justyntemme/nativeplug/pkg/event"
	"github.com/justyntemme/nativeplug/pkg/framework/param"
	"github.com/justyntemme/nativeplug/pkg/transport"
)

// EventWriter is the host's write path for plugin-originated events.
type EventWriter interface {
	WriteEvent(ev event.Event) bool
}

// Context provides a clean API for audio processing with zero allocations.
// Buffers, events and the transport snapshot are borrowed from the host for
// the duration of one call and must not be retained.
type Context struct {
	Input      [][]float32
	Output     [][]float32
	Frames     uint32
	SampleRate float64

	// Events are sorted by frame and every frame is below Frames.
	Events []event.Event

	// Time is nil unless the plugin declared the time feature.
	Time *transport.Info

	writer EventWriter

	// Pre-allocated scratch, one block long
	workBuffer []float32

	params *param.Registry
}

// NewContext creates a new process context with pre-allocated buffers
func NewContext(maxBlockSize int, params *param.Registry) *Context {
	return &Context{
		workBuffer: make([]float32, maxBlockSize),
		params:     params,
	}
}

// Resize reallocates the work buffer. Only called outside processing.
func (c *Context) Resize(maxBlockSize int) {
	if maxBlockSize <= len(c.workBuffer) {
		return
	}
	c.workBuffer = make([]float32, maxBlockSize)
}

// Begin binds the borrowed buffers for one call.
func (c *Context) Begin(input, output [][]float32, frames uint32, events []event.Event, time *transport.Info, w EventWriter) {
	c.Input = input
	c.Output = output
	c.Frames = frames
	c.Events = events
	c.Time = time
	c.writer = w
}

// End drops every borrowed reference.
func (c *Context) End() {
	c.Input = nil
	c.Output = nil
	c.Frames = 0
	c.Events = nil
	c.Time = nil
	c.writer = nil
}

// Param returns the current value of parameter i
func (c *Context) Param(i uint32) float32 {
	if c.params == nil {
		return 0
	}
	return c.params.Value(i)
}

// ApplyParameter stores a parameter event through the realtime mutation
// path. It returns false for other events and for parameters that are not
// rtsafe inputs.
func (c *Context) ApplyParameter(ev *event.Event) bool {
	if c.params == nil || ev.Kind != event.KindParameter {
		return false
	}
	_, err := c.params.ApplyEvent(ev.Index, ev.Value)
	return err == nil
}

// WriteEvent hands an event to the host. It returns false if the host
// rejected or dropped it.
func (c *Context) WriteEvent(ev event.Event) bool {
	if c.writer == nil {
		return false
	}
	return c.writer.WriteEvent(ev)
}

// Segments splits the block at event frames, see event.Segments.
func (c *Context) Segments(fn func(start, end uint32, at []event.Event)) {
	event.Segments(c.Events, c.Frames, fn)
}

// NumSamples returns the number of samples to process
func (c *Context) NumSamples() int {
	return int(c.Frames)
}

// NumInputChannels returns the number of input channels
func (c *Context) NumInputChannels() int {
	return len(c.Input)
}

// NumOutputChannels returns the number of output channels
func (c *Context) NumOutputChannels() int {
	return len(c.Output)
}

// WorkBuffer returns a slice of the pre-allocated work buffer
// sized to the current block size - no allocation!
func (c *Context) WorkBuffer() []float32 {
	return c.workBuffer[:c.NumSamples()]
}
