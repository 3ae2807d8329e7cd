package plugin

import (
	"sync/atomic"

	"github.com/justyntemme/nativeplug/pkg/dispatch"
	"github.com/justyntemme/nativeplug/pkg/framework/param"
	"github.com/justyntemme/nativeplug/pkg/framework/state"
	"github.com/justyntemme/nativeplug/pkg/intern"
)

// Base provides core functionality for all plugins: the parameter registry,
// MIDI programs, state and an opcode table. Plugins embed it and add
// Process.
type Base struct {
	host     Host
	params   *param.Registry
	state    *state.Manager
	table    *dispatch.Table
	programs param.ProgramList
	current  atomic.Int32
	onSelect func(index int)
}

// NewBase creates a new plugin base for the plugin registered as label
func NewBase(host Host, label string) *Base {
	b := &Base{
		host:   host,
		params: param.NewRegistry(),
		table:  dispatch.NewTable(host.Logger()),
	}
	b.current.Store(state.NoProgram)
	b.state = state.NewManager(label, b.params)
	b.state.SetPrograms(state.ProgramFuncs{
		Count:   func() uint32 { return b.programs.Count() },
		Current: b.CurrentProgram,
		Select:  func(i int32) { b.SelectProgram(int(i)) },
	})
	return b
}

// Host returns the host facade.
func (b *Base) Host() Host {
	return b.host
}

// Parameters returns the parameter registry
func (b *Base) Parameters() *param.Registry {
	return b.params
}

// AddParameters appends parameters in index order.
func (b *Base) AddParameters(params ...*param.Parameter) error {
	return b.params.Add(params...)
}

// Freeze fixes the parameter list and applies the host sample rate to
// sample-rate parameters. Call it at the end of Instantiate.
func (b *Base) Freeze() {
	b.params.Freeze()
	b.params.SetSampleRate(float32(b.host.SampleRate()))
}

// State returns the state manager for custom sections.
func (b *Base) State() *state.Manager {
	return b.state
}

// SaveState implements Stateful.
func (b *Base) SaveState() ([]byte, error) {
	return b.state.Save()
}

// RestoreState implements Stateful.
func (b *Base) RestoreState(data []byte) error {
	return b.state.Restore(data)
}

// SetPrograms installs the program catalog. onSelect applies a program and
// may change parameter values; it can run inside processing and must not
// allocate.
func (b *Base) SetPrograms(programs param.ProgramList, onSelect func(index int)) {
	b.programs = programs
	b.onSelect = onSelect
}

// Programs implements ProgramHandler.
func (b *Base) Programs() param.ProgramList {
	return b.programs
}

// CurrentProgram returns the selected program index or -1.
func (b *Base) CurrentProgram() int32 {
	return b.current.Load()
}

// SetMidiProgram implements ProgramHandler. Unknown programs are ignored.
func (b *Base) SetMidiProgram(channel uint8, bank, program uint32) {
	i, ok := b.programs.Find(bank, program)
	if !ok {
		return
	}
	b.SelectProgram(i)
}

// SelectProgram applies program index i.
func (b *Base) SelectProgram(i int) {
	if i < 0 || i >= len(b.programs) {
		return
	}
	b.current.Store(int32(i))
	if b.onSelect != nil {
		b.onSelect(i)
	}
}

// Handle registers a handler for a plugin-bound opcode.
func (b *Base) Handle(op dispatch.PluginOpcode, h dispatch.Handler) {
	b.table.Handle(b.host.Opcodes().Plugin(op), h)
}

// AcceptSampleRate answers sampleRateChanged in place: sample-rate
// parameters are rescaled and fn, if any, adapts the DSP.
func (b *Base) AcceptSampleRate(fn func(rate float64)) {
	b.Handle(dispatch.PluginSampleRateChanged, func(_ int32, _ int64, _ any, opt float32) int64 {
		if opt <= 0 {
			return 0
		}
		b.params.SetSampleRate(opt)
		if fn != nil {
			fn(float64(opt))
		}
		return 1
	})
}

// AcceptBufferSize answers bufferSizeChanged in place.
func (b *Base) AcceptBufferSize(fn func(size uint32)) {
	b.Handle(dispatch.PluginBufferSizeChanged, func(_ int32, value int64, _ any, _ float32) int64 {
		if value <= 0 {
			return 0
		}
		if fn != nil {
			fn(uint32(value))
		}
		return 1
	})
}

// Dispatch implements dispatch.Dispatcher.
func (b *Base) Dispatch(op intern.Token, index int32, value int64, ptr any, opt float32) int64 {
	return b.table.Dispatch(op, index, value, ptr, opt)
}

// Activate is a no-op by default.
func (b *Base) Activate() {}

// Deactivate is a no-op by default.
func (b *Base) Deactivate() {}

// Cleanup is a no-op by default.
func (b *Base) Cleanup() {}
