package plugin

import (
	"github.com/justyntemme/nativeplug/pkg/dispatch"
	"github.com/justyntemme/nativeplug/pkg/framework/param"
	"github.com/justyntemme/nativeplug/pkg/framework/process"
)

// Instance is the per-instance operation set every plugin provides.
type Instance interface {
	// Parameters returns the frozen parameter registry.
	Parameters() *param.Registry

	Activate()
	Deactivate()

	// Process renders one block - ZERO ALLOCATIONS!
	Process(ctx *process.Context)

	// Dispatch receives plugin-bound opcodes. Unknown opcodes return 0.
	dispatch.Dispatcher

	// Cleanup releases the instance. It is called exactly once.
	Cleanup()
}

// ProgramHandler is implemented by instances with MIDI programs.
type ProgramHandler interface {
	Programs() param.ProgramList
	// SetMidiProgram switches program outside processing.
	SetMidiProgram(channel uint8, bank, program uint32)
}

// Stateful is implemented by instances with the state feature.
type Stateful interface {
	SaveState() ([]byte, error)
	RestoreState(data []byte) error
}

// UI is implemented by instances with a user interface.
type UI interface {
	UIShow(show bool)
	UIIdle()
	UISetParameter(index uint32, value float32)
	UISetMidiProgram(channel uint8, bank, program uint32)
}

// Idler is implemented by instances that asked for an idle callback.
type Idler interface {
	Idle()
}
