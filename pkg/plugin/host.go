package plugin

import (
	"github.com/justyntemme/nativeplug/pkg/dispatch"
	"github.com/justyntemme/nativeplug/pkg/event"
	"github.com/justyntemme/nativeplug/pkg/framework/debug"
	"github.com/justyntemme/nativeplug/pkg/intern"
	"github.com/justyntemme/nativeplug/pkg/transport"
)

// Host is the facade a host hands to each instance.
type Host interface {
	ResourceDir() string
	UITitle() string

	BufferSize() uint32
	SampleRate() float64
	IsOffline() bool

	// MapValue and UnmapValue translate strings to tokens. They must not be
	// called from Process.
	MapValue(s string) intern.Token
	UnmapValue(tok intern.Token) (string, error)

	// EventTypes and Opcodes are pre-interned at session setup.
	EventTypes() event.Types
	Opcodes() *dispatch.Catalog

	// TimeInfo is only valid inside Process and returns nil elsewhere.
	TimeInfo() *transport.Info

	// WriteEvent is the realtime write path for rtsafe output parameters
	// and MIDI out. Invalid events are dropped and false is returned.
	WriteEvent(ev event.Event) bool

	UIParameterChanged(index uint32, value float32)
	UIMidiProgramChanged(channel uint8, bank, program uint32)
	UIClosed()
	UIOpenFile(isDir bool, title, filter string) string
	UISaveFile(isDir bool, title, filter string) string

	// Dispatch receives host-bound opcodes.
	dispatch.Dispatcher

	Logger() *debug.Logger
}
