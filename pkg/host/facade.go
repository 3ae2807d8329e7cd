package host

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/justyntemme/nativeplug/pkg/dispatch"
	"github.com/justyntemme/nativeplug/pkg/event"
	"github.com/justyntemme/nativeplug/pkg/framework/debug"
	"github.com/justyntemme/nativeplug/pkg/framework/param"
	"github.com/justyntemme/nativeplug/pkg/intern"
	"github.com/justyntemme/nativeplug/pkg/tags"
	"github.com/justyntemme/nativeplug/pkg/transport"
)

// hostFacade is the plugin.Host handed to instances. It reads session
// fields directly: plugins call it from inside host-initiated calls, which
// already hold the session lock, so it must never lock mu itself.
type hostFacade struct {
	s *Session
}

func (h *hostFacade) ResourceDir() string { return h.s.cfg.Session.ResourceDir }
func (h *hostFacade) UITitle() string     { return h.s.uiTitle }
func (h *hostFacade) BufferSize() uint32  { return h.s.bufferSize }
func (h *hostFacade) SampleRate() float64 { return h.s.sampleRate }
func (h *hostFacade) IsOffline() bool     { return h.s.offline }

func (h *hostFacade) MapValue(str string) intern.Token {
	return h.s.interner.Intern(str)
}

func (h *hostFacade) UnmapValue(tok intern.Token) (string, error) {
	return h.s.interner.Resolve(tok)
}

func (h *hostFacade) EventTypes() event.Types    { return h.s.types }
func (h *hostFacade) Opcodes() *dispatch.Catalog { return h.s.catalog }
func (h *hostFacade) Logger() *debug.Logger      { return h.s.log }

// TimeInfo returns the block's transport snapshot, or nil outside Process or
// when the plugin did not declare the time feature.
func (h *hostFacade) TimeInfo() *transport.Info {
	if !h.s.inProcess.Load() || !h.s.hasFeature(tags.FeatureTime) {
		return nil
	}
	return &h.s.timeInfo
}

// WriteEvent validates a plugin-originated event and queues it for the host.
func (h *hostFacade) WriteEvent(ev event.Event) bool {
	s := h.s
	if !s.inProcess.Load() || !s.hasFeature(tags.FeatureWriteEvent) || ev.Frame >= s.frames {
		s.out.Drop()
		return false
	}

	switch ev.Kind {
	case event.KindParameter:
		p, err := s.params.Get(ev.Index)
		if err != nil || !p.Hints().Has(param.IsOutput|param.IsRTSafe) {
			s.out.Drop()
			return false
		}
		v, err := s.params.PushOutput(ev.Index, ev.Value)
		if err != nil {
			s.out.Drop()
			return false
		}
		ev.Value = v
	case event.KindMidi:
		if ev.Size == 0 || ev.Size > event.MaxMidiSize || uint32(ev.Port) >= s.desc.Counts.MidiOuts {
			s.out.Drop()
			return false
		}
	default:
		s.out.Drop()
		return false
	}

	ev.Type = s.types.Token(ev.Kind)
	return s.out.Write(ev)
}

// UIParameterChanged routes a change made in the plugin's UI through the
// mutation path the parameter allows: non-rtsafe inputs are set directly,
// rtsafe inputs are queued as events for the next block.
func (h *hostFacade) UIParameterChanged(index uint32, value float32) {
	s := h.s
	p, err := s.params.Get(index)
	if err != nil || p.Hints().Has(param.IsOutput) {
		return
	}
	if p.Hints().Has(param.IsRTSafe) {
		if !s.pending.push(s.types.Parameter(0, index, value)) {
			s.log.Warn("ui parameter %d dropped, queue full", index)
		}
		return
	}
	if v, err := s.params.SetNonRT(index, value); err == nil && s.observer != nil {
		s.observer.ParameterChanged(index, v)
	}
}

func (h *hostFacade) UIMidiProgramChanged(channel uint8, bank, program uint32) {
	s := h.s
	if !s.pending.push(s.types.MidiProgram(0, channel, bank, program)) {
		s.log.Warn("ui program change dropped, queue full")
		return
	}
	if s.observer != nil {
		s.observer.MidiProgramChanged(channel, bank, program)
	}
}

func (h *hostFacade) UIClosed() {
	h.s.uiVisible.Store(false)
	if h.s.observer != nil {
		h.s.observer.UIClosed()
	}
}

func (h *hostFacade) UIOpenFile(isDir bool, title, filter string) string {
	return h.s.fileDialog(false, isDir, title, filter)
}

func (h *hostFacade) UISaveFile(isDir bool, title, filter string) string {
	return h.s.fileDialog(true, isDir, title, filter)
}

// Dispatch receives host-bound opcodes.
func (h *hostFacade) Dispatch(op intern.Token, index int32, value int64, ptr any, opt float32) int64 {
	return h.s.table.Dispatch(op, index, value, ptr, opt)
}

func (s *Session) fileDialog(save, isDir bool, title, filter string) string {
	if !s.hasFeature(tags.FeatureUIOpenSave) || s.files == nil {
		return ""
	}
	return s.files(save, isDir, title, filter)
}

// Mix holds the output stage a plugin may adjust while it handles a MIDI
// program change.
type Mix struct {
	Volume       float32
	DryWet       float32
	BalanceLeft  float32
	BalanceRight float32
	Panning      float32
}

// DefaultMix is unity volume, fully wet, full stereo width and centered.
var DefaultMix = Mix{Volume: 1, DryWet: 1, BalanceLeft: -1, BalanceRight: 1}

type mixer struct {
	volume       atomic.Uint32
	dryWet       atomic.Uint32
	balanceLeft  atomic.Uint32
	balanceRight atomic.Uint32
	panning      atomic.Uint32
}

func (m *mixer) reset() {
	m.store(DefaultMix)
}

func (m *mixer) store(x Mix) {
	m.volume.Store(math.Float32bits(x.Volume))
	m.dryWet.Store(math.Float32bits(x.DryWet))
	m.balanceLeft.Store(math.Float32bits(x.BalanceLeft))
	m.balanceRight.Store(math.Float32bits(x.BalanceRight))
	m.panning.Store(math.Float32bits(x.Panning))
}

func (m *mixer) load() Mix {
	return Mix{
		Volume:       math.Float32frombits(m.volume.Load()),
		DryWet:       math.Float32frombits(m.dryWet.Load()),
		BalanceLeft:  math.Float32frombits(m.balanceLeft.Load()),
		BalanceRight: math.Float32frombits(m.balanceRight.Load()),
		Panning:      math.Float32frombits(m.panning.Load()),
	}
}

// Mix returns the output stage values set by the plugin.
func (s *Session) Mix() Mix {
	return s.mix.load()
}

// pendingEvents queues UI-originated events for the next block. The control
// thread pushes under the lock; Process only tries it and leaves the queue
// for the next block when contended.
type pendingEvents struct {
	mu     *sync.Mutex
	events []event.Event
}

func newPendingEvents(capacity int) pendingEvents {
	return pendingEvents{mu: new(sync.Mutex), events: make([]event.Event, 0, capacity)}
}

func (p *pendingEvents) push(ev event.Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == cap(p.events) {
		return false
	}
	p.events = append(p.events, ev)
	return true
}

// take locks the queue without blocking and returns its events. The caller
// must call release when ok is true.
func (p *pendingEvents) take() ([]event.Event, bool) {
	if !p.mu.TryLock() {
		return nil, false
	}
	return p.events, true
}

// release empties the queue and unlocks it.
func (p *pendingEvents) release() {
	p.events = p.events[:0]
	p.mu.Unlock()
}

func (p *pendingEvents) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}
