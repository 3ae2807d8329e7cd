// Package host binds plugin instances to a host facade and drives them.
//
// A Session owns one instance, its interner and its transport. Control
// operations (parameter sets, program changes, state, renegotiation) lock the
// session; Process only tries the lock and renders silence when a control
// operation holds it, so the realtime thread never blocks.
package host

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/justyntemme/nativeplug/pkg/dispatch"
	"github.com/justyntemme/nativeplug/pkg/event"
	"github.com/justyntemme/nativeplug/pkg/framework/debug"
	"github.com/justyntemme/nativeplug/pkg/framework/param"
	"github.com/justyntemme/nativeplug/pkg/framework/process"
	"github.com/justyntemme/nativeplug/pkg/host/config"
	"github.com/justyntemme/nativeplug/pkg/host/rtmem"
	"github.com/justyntemme/nativeplug/pkg/intern"
	"github.com/justyntemme/nativeplug/pkg/plugin"
	"github.com/justyntemme/nativeplug/pkg/transport"
)

var (
	ErrClosed          = errors.New("host: session closed")
	ErrNoInstance      = errors.New("host: no live instance")
	ErrInactive        = errors.New("host: instance not active")
	ErrBusy            = errors.New("host: session busy")
	ErrBufferSize      = errors.New("host: block size not accepted by the plugin")
	ErrSampleRate      = errors.New("host: invalid sample rate")
	ErrChannels        = errors.New("host: audio channel mismatch")
	ErrTooManyEvents   = errors.New("host: too many events")
	ErrNoState         = errors.New("host: plugin has no state feature")
	ErrNoUI            = errors.New("host: plugin has no ui")
	ErrRealtimeOutput  = errors.New("host: rtsafe output parameters are delivered as events, not polled")
	ErrPluginPanic     = errors.New("host: plugin panicked")
	ErrInstantiateFail = errors.New("host: instantiate failed")
)

const defaultMaxEvents = 512

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *debug.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHandles shares an instance arena between sessions.
func WithHandles(h *plugin.Handles) Option {
	return func(s *Session) {
		if h != nil {
			s.handles = h
		}
	}
}

// WithObserver receives plugin-initiated notifications.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// WithFileDialog answers UIOpenFile and UISaveFile requests.
func WithFileDialog(fn FileDialog) Option {
	return func(s *Session) {
		s.files = fn
	}
}

// FileDialog asks the user for a path. It returns "" when cancelled.
type FileDialog func(save, isDir bool, title, filter string) string

// Observer is notified about plugin-initiated changes. Calls arrive on the
// thread the plugin used; plugins only send these from the control thread.
// Calls may happen while the session is locked, so an Observer must not call
// back into the Session.
type Observer interface {
	ParameterChanged(index uint32, value float32)
	MidiProgramChanged(channel uint8, bank, program uint32)
	Reloaded(what Reload)
	UIClosed()
}

// Reload names what a plugin asked the host to refresh.
type Reload int

const (
	ReloadParameters Reload = iota
	ReloadMidiPrograms
	ReloadAll
)

func (r Reload) String() string {
	switch r {
	case ReloadParameters:
		return "parameters"
	case ReloadMidiPrograms:
		return "programs"
	default:
		return "all"
	}
}

// Session hosts a single plugin instance.
type Session struct {
	id   uuid.UUID
	desc *plugin.Descriptor
	cfg  config.Config
	log  *debug.Logger

	// mu serializes control operations against each other and against
	// Process, which only ever TryLocks it.
	mu sync.Mutex

	interner *intern.Interner
	types    event.Types
	catalog  *dispatch.Catalog
	ordering event.Ordering
	table    *dispatch.Table
	facade   *hostFacade

	handles *plugin.Handles
	handle  plugin.Handle
	inst    plugin.Instance
	params  *param.Registry

	bufferSize uint32
	sampleRate float64
	offline    bool
	uiTitle    string
	active     bool
	closed     bool
	memLocked  bool

	clock    *transport.Clock
	timeInfo transport.Info
	ctx      *process.Context
	scratch  []event.Event
	out      *event.Buffer

	maxEvents int

	// realtime state, valid while inProcess is set
	inProcess atomic.Bool
	frames    uint32

	inProgramChange atomic.Bool
	mix             mixer

	// cached on the control thread, refreshed by reload requests
	cacheMu  sync.Mutex
	descs    []param.Descriptor
	programs param.ProgramList
	midiCC   []atomic.Int32

	uiAvailable atomic.Bool
	uiVisible   atomic.Bool
	pending     pendingEvents

	idle *IdleRunner
	load debug.LoadMeter

	observer Observer
	files    FileDialog

	reloads          [3]atomic.Uint64
	reinstantiations atomic.Uint64
	rejected         atomic.Uint64
	filtered         atomic.Uint64
	busy             atomic.Uint64
	panics           atomic.Uint64
}

// New instantiates the plugin described by desc with the engine settings of
// cfg. The instance starts deactivated.
func New(desc *plugin.Descriptor, cfg config.Config, opts ...Option) (*Session, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("host: config: %w", err)
	}

	s := &Session{
		id:         uuid.New(),
		desc:       desc,
		cfg:        cfg,
		log:        debug.Default(),
		interner:   intern.New(),
		ordering:   cfg.Ordering(),
		bufferSize: cfg.Audio.BufferSize,
		sampleRate: cfg.Audio.SampleRate,
		offline:    cfg.Audio.Offline,
		uiTitle:    cfg.Session.UITitle,
		clock:      transport.NewClock(cfg.Audio.SampleRate),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.handles == nil {
		s.handles = plugin.NewHandles()
	}
	s.log = s.log.With("session", s.id.String(), "plugin", desc.Label)
	s.interner.SetLogger(s.log)

	// every token the realtime path needs exists before the first block
	s.types = event.NewTypes(s.interner)
	s.catalog = dispatch.NewCatalog(s.interner)
	s.interner.InternAll(desc.Features.Sorted()...)
	s.interner.InternAll(desc.Categories.Sorted()...)
	s.interner.InternAll(desc.Supports.Sorted()...)

	maxEvents := cfg.Session.MaxEvents
	if maxEvents <= 0 {
		maxEvents = defaultMaxEvents
	}
	s.maxEvents = maxEvents
	s.out = event.NewBuffer(maxEvents)
	// caller events plus queued ui events, each program event can become
	// three raw midi events
	s.scratch = make([]event.Event, 0, 3*2*maxEvents)
	s.pending = newPendingEvents(maxEvents)
	s.facade = &hostFacade{s: s}
	s.table = dispatch.NewTable(s.log)
	s.registerHostOpcodes()
	s.uiAvailable.Store(true)
	s.mix.reset()
	s.idle = NewIdleRunner(cfg.Session.IdleIntervalMS, func() { s.Idle() })

	inst, err := s.instantiate()
	if err != nil {
		return nil, err
	}
	s.handle = s.handles.Add(inst)

	if cfg.Session.LockMemory {
		if err := rtmem.Lock(); err != nil {
			s.log.Warn("memory locking unavailable: %v", err)
		} else {
			s.memLocked = true
		}
	}

	s.log.Debug("session started at %d frames, %.0f Hz", s.bufferSize, s.sampleRate)
	return s, nil
}

// instantiate creates an instance against the current host snapshot and
// rebuilds everything sized by it. Callers hold mu or own s exclusively.
func (s *Session) instantiate() (plugin.Instance, error) {
	inst, err := s.desc.Instantiate(s.facade)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInstantiateFail, s.desc.Label, err)
	}
	if inst == nil {
		return nil, fmt.Errorf("%w: %s returned no instance", ErrInstantiateFail, s.desc.Label)
	}
	params := inst.Parameters()
	if params == nil {
		params = param.NewRegistry()
	}

	s.inst = inst
	s.params = params
	s.ctx = process.NewContext(int(s.bufferSize), params)
	s.ctx.SampleRate = s.sampleRate

	s.cacheMu.Lock()
	s.midiCC = make([]atomic.Int32, params.Count())
	for i := range s.midiCC {
		s.midiCC[i].Store(-1)
	}
	s.refreshParametersLocked()
	s.refreshProgramsLocked()
	s.cacheMu.Unlock()
	return inst, nil
}

// ID returns the session's unique id.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Handle returns the instance handle. It survives reinstantiation.
func (s *Session) Handle() plugin.Handle {
	return s.handle
}

// Descriptor returns the hosted plugin's descriptor.
func (s *Session) Descriptor() *plugin.Descriptor {
	return s.desc
}

// Interner returns the session's value interner.
func (s *Session) Interner() *intern.Interner {
	return s.interner
}

// EventTypes returns the session's event constructors.
func (s *Session) EventTypes() event.Types {
	return s.types
}

// Opcodes returns the session's opcode catalog.
func (s *Session) Opcodes() *dispatch.Catalog {
	return s.catalog
}

// BufferSize returns the accepted maximum block size.
func (s *Session) BufferSize() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bufferSize
}

// SampleRate returns the accepted sample rate.
func (s *Session) SampleRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleRate
}

// Offline reports whether the session renders offline.
func (s *Session) Offline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offline
}

// Instance returns the live instance.
func (s *Session) Instance() plugin.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inst
}

// Activate activates the instance.
func (s *Session) Activate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}
	if !s.active {
		s.inst.Activate()
		s.active = true
	}
	return nil
}

// Deactivate deactivates the instance.
func (s *Session) Deactivate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}
	if s.active {
		s.inst.Deactivate()
		s.active = false
	}
	return nil
}

// Active reports whether the instance is active.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Close deactivates and destroys the instance and tears down the interner.
// Only the first call has an effect.
func (s *Session) Close() error {
	s.idle.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if s.inst != nil {
		if s.active {
			s.inst.Deactivate()
			s.active = false
		}
		s.inst.Cleanup()
		s.inst = nil
	}
	s.handles.Remove(s.handle)
	s.interner.Reset()

	var err error
	if s.memLocked {
		err = rtmem.Release()
		s.memLocked = false
	}
	s.log.Debug("session closed")
	return err
}

// usable requires mu.
func (s *Session) usable() error {
	if s.closed {
		return ErrClosed
	}
	if s.inst == nil {
		return ErrNoInstance
	}
	return nil
}

// Stats is a snapshot of session counters.
type Stats struct {
	Load             debug.LoadStats
	Reinstantiations uint64
	Rejected         uint64
	FilteredEvents   uint64
	Busy             uint64
	Panics           uint64
	DroppedWrites    uint64
	Reloads          map[Reload]uint64
	UnknownOpcodes   uint64
}

// Stats returns the session counters.
func (s *Session) Stats() Stats {
	st := Stats{
		Load:             s.load.Snapshot(),
		Reinstantiations: s.reinstantiations.Load(),
		Rejected:         s.rejected.Load(),
		FilteredEvents:   s.filtered.Load(),
		Busy:             s.busy.Load(),
		Panics:           s.panics.Load(),
		DroppedWrites:    s.out.Dropped(),
		Reloads:          make(map[Reload]uint64, len(s.reloads)),
		UnknownOpcodes:   s.table.Unsupported(),
	}
	for i := range s.reloads {
		st.Reloads[Reload(i)] = s.reloads[i].Load()
	}
	return st
}

// hasFeature is a shorthand for the descriptor's feature set.
func (s *Session) hasFeature(f string) bool {
	return s.desc.Features.Has(f)
}
