package host

import (
	"fmt"

	"github.com/justyntemme/nativeplug/pkg/dispatch"
	"github.com/justyntemme/nativeplug/pkg/framework/param"
	"github.com/justyntemme/nativeplug/pkg/plugin"
	"github.com/justyntemme/nativeplug/pkg/tags"
	"github.com/justyntemme/nativeplug/pkg/transport"
)

// ParameterCount returns the number of parameters of the live instance.
func (s *Session) ParameterCount() uint32 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return uint32(len(s.descs))
}

// ParameterInfo returns the cached descriptor of parameter i. The cache is
// refreshed when the plugin asks for a parameter reload.
func (s *Session) ParameterInfo(i uint32) (param.Descriptor, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if i >= uint32(len(s.descs)) {
		return param.Descriptor{}, fmt.Errorf("%w: %d", param.ErrIndexOutOfRange, i)
	}
	return s.descs[i], nil
}

// ParameterValue polls parameter i. Outputs flagged rtsafe cannot be polled;
// their changes arrive through Output.
func (s *Session) ParameterValue(i uint32) (float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return 0, err
	}
	p, err := s.params.Get(i)
	if err != nil {
		return 0, err
	}
	if p.Hints().Has(param.IsOutput | param.IsRTSafe) {
		return 0, ErrRealtimeOutput
	}
	return p.Value(), nil
}

// ParameterText returns the plugin's display string for v, or "" when the
// parameter has no custom text.
func (s *Session) ParameterText(i uint32, v float32) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usable() != nil {
		return ""
	}
	return s.params.FormatText(i, v)
}

// SetParameter changes a non-rtsafe input parameter from the control thread
// and returns the stored value. Rtsafe inputs only change through parameter
// events passed to Process.
func (s *Session) SetParameter(i uint32, v float32) (float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return 0, err
	}
	stored, err := s.params.SetNonRT(i, v)
	if err != nil {
		return stored, err
	}
	if ui, ok := s.inst.(plugin.UI); ok && s.uiVisible.Load() {
		ui.UISetParameter(i, stored)
	}
	return stored, nil
}

// MidiCC returns the MIDI controller mapped to parameter i, or -1.
func (s *Session) MidiCC(i uint32) int32 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if i >= uint32(len(s.midiCC)) {
		return -1
	}
	return s.midiCC[i].Load()
}

// Programs returns the cached MIDI program catalog.
func (s *Session) Programs() param.ProgramList {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	out := make(param.ProgramList, len(s.programs))
	copy(out, s.programs)
	return out
}

// SetMidiProgram switches program outside processing. While the plugin
// handles the change it may adjust the output mix through the host
// dispatcher; those opcodes are refused at any other time.
func (s *Session) SetMidiProgram(channel uint8, bank, program uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}
	ph, ok := s.inst.(plugin.ProgramHandler)
	if !ok {
		return fmt.Errorf("%w: %s has no midi programs", param.ErrNoProgram, s.desc.Label)
	}
	if _, ok := ph.Programs().Find(bank, program); !ok {
		return fmt.Errorf("%w: bank %d program %d", param.ErrNoProgram, bank, program)
	}

	s.inProgramChange.Store(true)
	ph.SetMidiProgram(channel, bank, program)
	s.inProgramChange.Store(false)

	if ui, ok := s.inst.(plugin.UI); ok && s.uiVisible.Load() {
		ui.UISetMidiProgram(channel, bank, program)
	}
	return nil
}

// SaveState returns the plugin's state blob. The caller owns it.
func (s *Session) SaveState() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return nil, err
	}
	st, ok := s.stateful()
	if !ok {
		return nil, ErrNoState
	}
	return st.SaveState()
}

// RestoreState hands a blob produced by SaveState to the plugin.
func (s *Session) RestoreState(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}
	st, ok := s.stateful()
	if !ok {
		return ErrNoState
	}
	if err := st.RestoreState(data); err != nil {
		return err
	}
	s.updateParameter(-1)
	return nil
}

// stateful requires mu.
func (s *Session) stateful() (plugin.Stateful, bool) {
	if !s.hasFeature(tags.FeatureState) {
		return nil, false
	}
	st, ok := s.inst.(plugin.Stateful)
	return st, ok
}

// SetOffline notifies the plugin about offline rendering.
func (s *Session) SetOffline(offline bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}
	if s.offline == offline {
		return nil
	}
	s.offline = offline
	var v int64
	if offline {
		v = 1
	}
	s.inst.Dispatch(s.catalog.Plugin(dispatch.PluginOfflineChanged), 0, v, nil, 0)
	return nil
}

// SetUITitle renames the plugin's UI window.
func (s *Session) SetUITitle(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}
	s.uiTitle = title
	s.inst.Dispatch(s.catalog.Plugin(dispatch.PluginUITitleChanged), 0, 0, title, 0)
	return nil
}

// SendMessage delivers a generic message to the plugin and returns its
// answer; 0 means the plugin did not understand it.
func (s *Session) SendMessage(msg string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usable() != nil {
		return 0
	}
	return s.inst.Dispatch(s.catalog.Plugin(dispatch.PluginMsgReceived), 0, 0, msg, 0)
}

// DispatchPlugin sends an opcode token to the plugin. Unknown opcodes,
// including extension opcodes the plugin never registered, return 0.
func (s *Session) DispatchPlugin(op string, index int32, value int64, ptr any, opt float32) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usable() != nil {
		return 0
	}
	tok, ok := s.interner.Lookup(op)
	if !ok {
		return 0
	}
	return s.inst.Dispatch(tok, index, value, ptr, opt)
}

// ShowUI shows or hides the plugin's UI.
func (s *Session) ShowUI(show bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}
	ui, ok := s.inst.(plugin.UI)
	if !ok || !s.uiAvailable.Load() {
		return ErrNoUI
	}
	ui.UIShow(show)
	s.uiVisible.Store(show && s.uiAvailable.Load())
	return nil
}

// UIVisible reports whether the plugin's UI is shown.
func (s *Session) UIVisible() bool {
	return s.uiVisible.Load()
}

// Idle runs the control-thread idle callbacks: the one the plugin asked for
// with needsIdle, and the UI idle while the UI is shown. It returns whether
// the plugin's idle callback ran.
func (s *Session) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usable() != nil {
		return false
	}

	ran := false
	if s.idle.take() {
		if idler, ok := s.inst.(plugin.Idler); ok {
			idler.Idle()
			ran = true
		}
	}
	if ui, ok := s.inst.(plugin.UI); ok && s.uiVisible.Load() {
		ui.UIIdle()
	}
	return ran
}

// Transport runs fn with the session's clock between blocks.
func (s *Session) Transport(fn func(c *transport.Clock)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.clock)
}
