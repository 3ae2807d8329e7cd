package host

import (
	"fmt"
	"time"

	"github.com/justyntemme/nativeplug/pkg/event"
	"github.com/justyntemme/nativeplug/pkg/framework/param"
	"github.com/justyntemme/nativeplug/pkg/tags"
)

// Process renders one block of frames samples. in and out are borrowed for
// the call: in needs at least the plugin's audio input count of channels and
// out its output count, each with room for frames samples. events must have
// frames below frames; with the sort ordering they may arrive in any order.
//
// Process never blocks. If a control operation holds the session, the
// outputs are cleared and ErrBusy is returned. A rejected block also
// renders silence and the plugin is not called.
func (s *Session) Process(in, out [][]float32, frames uint32, events []event.Event) error {
	if !s.mu.TryLock() {
		s.busy.Add(1)
		silence(out, frames)
		return ErrBusy
	}
	defer s.mu.Unlock()

	s.out.Reset()
	if err := s.admit(in, out, frames, events); err != nil {
		s.rejected.Add(1)
		silence(out, frames)
		return err
	}

	s.scratch = s.prepareEvents(s.scratch[:0], events)

	s.timeInfo = s.clock.Snapshot()
	timeInfo := &s.timeInfo
	if !s.hasFeature(tags.FeatureTime) {
		timeInfo = nil
	}

	s.frames = frames
	s.interner.Seal()
	s.inProcess.Store(true)
	s.ctx.Begin(in, out, frames, s.scratch, timeInfo, s.facade)

	start := time.Now()
	err := s.run(out, frames)
	elapsed := time.Since(start)

	s.ctx.End()
	s.inProcess.Store(false)
	s.frames = 0
	s.interner.Unseal()

	s.load.Record(elapsed, frames, s.sampleRate)
	s.clock.Advance(frames)
	return err
}

// run calls the plugin, turning a panic into silence.
func (s *Session) run(out [][]float32, frames uint32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.panics.Add(1)
			silence(out, frames)
			err = fmt.Errorf("%w: %v", ErrPluginPanic, r)
		}
	}()
	s.inst.Process(s.ctx)
	return nil
}

// admit checks a block against what the plugin accepted. Requires mu.
func (s *Session) admit(in, out [][]float32, frames uint32, events []event.Event) error {
	if err := s.usable(); err != nil {
		return err
	}
	if !s.active {
		return ErrInactive
	}

	if frames == 0 || frames > s.bufferSize {
		return fmt.Errorf("%w: %d frames, accepted %d", ErrBufferSize, frames, s.bufferSize)
	}
	if s.hasFeature(tags.FeatureFixedBuffers) && frames != s.bufferSize {
		return fmt.Errorf("%w: fixed buffers of %d, got %d", ErrBufferSize, s.bufferSize, frames)
	}

	if uint32(len(in)) < s.desc.Counts.AudioIns || uint32(len(out)) < s.desc.Counts.AudioOuts {
		return fmt.Errorf("%w: have %d/%d, plugin needs %d/%d", ErrChannels,
			len(in), len(out), s.desc.Counts.AudioIns, s.desc.Counts.AudioOuts)
	}
	for _, buf := range in {
		if uint32(len(buf)) < frames {
			return fmt.Errorf("%w: input shorter than %d frames", ErrChannels, frames)
		}
	}
	for _, buf := range out {
		if uint32(len(buf)) < frames {
			return fmt.Errorf("%w: output shorter than %d frames", ErrChannels, frames)
		}
	}

	if len(events) > s.maxEvents {
		return fmt.Errorf("%w: %d", ErrTooManyEvents, len(events))
	}
	if i, err := event.Validate(events, frames); err != nil {
		return fmt.Errorf("host: event %d: %w", i, err)
	}
	if s.ordering == event.OrderStrict && !event.IsSorted(events) {
		return event.ErrUnsorted
	}
	return nil
}

// prepareEvents copies the caller's events into dst, leaving the caller's
// slice untouched. Parameter events for anything but rtsafe inputs are
// dropped, program events are translated to raw MIDI for plugins that handle
// program changes themselves, and queued UI events are merged at frame 0
// ahead of the caller's events.
func (s *Session) prepareEvents(dst, events []event.Event) []event.Event {
	if queued, ok := s.pending.take(); ok {
		for _, ev := range queued {
			dst = s.appendEvent(dst, ev)
		}
		s.pending.release()
	}
	for _, ev := range events {
		dst = s.appendEvent(dst, ev)
	}
	event.Sort(dst)
	return dst
}

func (s *Session) appendEvent(dst []event.Event, ev event.Event) []event.Event {
	ev.Type = s.types.Token(ev.Kind)
	switch ev.Kind {
	case event.KindParameter:
		p, err := s.params.Get(ev.Index)
		if err != nil || !p.Hints().Has(param.IsRTSafe) || p.Hints().Has(param.IsOutput) {
			s.filtered.Add(1)
			return dst
		}
		ev.Value = p.Constrain(ev.Value)
	case event.KindMidiProgram:
		if s.desc.HandlesPrograms() {
			return s.types.AppendProgramChange(dst, ev)
		}
	}
	return append(dst, ev)
}

// Output returns the events the plugin wrote during the last block. The
// slice is only valid until the next Process call.
func (s *Session) Output() []event.Event {
	return s.out.Events()
}

func silence(out [][]float32, frames uint32) {
	for _, buf := range out {
		if uint32(len(buf)) > frames {
			buf = buf[:frames]
		}
		clear(buf)
	}
}
