package host

import (
	"math"
	"sync/atomic"

	"github.com/justyntemme/nativeplug/pkg/dispatch"
	"github.com/justyntemme/nativeplug/pkg/framework/param"
	"github.com/justyntemme/nativeplug/pkg/plugin"
	"github.com/justyntemme/nativeplug/pkg/tags"
)

// MaxVolume is the loudest output volume a plugin can request.
const MaxVolume = 1.27

// MaxMidiCC is the highest controller a parameter can be mapped to. Higher
// numbers are channel mode messages.
const MaxMidiCC = 119

// registerHostOpcodes installs the handlers for every host-bound opcode.
// Handlers never take mu: plugins may dispatch from inside Process or from
// inside a control call that already holds it.
func (s *Session) registerHostOpcodes() {
	h := func(op dispatch.HostOpcode, fn dispatch.Handler) {
		s.table.Handle(s.catalog.Host(op), fn)
	}

	h(dispatch.HostNeedsIdle, func(int32, int64, any, float32) int64 {
		s.idle.Request()
		return 1
	})

	h(dispatch.HostSetVolume, s.mixSetter(&s.mix.volume, 0, MaxVolume, ""))
	h(dispatch.HostSetDryWet, s.mixSetter(&s.mix.dryWet, 0, 1, ""))
	h(dispatch.HostSetBalanceLeft, s.mixSetter(&s.mix.balanceLeft, -1, 1, tags.FeatureStereoBalance))
	h(dispatch.HostSetBalanceRight, s.mixSetter(&s.mix.balanceRight, -1, 1, tags.FeatureStereoBalance))
	h(dispatch.HostSetPanning, s.mixSetter(&s.mix.panning, -1, 1, tags.FeatureMonoPanning))

	h(dispatch.HostGetParameterMidiCC, func(index int32, _ int64, _ any, _ float32) int64 {
		s.cacheMu.Lock()
		defer s.cacheMu.Unlock()
		if index < 0 || int(index) >= len(s.midiCC) {
			return -1
		}
		return int64(s.midiCC[index].Load())
	})

	h(dispatch.HostSetParameterMidiCC, func(index int32, value int64, _ any, _ float32) int64 {
		s.cacheMu.Lock()
		defer s.cacheMu.Unlock()
		if index < 0 || int(index) >= len(s.midiCC) || value < -1 || value > MaxMidiCC {
			return 0
		}
		s.midiCC[index].Store(int32(value))
		return 1
	})

	h(dispatch.HostUpdateParameter, func(index int32, _ int64, _ any, _ float32) int64 {
		return s.updateParameter(index)
	})

	h(dispatch.HostUpdateMidiProgram, func(index int32, _ int64, _ any, _ float32) int64 {
		s.cacheMu.Lock()
		s.refreshProgramsLocked()
		n := len(s.programs)
		s.cacheMu.Unlock()
		if index >= int32(n) {
			return 0
		}
		if s.observer != nil {
			s.observer.Reloaded(ReloadMidiPrograms)
		}
		return 1
	})

	h(dispatch.HostReloadParameters, func(int32, int64, any, float32) int64 {
		s.reload(ReloadParameters)
		return 1
	})
	h(dispatch.HostReloadMidiPrograms, func(int32, int64, any, float32) int64 {
		s.reload(ReloadMidiPrograms)
		return 1
	})
	h(dispatch.HostReloadAll, func(int32, int64, any, float32) int64 {
		s.reload(ReloadAll)
		return 1
	})

	h(dispatch.HostUIUnavailable, func(int32, int64, any, float32) int64 {
		s.uiAvailable.Store(false)
		s.uiVisible.Store(false)
		return 1
	})
}

// mixSetter accepts a value only inside a program change, and only when the
// plugin declared feature (if any). Values are clamped to [lo, hi].
func (s *Session) mixSetter(dst *atomic.Uint32, lo, hi float32, feature string) dispatch.Handler {
	return func(_ int32, _ int64, _ any, opt float32) int64 {
		if !s.inProgramChange.Load() {
			return 0
		}
		if feature != "" && !s.hasFeature(feature) {
			return 0
		}
		if math.IsNaN(float64(opt)) {
			return 0
		}
		dst.Store(math.Float32bits(clamp(opt, lo, hi)))
		return 1
	}
}

// updateParameter pushes the current value of index, or of every parameter
// for -1, to the observer.
func (s *Session) updateParameter(index int32) int64 {
	params := s.params
	if params == nil {
		return 0
	}
	if index < -1 || index >= int32(params.Count()) {
		return 0
	}
	if s.observer == nil {
		return 1
	}
	if index >= 0 {
		s.observer.ParameterChanged(uint32(index), params.Value(uint32(index)))
		return 1
	}
	for i := uint32(0); i < params.Count(); i++ {
		s.observer.ParameterChanged(i, params.Value(i))
	}
	return 1
}

// reload refreshes the cached descriptors and programs.
func (s *Session) reload(what Reload) {
	s.cacheMu.Lock()
	switch what {
	case ReloadParameters:
		s.refreshParametersLocked()
	case ReloadMidiPrograms:
		s.refreshProgramsLocked()
	default:
		s.refreshParametersLocked()
		s.refreshProgramsLocked()
	}
	s.cacheMu.Unlock()

	s.reloads[what].Add(1)
	s.log.Debug("plugin requested %s reload", what)
	if s.observer != nil {
		s.observer.Reloaded(what)
	}
}

// refreshParametersLocked requires cacheMu.
func (s *Session) refreshParametersLocked() {
	n := s.params.Count()
	if cap(s.descs) >= int(n) {
		s.descs = s.descs[:n]
	} else {
		s.descs = make([]param.Descriptor, n)
	}
	for i := uint32(0); i < n; i++ {
		d, _ := s.params.Describe(i)
		s.descs[i] = d
	}
}

// refreshProgramsLocked requires cacheMu.
func (s *Session) refreshProgramsLocked() {
	s.programs = s.programs[:0]
	if ph, ok := s.inst.(plugin.ProgramHandler); ok {
		s.programs = append(s.programs, ph.Programs()...)
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
