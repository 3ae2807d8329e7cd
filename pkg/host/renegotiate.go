package host

import (
	"fmt"

	"github.com/justyntemme/nativeplug/pkg/dispatch"
	"github.com/justyntemme/nativeplug/pkg/host/config"
	"github.com/justyntemme/nativeplug/pkg/tags"
)

// SetBufferSize changes the maximum block size. A plugin declaring
// buffersizechanges is asked first; if it does not accept the size in place
// the instance is recreated with the new size. It returns whether the
// instance was recreated.
func (s *Session) SetBufferSize(size uint32) (bool, error) {
	if size == 0 || size > config.MaxBufferSize {
		return false, fmt.Errorf("%w: %d", ErrBufferSize, size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return false, err
	}
	if size == s.bufferSize {
		return false, nil
	}

	if s.hasFeature(tags.FeatureBufferSizeChanges) {
		op := s.catalog.Plugin(dispatch.PluginBufferSizeChanged)
		if s.inst.Dispatch(op, 0, int64(size), nil, 0) == 1 {
			s.bufferSize = size
			s.ctx.Resize(int(size))
			s.log.Debug("buffer size %d accepted in place", size)
			return false, nil
		}
	}

	return true, s.reinstantiate(func() { s.bufferSize = size })
}

// SetSampleRate changes the sample rate the same way SetBufferSize changes
// the block size, through sampleRateChanged or a new instance.
func (s *Session) SetSampleRate(rate float64) (bool, error) {
	if rate < config.MinSampleRate || rate > config.MaxSampleRate {
		return false, fmt.Errorf("%w: %v", ErrSampleRate, rate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return false, err
	}
	if rate == s.sampleRate {
		return false, nil
	}

	if s.hasFeature(tags.FeatureSampleRateChanges) {
		op := s.catalog.Plugin(dispatch.PluginSampleRateChanged)
		if s.inst.Dispatch(op, 0, int64(rate), nil, float32(rate)) == 1 {
			s.setRate(rate)
			// sample-rate parameters were rescaled by the plugin
			s.cacheMu.Lock()
			s.refreshParametersLocked()
			s.cacheMu.Unlock()
			s.log.Debug("sample rate %.0f accepted in place", rate)
			return false, nil
		}
	}

	return true, s.reinstantiate(func() { s.setRate(rate) })
}

// setRate requires mu.
func (s *Session) setRate(rate float64) {
	s.sampleRate = rate
	s.clock.SetSampleRate(rate)
	s.ctx.SampleRate = rate
	s.load.Reset()
}

// reinstantiate replaces the instance: deactivate, clean up, apply the new
// host values, instantiate and reactivate. State is carried across when the
// plugin has the state feature and the session preserves state. The handle
// stays the same. Requires mu.
func (s *Session) reinstantiate(apply func()) error {
	var blob []byte
	if s.cfg.Session.PreserveState {
		if st, ok := s.stateful(); ok {
			data, err := st.SaveState()
			if err != nil {
				s.log.Warn("state not carried across reinstantiation: %v", err)
			} else {
				blob = data
			}
		}
	}

	wasActive := s.active
	if wasActive {
		s.inst.Deactivate()
		s.active = false
	}
	s.inst.Cleanup()
	s.inst = nil

	apply()

	inst, err := s.instantiate()
	if err != nil {
		s.handles.Replace(s.handle, nil)
		s.log.Error("reinstantiation failed: %v", err)
		return err
	}
	s.handles.Replace(s.handle, inst)
	s.reinstantiations.Add(1)

	if blob != nil {
		if st, ok := s.stateful(); ok {
			if err := st.RestoreState(blob); err != nil {
				s.log.Warn("carried state rejected by new instance: %v", err)
			}
		}
	}

	if wasActive {
		inst.Activate()
		s.active = true
	}
	s.log.Debug("reinstantiated at %d frames, %.0f Hz", s.bufferSize, s.sampleRate)
	return nil
}
