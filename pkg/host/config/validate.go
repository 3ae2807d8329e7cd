package config

import (
	"errors"
	"fmt"

	"github.com/justyntemme/nativeplug/pkg/event"
	"github.com/justyntemme/nativeplug/pkg/framework/debug"
)

// Limits for engine settings.
const (
	MaxBufferSize = 1 << 16
	MinSampleRate = 8000
	MaxSampleRate = 768000
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAudio() error {
	if c.Audio.BufferSize == 0 || c.Audio.BufferSize > MaxBufferSize {
		return fmt.Errorf("audio.buffer_size must be between 1 and %d", MaxBufferSize)
	}
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate must be between %d and %d", MinSampleRate, MaxSampleRate)
	}
	return nil
}

func (c *Config) validateSession() error {
	if _, err := event.ParseOrdering(c.Session.EventOrdering); err != nil {
		return fmt.Errorf("session.event_ordering: %w", err)
	}
	if c.Session.IdleIntervalMS < 0 {
		return errors.New("session.idle_interval_ms must be positive")
	}
	if c.Session.MaxEvents < 0 {
		return errors.New("session.max_events must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := debug.ParseFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("logging.format: %w", err)
	}
	return nil
}

// Ordering returns the parsed event ordering policy.
func (c *Config) Ordering() event.Ordering {
	o, _ := event.ParseOrdering(c.Session.EventOrdering)
	return o
}
