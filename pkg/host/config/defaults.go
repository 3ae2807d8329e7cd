package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultBufferSize     = 512
	defaultSampleRate     = 48000
	defaultEventOrdering  = "sort"
	defaultIdleIntervalMS = 30
	defaultMaxEvents      = 512
	defaultLogFormat      = "text"
	defaultLogLevel       = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Audio: Audio{
			BufferSize: defaultBufferSize,
			SampleRate: defaultSampleRate,
		},
		Session: Session{
			UITitle:        "nativeplug",
			EventOrdering:  defaultEventOrdering,
			PreserveState:  true,
			IdleIntervalMS: defaultIdleIntervalMS,
			MaxEvents:      defaultMaxEvents,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Presets: Presets{
			Path: defaultPresetPath(),
		},
	}
}

func defaultPresetPath() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "nativeplug", "presets.db")
	}
	return "~/.local/share/nativeplug/presets.db"
}
