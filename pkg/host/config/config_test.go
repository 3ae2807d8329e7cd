package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/nativeplug/pkg/event"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.normalize())
	require.NoError(t, cfg.Validate())
	assert.Equal(t, uint32(512), cfg.Audio.BufferSize)
	assert.Equal(t, event.OrderSort, cfg.Ordering())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := Load(path)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, path, resolved)
	assert.Equal(t, 48000.0, cfg.Audio.SampleRate)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := []byte(`
[audio]
buffer_size = 256
sample_rate = 44100

[session]
event_ordering = " Strict "
preserve_state = false

[logging]
level = "DEBUG"
format = "json"
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, _, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, uint32(256), cfg.Audio.BufferSize)
	assert.Equal(t, 44100.0, cfg.Audio.SampleRate)
	assert.Equal(t, event.OrderStrict, cfg.Ordering())
	assert.False(t, cfg.Session.PreserveState)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Session.IdleIntervalMS)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[audio]\nbuffersize = 12\n"), 0o644))

	_, _, _, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"zero buffer", "[audio]\nbuffer_size = 0\n"},
		{"huge buffer", "[audio]\nbuffer_size = 1000000\n"},
		{"low rate", "[audio]\nsample_rate = 100.0\n"},
		{"bad ordering", "[session]\nevent_ordering = \"random\"\n"},
		{"bad format", "[logging]\nformat = \"xml\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			assert.Error(t, err)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Audio.BufferSize = 1024
	data, err := cfg.Encode()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(1024), parsed.Audio.BufferSize)
}
