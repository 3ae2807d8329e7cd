package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/nativeplug/pkg/host/presets"
	"github.com/justyntemme/nativeplug/pkg/tags"
)

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"Name", "Value"},
		[][]string{{"gain", "1"}, {"cutoff"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, strings.ToLower(lines[1]), "name")
	assert.Contains(t, lines[3], "gain")
	assert.Contains(t, lines[4], "cutoff")
	assert.Empty(t, renderTable(nil, nil, nil))
}

func TestTitleTags(t *testing.T) {
	assert.Equal(t, "Buffersizechanges, Rtsafe", titleTags(tags.Parse("rtsafe:buffersizechanges")))
	assert.Equal(t, "-", titleTags(tags.Parse("")))
}

func TestFormatDB(t *testing.T) {
	assert.Equal(t, "-inf dB", formatDB(0))
	assert.Equal(t, "0.0 dB", formatDB(1))
	assert.Equal(t, "-6.0 dB", formatDB(0.5))
}

func TestShouldColorizeNonTerminal(t *testing.T) {
	assert.False(t, shouldColorize(&bytes.Buffer{}))
}

func TestListCommand(t *testing.T) {
	out, err := runCLI(t, writeTestConfig(t), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "gain")
	assert.Contains(t, out, "tonegen")
	assert.Contains(t, out, "Tone Generator")
	assert.Contains(t, out, "Synth")
}

func TestInfoCommand(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := runCLI(t, cfg, "info", "tonegen")
	require.NoError(t, err)
	assert.Contains(t, out, "Tone Generator (tonegen)")
	assert.Contains(t, out, "Cutoff")
	assert.Contains(t, out, "MIDI programs")
	assert.Contains(t, out, "Square Bass")

	out, err = runCLI(t, cfg, "info", "gain")
	require.NoError(t, err)
	assert.Contains(t, out, "(events)")
	assert.Contains(t, out, "0.0 dB")
	assert.NotContains(t, out, "MIDI programs")

	_, err = runCLI(t, cfg, "info")
	assert.Error(t, err)
}

func TestPresetRoundTrip(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := runCLI(t, cfg, "preset", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No presets")

	out, err = runCLI(t, cfg, "preset", "save", "gain", "warm", "--set", "Gain=1.5", "--set", "Mode=1")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved gain/warm")

	out, err = runCLI(t, cfg, "preset", "list", "gain")
	require.NoError(t, err)
	assert.Contains(t, out, "warm")

	out, err = runCLI(t, cfg, "preset", "load", "gain", "warm")
	require.NoError(t, err)
	assert.Contains(t, out, "gain/warm")
	assert.Contains(t, out, "3.5 dB")

	_, err = runCLI(t, cfg, "preset", "delete", "gain", "warm")
	require.NoError(t, err)
	_, err = runCLI(t, cfg, "preset", "load", "gain", "warm")
	assert.ErrorIs(t, err, presets.ErrNotFound)
}

func TestConfigShowUsesFile(t *testing.T) {
	cfg := writeTestConfig(t)
	out, err := runCLI(t, cfg, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, cfg)
	assert.Contains(t, out, "presets.db")
}
