package param

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/nativeplug/pkg/tags"
)

func TestConstrain(t *testing.T) {
	tests := []struct {
		name  string
		param *Parameter
		in    float32
		want  float32
	}{
		{"clamp high", New("gain").Range(0, 2).Build(), 3, 2},
		{"clamp low", New("gain").Range(0, 2).Build(), -1, 0},
		{"inside", New("gain").Range(0, 2).Build(), 1.25, 1.25},
		{"boolean snaps up", New("mute").Boolean().Build(), 0.7, 1},
		{"boolean snaps down", New("mute").Boolean().Build(), 0.3, 0},
		{"boolean custom range", New("flag").Range(-1, 1).Boolean().Build(), 0.2, 1},
		{"integer rounds", New("steps").Range(0, 3).Integer().Build(), 2.6, 3},
		{"integer rounds down", New("steps").Range(0, 3).Integer().Build(), 1.4, 1},
		{"scale point nearest low", scaled(), 3.4, 2},
		{"scale point nearest high", scaled(), 4, 5},
		{"nan falls back to default", New("gain").Range(0, 2).Default(1).Build(), float32(math.NaN()), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.param.Constrain(tt.in))
		})
	}
}

func scaled() *Parameter {
	return New("mode").Range(0, 5).Integer().
		ScalePoint("off", 0).
		ScalePoint("soft", 2).
		ScalePoint("hard", 5).
		Build()
}

func TestNewParameterStartsAtDefault(t *testing.T) {
	p := New("gain").Range(0, 2).Default(1).Build()
	assert.Equal(t, float32(1), p.Value())

	b := New("mute").Boolean().Default(0.9).Build()
	assert.Equal(t, float32(1), b.Value())
}

func TestDefaultSteps(t *testing.T) {
	r := New("x").Build().Ranges()
	assert.Equal(t, DefaultStep, r.Step)
	assert.Equal(t, DefaultStepSmall, r.StepSmall)
	assert.Equal(t, DefaultStepLarge, r.StepLarge)
}

func TestSampleRateScaling(t *testing.T) {
	p := New("cutoff").Range(0, 0.5).Default(0.25).SampleRate().Build()
	assert.Equal(t, float32(0.25), p.Value())

	p.setScale(48000)
	assert.Equal(t, float32(12000), p.Value())
	assert.Equal(t, float32(0.25), p.Normalized())
	assert.Equal(t, float32(24000), p.Descriptor().Ranges.Max)

	p.setScale(44100)
	assert.Equal(t, float32(11025), p.Value())
	assert.Equal(t, float32(0.25), p.Normalized())
}

func TestSampleRateIgnoredWithoutHint(t *testing.T) {
	p := New("gain").Range(0, 2).Default(1).Build()
	p.setScale(48000)
	assert.Equal(t, float32(1), p.Value())
	assert.Equal(t, float32(2), p.Ranges().Max)
}

func TestText(t *testing.T) {
	p := New("gain").Range(0, 2).Default(1).Formatter(GainFormatter).Build()
	assert.Equal(t, "0.0 dB", p.Text(1))
	assert.Equal(t, "-inf dB", p.Text(0))

	assert.Equal(t, "soft", scaled().Text(2))
	assert.Equal(t, "1.50", New("x").Range(0, 2).Build().Text(1.5))
}

func TestHintsRoundTrip(t *testing.T) {
	set := tags.Parse("output:rtsafe:boolean:customtext:unknown")
	h := ParseHints(set)

	assert.True(t, h.Has(IsOutput|IsRTSafe|IsBoolean|UsesCustomText))
	assert.False(t, h.Has(IsInteger))
	assert.False(t, h.IsInput())
	assert.Equal(t, "boolean:customtext:output:rtsafe", h.String())
}

func TestBuilderHints(t *testing.T) {
	p := New("peak").Output().RTSafe().Hidden().Build()
	h := p.Hints()
	require.True(t, h.Has(IsOutput|IsRTSafe))
	assert.False(t, h.Has(IsEnabled))
}
