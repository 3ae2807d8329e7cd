package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "synth", []string{"synth"}},
		{"multiple", "delay:eq:synth", []string{"delay", "eq", "synth"}},
		{"duplicates", "eq:eq", []string{"eq"}},
		{"unknown kept", "rtsafe:hyperspace", []string{"hyperspace", "rtsafe"}},
		{"invalid dropped", "State:ok::", []string{"ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in).Sorted())
		})
	}
}

func TestSetStringIsStable(t *testing.T) {
	a := Parse("writeevent:state:rtsafe")
	b := Parse("rtsafe:writeevent:state")
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, "rtsafe:state:writeevent", a.String())
}

func TestWithWithout(t *testing.T) {
	base := Of(FeatureRTSafe)
	more := base.With(FeatureState)

	assert.False(t, base.Has(FeatureState), "With must not mutate the receiver")
	assert.True(t, more.Has(FeatureState))
	assert.False(t, more.Without(FeatureRTSafe).Has(FeatureRTSafe))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(SupportsEverything))
	require.NoError(t, Validate(""))
	assert.Error(t, Validate("synth:Delay"))
	assert.Error(t, Validate("synth::eq"))
}

func TestSupportsEverythingExcludesPrograms(t *testing.T) {
	set := Parse(SupportsEverything)
	assert.False(t, set.Has(SupportsProgramChanges))
	assert.True(t, set.Has(SupportsPitchbend))
	assert.Equal(t, 5, set.Len())
}
