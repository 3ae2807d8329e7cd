package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/nativeplug/examples/gain"
	"github.com/justyntemme/nativeplug/pkg/event"
)

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		raw     string
		want    assignment
		wantErr bool
	}{
		{raw: "0=0.5", want: assignment{key: "0", value: 0.5}},
		{raw: " Cutoff = 2400 ", want: assignment{key: "Cutoff", value: 2400}},
		{raw: "mode=-1", want: assignment{key: "mode", value: -1}},
		{raw: "gain", wantErr: true},
		{raw: "=1", wantErr: true},
		{raw: "gain=loud", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseAssignment(tt.raw)
		if tt.wantErr {
			assert.ErrorIs(t, err, errBadAssignment, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestApplyAssignmentsRoutesByHint(t *testing.T) {
	ctx := testContext(t)
	s, err := ctx.openSession(gain.Label, nil)
	require.NoError(t, err)
	defer s.Close()

	list, err := parseAssignments([]string{"gain=1.5", "Mode=2"})
	require.NoError(t, err)
	events, err := applyAssignments(s, list)
	require.NoError(t, err)

	// gain is rtsafe: only an event can change it
	require.Len(t, events, 1)
	assert.Equal(t, event.KindParameter, events[0].Kind)
	assert.Equal(t, gain.ParamGain, events[0].Index)
	v, err := s.ParameterValue(gain.ParamGain)
	require.NoError(t, err)
	assert.Equal(t, float32(1), v)

	v, err = s.ParameterValue(gain.ParamMode)
	require.NoError(t, err)
	assert.Equal(t, float32(gain.ModeInvert), v)

	_, err = applyAssignments(s, []assignment{{key: "Peak", value: 1}})
	assert.ErrorContains(t, err, "output")
	_, err = applyAssignments(s, []assignment{{key: "nope", value: 1}})
	assert.Error(t, err)
	_, err = applyAssignments(s, []assignment{{key: "99", value: 1}})
	assert.Error(t, err)
}
