package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/nativeplug/pkg/event"
	"github.com/justyntemme/nativeplug/pkg/framework/param"
	"github.com/justyntemme/nativeplug/pkg/intern"
)

type recorder struct {
	events []event.Event
}

func (r *recorder) WriteEvent(ev event.Event) bool {
	r.events = append(r.events, ev)
	return true
}

func TestBeginEnd(t *testing.T) {
	reg := param.NewRegistry()
	require.NoError(t, reg.Add(param.New("gain").Default(0.5).Build()))
	ctx := NewContext(64, reg)

	in := [][]float32{make([]float32, 64)}
	out := [][]float32{make([]float32, 64)}
	rec := &recorder{}
	types := event.NewTypes(intern.New())

	ctx.Begin(in, out, 32, nil, nil, rec)
	assert.Equal(t, 32, ctx.NumSamples())
	assert.Len(t, ctx.WorkBuffer(), 32)
	assert.Equal(t, float32(0.5), ctx.Param(0))
	assert.True(t, ctx.WriteEvent(types.Parameter(0, 0, 1)))
	assert.Len(t, rec.events, 1)

	ctx.End()
	assert.Nil(t, ctx.Input)
	assert.Nil(t, ctx.Time)
	assert.False(t, ctx.WriteEvent(types.Parameter(0, 0, 1)))
}

func TestProcessRangeFollowsSegments(t *testing.T) {
	ctx := NewContext(8, nil)
	in := [][]float32{{1, 1, 1, 1, 1, 1, 1, 1}}
	out := [][]float32{make([]float32, 8)}
	types := event.NewTypes(intern.New())
	events := []event.Event{types.Parameter(3, 0, 2), types.Parameter(6, 0, 4)}

	ctx.Begin(in, out, 8, events, nil, nil)
	gain := float32(1)
	ctx.Segments(func(start, end uint32, at []event.Event) {
		for _, ev := range at {
			gain = ev.Value
		}
		ctx.ProcessRange(start, end, func(_ int, input, output []float32) {
			for i := range input {
				output[i] = input[i] * gain
			}
		})
	})

	assert.Equal(t, []float32{1, 1, 1, 2, 2, 2, 4, 4}, out[0])
}

func TestProcessOutputsWithWorkBuffer(t *testing.T) {
	ctx := NewContext(4, nil)
	out := [][]float32{{9, 9, 9, 9}, {9, 9, 9, 9}}

	ctx.Begin(nil, out, 4, nil, nil, nil)
	mono := ctx.WorkBuffer()[1:3]
	mono[0], mono[1] = 0.25, 0.5
	ctx.ProcessOutputs(1, 3, func(_ int, output []float32) {
		copy(output, mono)
	})
	assert.Equal(t, []float32{9, 0.25, 0.5, 9}, out[0])
	assert.Equal(t, out[0], out[1])

	// ranges past the block are cut to Frames
	ctx.ProcessOutputs(3, 8, func(_ int, output []float32) {
		assert.Len(t, output, 1)
	})
}

func TestResizeOnlyGrows(t *testing.T) {
	ctx := NewContext(16, nil)
	ctx.Resize(8)
	assert.Len(t, ctx.workBuffer, 16)
	ctx.Resize(64)
	assert.Len(t, ctx.workBuffer, 64)
}

func TestApplyParameterUsesRealtimePath(t *testing.T) {
	reg := param.NewRegistry()
	require.NoError(t, reg.Add(
		param.New("mute").Boolean().RTSafe().Build(),
		param.New("mode").Integer().Range(0, 3).Build(),
	))
	reg.Freeze()
	ctx := NewContext(16, reg)
	types := event.NewTypes(intern.New())

	mute := types.Parameter(0, 0, 0.7)
	assert.True(t, ctx.ApplyParameter(&mute))
	assert.Equal(t, float32(1), ctx.Param(0))

	mode := types.Parameter(0, 1, 2)
	assert.False(t, ctx.ApplyParameter(&mode))
	assert.Equal(t, float32(0), ctx.Param(1))

	note, err := types.Midi(0, 0, 0x90, 60, 100)
	require.NoError(t, err)
	assert.False(t, ctx.ApplyParameter(&note))
}
