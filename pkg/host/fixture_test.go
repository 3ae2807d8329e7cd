package host

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/justyntemme/nativeplug/pkg/dispatch"
	"github.com/justyntemme/nativeplug/pkg/event"
	"github.com/justyntemme/nativeplug/pkg/framework/debug"
	"github.com/justyntemme/nativeplug/pkg/framework/param"
	"github.com/justyntemme/nativeplug/pkg/framework/process"
	"github.com/justyntemme/nativeplug/pkg/host/config"
	"github.com/justyntemme/nativeplug/pkg/plugin"
	"github.com/justyntemme/nativeplug/pkg/tags"
	"github.com/justyntemme/nativeplug/pkg/transport"
)

const (
	pGain uint32 = iota
	pMix
	pMute
	pMode
	pPeak
	pClips
	pCutoff
)

// fixture builds test plugins and remembers every instance it created.
type fixture struct {
	acceptBuffer bool
	acceptRate   bool
	// cutoff adds a sample-rate parameter after clips
	cutoff bool

	instances []*testPlugin
	cleanups  int
}

func newFixture(features ...string) (*plugin.Descriptor, *fixture) {
	f := &fixture{}
	desc := &plugin.Descriptor{
		Categories: tags.Of(tags.CategoryUtility),
		Features:   tags.Of(features...),
		Supports:   tags.Parse(tags.SupportsEverything),
		Counts: plugin.Counts{
			AudioIns:  1,
			AudioOuts: 1,
			MidiIns:   1,
			MidiOuts:  1,
			ParamIns:  4,
			ParamOuts: 2,
		},
		Name:        "Test",
		Label:       "test",
		Maker:       "nativeplug",
		Instantiate: f.instantiate,
	}
	return desc, f
}

func (f *fixture) last() *testPlugin {
	return f.instances[len(f.instances)-1]
}

type testPlugin struct {
	*plugin.Base
	f *fixture

	bufferSize uint32
	sampleRate float64
	offline    bool
	title      string
	active     bool

	calls    int
	frames   uint32
	seen     []event.Event
	timeSeen *transport.Info

	volumeResult int64
	idles        atomic.Int32

	uiShown  bool
	uiParams map[uint32]float32

	process func(p *testPlugin, ctx *process.Context)
}

func (f *fixture) instantiate(h plugin.Host) (plugin.Instance, error) {
	p := &testPlugin{
		Base:       plugin.NewBase(h, "test"),
		f:          f,
		bufferSize: h.BufferSize(),
		sampleRate: h.SampleRate(),
		uiParams:   map[uint32]float32{},
	}
	err := p.AddParameters(
		param.New("gain").RTSafe().Default(0.5).Build(),
		param.New("mix").Default(0.5).Build(),
		param.New("mute").Boolean().RTSafe().Build(),
		param.New("mode").Integer().Range(0, 3).Build(),
		param.New("peak").Output().RTSafe().Build(),
		param.New("clips").Output().Integer().Range(0, 1000).Build(),
	)
	if err != nil {
		return nil, err
	}
	if f.cutoff {
		if err := p.AddParameters(param.New("cutoff").Range(0, 0.25).Default(0.125).SampleRate().Build()); err != nil {
			return nil, err
		}
	}
	p.SetPrograms(param.ProgramList{
		{Bank: 0, Program: 0, Name: "Init"},
		{Bank: 0, Program: 1, Name: "Loud"},
	}, p.selectProgram)

	if f.acceptBuffer {
		p.AcceptBufferSize(func(size uint32) { p.bufferSize = size })
	}
	if f.acceptRate {
		p.AcceptSampleRate(func(rate float64) { p.sampleRate = rate })
	}
	p.Handle(dispatch.PluginMsgReceived, func(_ int32, _ int64, ptr any, _ float32) int64 {
		if ptr == "ping" {
			return 1
		}
		return 0
	})
	p.Handle(dispatch.PluginOfflineChanged, func(_ int32, value int64, _ any, _ float32) int64 {
		p.offline = value == 1
		return 1
	})
	p.Handle(dispatch.PluginUITitleChanged, func(_ int32, _ int64, ptr any, _ float32) int64 {
		p.title, _ = ptr.(string)
		return 1
	})

	p.Freeze()
	f.instances = append(f.instances, p)
	return p, nil
}

func (p *testPlugin) selectProgram(i int) {
	p.Parameters().Set(pMode, float32(i))
	ops := p.Host().Opcodes()
	p.volumeResult = p.Host().Dispatch(ops.Host(dispatch.HostSetVolume), 0, 0, nil, 0.5)
}

func (p *testPlugin) Activate()   { p.active = true }
func (p *testPlugin) Deactivate() { p.active = false }
func (p *testPlugin) Cleanup()    { p.f.cleanups++ }
func (p *testPlugin) Idle()       { p.idles.Add(1) }

func (p *testPlugin) UIShow(show bool)                           { p.uiShown = show }
func (p *testPlugin) UIIdle()                                    {}
func (p *testPlugin) UISetParameter(index uint32, value float32) { p.uiParams[index] = value }
func (p *testPlugin) UISetMidiProgram(uint8, uint32, uint32)     {}

// Process applies parameter events up front and writes input times gain.
func (p *testPlugin) Process(ctx *process.Context) {
	p.calls++
	p.frames = ctx.Frames
	p.seen = append(p.seen[:0], ctx.Events...)
	p.timeSeen = nil
	if ctx.Time != nil {
		info := *ctx.Time
		p.timeSeen = &info
	}
	for i := range ctx.Events {
		ctx.ApplyParameter(&ctx.Events[i])
	}

	gain := ctx.Param(pGain)
	if ctx.Param(pMute) > 0.5 {
		gain = 0
	}
	for ch := range ctx.Output {
		in := ctx.Input[ch][:ctx.Frames]
		out := ctx.Output[ch][:ctx.Frames]
		for i := range out {
			out[i] = in[i] * gain
		}
	}

	if p.process != nil {
		p.process(p, ctx)
	}
}

// recorder is an Observer.
type recorder struct {
	params   map[uint32]float32
	reloads  []Reload
	programs int
	closed   int
}

func newRecorder() *recorder {
	return &recorder{params: map[uint32]float32{}}
}

func (r *recorder) ParameterChanged(index uint32, value float32) { r.params[index] = value }
func (r *recorder) MidiProgramChanged(uint8, uint32, uint32)     { r.programs++ }
func (r *recorder) Reloaded(what Reload)                         { r.reloads = append(r.reloads, what) }
func (r *recorder) UIClosed()                                    { r.closed++ }

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Audio.BufferSize = 64
	cfg.Audio.SampleRate = 48000
	return cfg
}

func newSession(t *testing.T, desc *plugin.Descriptor, opts ...Option) *Session {
	t.Helper()
	return newSessionWith(t, desc, testConfig(), opts...)
}

func newSessionWith(t *testing.T, desc *plugin.Descriptor, cfg config.Config, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithLogger(debug.Discard())}, opts...)
	s, err := New(desc, cfg, opts...)
	require.NoError(t, err)
	require.NoError(t, s.Activate())
	t.Cleanup(func() { s.Close() })
	return s
}

// block returns one input channel of ones and one output channel of nines.
func block(frames int) (in, out [][]float32) {
	in = [][]float32{make([]float32, frames)}
	out = [][]float32{make([]float32, frames)}
	for i := range in[0] {
		in[0][i] = 1
		out[0][i] = 9
	}
	return in, out
}
