package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"

	"github.com/justyntemme/nativeplug/pkg/dsp/gain"
	"github.com/justyntemme/nativeplug/pkg/dsp/noise"
	"github.com/justyntemme/nativeplug/pkg/dsp/oscillator"
	"github.com/justyntemme/nativeplug/pkg/framework/debug"
	"github.com/justyntemme/nativeplug/pkg/host"
	"github.com/justyntemme/nativeplug/pkg/host/config"
)

const (
	testSignalLevel = 0.5
	noteVelocity    = 100
)

type renderOptions struct {
	blocks     int
	bufferSize uint32
	sampleRate float64

	// renegotiation at block changeAt; zero values leave the setting alone
	resize   uint32
	resample float64
	changeAt int

	signal    string // sine, white or pink
	frequency float64
	seed      int64
	note      uint8
	sets      []string
}

type renderReport struct {
	Blocks       int
	Frames       uint64
	Peak         float32
	RMS          float32
	BufferSize   uint32
	SampleRate   float64
	OutputEvents int
	Recreated    int
	Stats        host.Stats
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	opts := renderOptions{}
	var note uint

	cmd := &cobra.Command{
		Use:   "render <label>",
		Short: "Run a plugin offline over a test signal",
		Long: `Render feeds a test signal to plugins with audio inputs and a
held note to plugins with MIDI inputs, then reports the output level and
the measured DSP load.

Parameter assignments are routed the way a host must route them: rtsafe
inputs are sent as events in the first block, everything else is set from
the control thread before processing starts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.blocks <= 0 {
				return errors.New("--blocks must be positive")
			}
			if note > 127 {
				return fmt.Errorf("--note %d is not a MIDI note", note)
			}
			opts.note = uint8(note)
			if !cmd.Flags().Changed("change-at") {
				opts.changeAt = opts.blocks / 2
			}

			s, err := ctx.openSession(args[0], func(cfg *config.Config) {
				cfg.Audio.Offline = true
				if opts.bufferSize > 0 {
					cfg.Audio.BufferSize = opts.bufferSize
				}
				if opts.sampleRate > 0 {
					cfg.Audio.SampleRate = opts.sampleRate
				}
			})
			if err != nil {
				return err
			}
			defer s.Close()

			report, err := runRender(s, opts, ctx.logger)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), args[0], report)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.blocks, "blocks", "n", 100, "Number of blocks to process")
	flags.Uint32Var(&opts.bufferSize, "buffer-size", 0, "Block size (default from config)")
	flags.Float64Var(&opts.sampleRate, "sample-rate", 0, "Sample rate (default from config)")
	flags.Uint32Var(&opts.resize, "resize", 0, "Change the block size to this value mid-run")
	flags.Float64Var(&opts.resample, "resample", 0, "Change the sample rate to this value mid-run")
	flags.IntVar(&opts.changeAt, "change-at", 0, "Block at which --resize and --resample apply (default half way)")
	flags.StringVar(&opts.signal, "signal", "sine", "Test signal: sine, white or pink")
	flags.Float64Var(&opts.frequency, "frequency", 440, "Sine frequency in Hz")
	flags.Int64Var(&opts.seed, "seed", 1, "Noise seed")
	flags.UintVar(&note, "note", 69, "MIDI note held for instruments")
	flags.StringArrayVar(&opts.sets, "set", nil, "Parameter assignment index=value or name=value (repeatable)")
	return cmd
}

func runRender(s *host.Session, opts renderOptions, log *debug.Logger) (renderReport, error) {
	var report renderReport

	list, err := parseAssignments(opts.sets)
	if err != nil {
		return report, err
	}
	pending, err := applyAssignments(s, list)
	if err != nil {
		return report, err
	}

	src, err := newSignal(opts, s.SampleRate())
	if err != nil {
		return report, err
	}

	d := s.Descriptor()
	types := s.EventTypes()
	in := allocateChannels(d.Counts.AudioIns, s.BufferSize())
	out := allocateChannels(d.Counts.AudioOuts, s.BufferSize())
	noteOff := opts.blocks * 3 / 4

	var sumSquares float64
	for b := 0; b < opts.blocks; b++ {
		if b > 0 && b == opts.changeAt {
			recreated, err := renegotiate(s, opts, log)
			if err != nil {
				return report, err
			}
			report.Recreated += recreated
			in = allocateChannels(d.Counts.AudioIns, s.BufferSize())
			out = allocateChannels(d.Counts.AudioOuts, s.BufferSize())
			src.setSampleRate(s.SampleRate())
		}

		frames := s.BufferSize()
		events := pending
		pending = nil
		if d.Counts.MidiIns > 0 {
			var msg midi.Message
			switch b {
			case 0:
				msg = midi.NoteOn(0, opts.note, noteVelocity)
			case noteOff:
				msg = midi.NoteOff(0, opts.note)
			}
			if msg != nil {
				ev, err := types.FromMessage(0, 0, msg)
				if err != nil {
					return report, err
				}
				events = append(events, ev)
			}
		}

		for i := uint32(0); i < frames; i++ {
			v := src.next() * testSignalLevel
			for ch := range in {
				in[ch][i] = v
			}
		}

		if err := s.Process(in, out, frames, events); err != nil {
			return report, fmt.Errorf("block %d: %w", b, err)
		}
		report.OutputEvents += len(s.Output())

		for ch := range out {
			buf := out[ch][:frames]
			report.Peak = max(report.Peak, gain.Peak(buf))
			for _, x := range buf {
				sumSquares += float64(x) * float64(x)
			}
		}
		report.Frames += uint64(frames)
	}

	report.Blocks = opts.blocks
	if samples := report.Frames * uint64(len(out)); samples > 0 {
		report.RMS = float32(math.Sqrt(sumSquares / float64(samples)))
	}
	report.BufferSize = s.BufferSize()
	report.SampleRate = s.SampleRate()
	report.Stats = s.Stats()
	return report, nil
}

// renegotiate applies the mid-run changes and returns how many of them
// needed a new instance.
func renegotiate(s *host.Session, opts renderOptions, log *debug.Logger) (int, error) {
	var recreated int
	if opts.resize > 0 {
		again, err := s.SetBufferSize(opts.resize)
		if err != nil {
			return recreated, fmt.Errorf("resize: %w", err)
		}
		log.Info("buffer size now %d (new instance: %s)", s.BufferSize(), yesNo(again))
		if again {
			recreated++
		}
	}
	if opts.resample > 0 {
		again, err := s.SetSampleRate(opts.resample)
		if err != nil {
			return recreated, fmt.Errorf("resample: %w", err)
		}
		log.Info("sample rate now %.0f (new instance: %s)", s.SampleRate(), yesNo(again))
		if again {
			recreated++
		}
	}
	return recreated, nil
}

// signal is the mono test source copied to every input.
type signal struct {
	osc   *oscillator.Oscillator
	noise *noise.Generator
}

func newSignal(opts renderOptions, sampleRate float64) (*signal, error) {
	if opts.signal == "" || opts.signal == "sine" {
		osc := oscillator.New(sampleRate)
		osc.SetFrequency(opts.frequency)
		return &signal{osc: osc}, nil
	}
	color, err := noise.ParseColor(opts.signal)
	if err != nil {
		return nil, fmt.Errorf("--signal: %w", err)
	}
	return &signal{noise: noise.New(color, opts.seed)}, nil
}

func (g *signal) next() float32 {
	if g.noise != nil {
		return g.noise.Next()
	}
	return g.osc.Next(oscillator.Sine)
}

func (g *signal) setSampleRate(rate float64) {
	if g.osc != nil {
		g.osc.SetSampleRate(rate)
	}
}

func allocateChannels(channels, frames uint32) [][]float32 {
	bufs := make([][]float32, channels)
	for ch := range bufs {
		bufs[ch] = make([]float32, frames)
	}
	return bufs
}

func printReport(out io.Writer, label string, r renderReport) {
	printSection(out, "Render "+label)
	rows := [][]string{
		{"Blocks", strconv.Itoa(r.Blocks)},
		{"Frames", strconv.FormatUint(r.Frames, 10)},
		{"Buffer size", strconv.FormatUint(uint64(r.BufferSize), 10)},
		{"Sample rate", strconv.FormatFloat(r.SampleRate, 'f', 0, 64)},
		{"Peak", formatDB(r.Peak)},
		{"RMS", formatDB(r.RMS)},
		{"Output events", strconv.Itoa(r.OutputEvents)},
		{"Reinstantiations", strconv.FormatUint(r.Stats.Reinstantiations, 10)},
		{"Filtered events", strconv.FormatUint(r.Stats.FilteredEvents, 10)},
		{"Average block", r.Stats.Load.Average.String()},
		{"Peak load", fmt.Sprintf("%.2f%%", r.Stats.Load.PeakLoad*100)},
		{"Overruns", strconv.FormatUint(r.Stats.Load.Overruns, 10)},
	}
	fmt.Fprintln(out, renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
}
