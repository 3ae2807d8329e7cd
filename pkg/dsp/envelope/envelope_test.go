package envelope

import (
	"testing"
)

func run(e *ADSR, n int) float32 {
	var v float32
	for i := 0; i < n; i++ {
		v = e.Next()
	}
	return v
}

func TestADSRStages(t *testing.T) {
	e := New(48000)
	e.SetADSR(0.001, 0.01, 0.5, 0.01)

	if e.IsActive() || e.Next() != 0 {
		t.Fatal("new envelope should be idle and silent")
	}

	e.Trigger()
	run(e, 480)
	if e.Stage() != StageDecay && e.Stage() != StageSustain {
		t.Fatalf("stage after attack = %d", e.Stage())
	}

	v := run(e, 48000)
	if e.Stage() != StageSustain || v != 0.5 {
		t.Fatalf("sustain stage %d level %f", e.Stage(), v)
	}

	e.Release()
	run(e, 48000)
	if e.IsActive() || e.Value() != 0 {
		t.Fatalf("release did not finish: stage %d level %f", e.Stage(), e.Value())
	}
}

func TestReleaseWhileIdle(t *testing.T) {
	e := New(44100)
	e.Release()
	if e.IsActive() {
		t.Error("release on an idle envelope must not start it")
	}

	e.Trigger()
	e.Next()
	e.Reset()
	if e.IsActive() || e.Value() != 0 {
		t.Error("reset should silence immediately")
	}
}

func TestSampleRateChangeKeepsTimes(t *testing.T) {
	a := New(48000)
	b := New(96000)
	a.SetADSR(0.01, 0.01, 1, 0.01)
	b.SetADSR(0.01, 0.01, 1, 0.01)
	b.SetSampleRate(48000)

	a.Trigger()
	b.Trigger()
	if run(a, 100) != run(b, 100) {
		t.Error("envelopes at the same rate should match")
	}
}
