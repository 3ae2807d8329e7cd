package gain

import (
	"math"
	"testing"
)

func TestDbConversion(t *testing.T) {
	tests := []struct {
		name   string
		linear float32
		db     float32
	}{
		{"Unity gain", 1.0, 0.0},
		{"Half amplitude", 0.5, -6.02},
		{"Double amplitude", 2.0, 6.02},
		{"Zero amplitude", 0.0, MinDB},
		{"Negative amplitude", -1.0, MinDB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LinearToDb32(tt.linear)
			if math.Abs(float64(got-tt.db)) > 0.01 {
				t.Errorf("LinearToDb32(%f) = %f, want %f", tt.linear, got, tt.db)
			}
			if tt.db == MinDB {
				return
			}
			back := DbToLinear32(tt.db)
			if math.Abs(float64(back-tt.linear)) > 0.01 {
				t.Errorf("DbToLinear32(%f) = %f, want %f", tt.db, back, tt.linear)
			}
		})
	}

	if DbToLinear32(MinDB) != 0 {
		t.Error("MinDB should be silence")
	}
}

func TestPeakAndCount(t *testing.T) {
	buf := []float32{0.1, -1.5, 0.9, 1.2, -0.3}

	if got := Peak(buf); got != 1.5 {
		t.Errorf("Peak = %f, want 1.5", got)
	}
	if got := CountOver(buf, 1); got != 2 {
		t.Errorf("CountOver = %d, want 2", got)
	}
	if got := Peak(nil); got != 0 {
		t.Errorf("Peak(nil) = %f", got)
	}
}

func TestApplyAndClip(t *testing.T) {
	buf := []float32{1, -2, 0.5}
	ApplyBuffer(buf, 0.5)
	want := []float32{0.5, -1, 0.25}
	for i := range buf {
		if buf[i] != want[i] {
			t.Errorf("sample %d = %f, want %f", i, buf[i], want[i])
		}
	}

	if HardClip(2, 1) != 1 || HardClip(-2, 1) != -1 || HardClip(0.5, 1) != 0.5 {
		t.Error("HardClip did not limit to the threshold")
	}
}
