package param

import (
	"fmt"
	"math"
)

// Common formatters for parameters with the customtext hint.

// FrequencyFormatter formats frequency values with Hz/kHz
func FrequencyFormatter(hz float32) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.2f kHz", hz/1000)
	}
	return fmt.Sprintf("%.1f Hz", hz)
}

// DecibelFormatter formats dB values
func DecibelFormatter(db float32) string {
	if db <= -60 {
		return "-inf dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}

// GainFormatter formats a linear gain factor in dB
func GainFormatter(gain float32) string {
	if gain <= 0 {
		return "-inf dB"
	}
	return DecibelFormatter(float32(20 * math.Log10(float64(gain))))
}

// PercentFormatter formats a 0-1 value as a percentage
func PercentFormatter(value float32) string {
	return fmt.Sprintf("%.0f%%", value*100)
}

// TimeFormatter formats milliseconds with appropriate units
func TimeFormatter(ms float32) string {
	switch {
	case ms < 1:
		return fmt.Sprintf("%.2f us", ms*1000)
	case ms < 1000:
		return fmt.Sprintf("%.1f ms", ms)
	}
	return fmt.Sprintf("%.2f s", ms/1000)
}

// PanFormatter formats pan position in [-1, 1]
func PanFormatter(pan float32) string {
	switch {
	case abs32(pan) < 0.01:
		return "C"
	case pan < 0:
		return fmt.Sprintf("%.0fL", -pan*100)
	}
	return fmt.Sprintf("%.0fR", pan*100)
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteFormatter formats MIDI note numbers
func NoteFormatter(note float32) string {
	n := int(note)
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%s%d", noteNames[n%12], n/12-1)
}

// OnOffFormatter formats boolean as On/Off
func OnOffFormatter(value float32) string {
	if value > 0.5 {
		return "On"
	}
	return "Off"
}
