// Package gain provides amplitude helpers for the example plugins.
package gain

import (
	"math"
)

// MinDB is the floor used for silence.
const MinDB = -120.0

// LinearToDb32 converts a linear amplitude to decibels. Values <= 0 return
// MinDB.
func LinearToDb32(linear float32) float32 {
	if linear <= 0 {
		return MinDB
	}
	db := 20 * float32(math.Log10(float64(linear)))
	if db < MinDB {
		return MinDB
	}
	return db
}

// DbToLinear32 converts decibels to a linear amplitude. Values <= MinDB
// return 0.
func DbToLinear32(db float32) float32 {
	if db <= MinDB {
		return 0
	}
	return float32(math.Pow(10, float64(db)/20))
}

// ApplyBuffer multiplies buffer by g in place.
func ApplyBuffer(buffer []float32, g float32) {
	for i := range buffer {
		buffer[i] *= g
	}
}

// Peak returns the largest absolute sample of buffer.
func Peak(buffer []float32) float32 {
	var peak float32
	for _, s := range buffer {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

// CountOver returns how many samples exceed threshold in magnitude.
func CountOver(buffer []float32, threshold float32) int {
	n := 0
	for _, s := range buffer {
		if s > threshold || s < -threshold {
			n++
		}
	}
	return n
}

// HardClip limits a sample to [-threshold, threshold].
func HardClip(input, threshold float32) float32 {
	switch {
	case input > threshold:
		return threshold
	case input < -threshold:
		return -threshold
	}
	return input
}
