// Package noise generates seeded test noise.
package noise

import (
	"fmt"
	"math/bits"
	"math/rand"
)

// Color selects the spectrum.
type Color int

const (
	// White has equal energy at all frequencies
	White Color = iota
	// Pink has equal energy per octave
	Pink
)

// ParseColor maps a flag value onto a Color.
func ParseColor(s string) (Color, error) {
	switch s {
	case "white":
		return White, nil
	case "pink":
		return Pink, nil
	}
	return 0, fmt.Errorf("noise: unknown color %q", s)
}

const pinkRows = 16

// Generator produces noise in [-1, 1]. The same seed always yields the
// same sequence.
type Generator struct {
	color Color
	rand  *rand.Rand

	// Voss-McCartney state
	rows    [pinkRows]float32
	sum     float32
	counter uint32
}

// New creates a generator.
func New(color Color, seed int64) *Generator {
	g := &Generator{color: color, rand: rand.New(rand.NewSource(seed))}
	g.resetRows()
	return g
}

func (g *Generator) resetRows() {
	g.sum, g.counter = 0, 0
	for i := range g.rows {
		g.rows[i] = g.uniform()
		g.sum += g.rows[i]
	}
}

func (g *Generator) uniform() float32 {
	return float32(g.rand.Float64()*2 - 1)
}

// Next returns one sample.
func (g *Generator) Next() float32 {
	if g.color != Pink {
		return g.uniform()
	}

	// row k changes every 2^(k+1) samples
	g.counter++
	if row := bits.TrailingZeros32(g.counter); row < pinkRows {
		g.sum -= g.rows[row]
		g.rows[row] = g.uniform()
		g.sum += g.rows[row]
	}

	out := (g.sum + g.uniform()) / (pinkRows + 1)
	return max(-1, min(1, out))
}

// Fill writes len(buf) samples scaled by gain.
func (g *Generator) Fill(buf []float32, gain float32) {
	for i := range buf {
		buf[i] = g.Next() * gain
	}
}
