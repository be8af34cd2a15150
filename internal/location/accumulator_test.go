package location

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestAccumulatorVote(t *testing.T) {
	acc := NewAccumulator(5, 5)
	at := func(x, y int) float64 { return acc.Votes[y*acc.Cols+x] }

	// A gradient at (2, 2) pointing right radiates from the left.
	acc.Vote(2, 2, 1, 0, 1.5)
	assert.InDelta(t, 1.5, at(0, 2), 1e-9)
	assert.InDelta(t, 1.5, at(1, 2), 1e-9)
	assert.InDelta(t, 1.5*math.Sqrt2/2, at(0, 0), 1e-9)
	assert.InDelta(t, 1.5*math.Sqrt2/2, at(0, 4), 1e-9)
	// Perpendicular, behind, and the voter itself get nothing.
	assert.Zero(t, at(2, 0))
	assert.Zero(t, at(4, 2))
	assert.Zero(t, at(2, 2))

	acc.Vote(2, 2, 1, 0, 1.5)
	assert.InDelta(t, 3, at(0, 2), 1e-9)
}

func TestAccumulatorNormalize(t *testing.T) {
	acc := NewAccumulator(3, 2)
	copy(acc.Votes, []float64{1, 3, 5, 2, 9, 4})
	acc.normalize()
	assert.Equal(t, 0.0, floats.Min(acc.Votes))
	assert.InDelta(t, 255, floats.Max(acc.Votes), 1e-9)
	assert.Equal(t, image.Point{1, 1}, acc.Peak())
}

func TestAccumulatorFlat(t *testing.T) {
	acc := NewAccumulator(4, 3)
	acc.normalize()
	for _, v := range acc.Votes {
		require.Zero(t, v)
	}
	assert.Equal(t, image.Point{0, 0}, acc.Peak())

	empty := NewAccumulator(0, 0)
	empty.normalize()
	assert.Equal(t, image.Point{0, 0}, empty.Peak())
}

func TestAccumulatorPeakTie(t *testing.T) {
	acc := NewAccumulator(4, 3)
	acc.Votes[6] = 10
	acc.Votes[9] = 10
	assert.Equal(t, image.Point{2, 1}, acc.Peak())
}

func TestAccumulatorMat(t *testing.T) {
	acc := NewAccumulator(3, 2)
	copy(acc.Votes, []float64{0, 127.6, 255, 300, -4, 10})
	m := acc.Mat()
	defer m.Close()
	require.Equal(t, 2, m.Rows())
	require.Equal(t, 3, m.Cols())
	assert.Equal(t, []byte{0, 128, 255, 255, 0, 10}, m.ToBytes())
}

func TestBorderPeakRejected(t *testing.T) {
	l := newTestLocator()
	const w, h = 24, 18
	roi := image.Rect(40, 60, 40+w, 60+h)

	for _, forced := range []image.Point{{0, h / 2}, {w - 1, h / 2}} {
		acc := NewAccumulator(w, h)
		acc.Votes[forced.Y*w+forced.X] = 255
		peak := acc.Peak()
		require.Equal(t, forced, peak)

		res := l.result(roi, peak)
		assert.Equal(t, NoDetection, res.Status, "peak %v", forced)
		assert.Equal(t, float32(0), res.X)
		assert.Equal(t, float32(0), res.Y)
	}

	res := l.result(roi, image.Point{12, 9})
	assert.Equal(t, Detected, res.Status)
	assert.Equal(t, float32(52), res.X)
	assert.Equal(t, float32(69), res.Y)
}
