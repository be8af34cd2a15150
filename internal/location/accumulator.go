package location

import (
	"image"
	"math"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
)

// Accumulator is a voting matrix for the eye center. Votes are stored
// row-major, one cell per pixel of the (shrunk) eye region.
type Accumulator struct {
	Cols, Rows int
	Votes      []float64

	// Coordinates of every candidate cell, and scratch space for one
	// round of votes. Keeping whole-image slices around lets a single
	// voter update all candidates with a handful of vector ops.
	xs, ys  []float64
	dx, dy  []float64
	ballots []float64
}

// NewAccumulator returns an empty accumulator for a cols x rows image.
func NewAccumulator(cols, rows int) *Accumulator {
	n := cols * rows
	a := &Accumulator{
		Cols:    cols,
		Rows:    rows,
		Votes:   make([]float64, n),
		xs:      make([]float64, n),
		ys:      make([]float64, n),
		dx:      make([]float64, n),
		dy:      make([]float64, n),
		ballots: make([]float64, n),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			a.xs[row*cols+col] = float64(col)
			a.ys[row*cols+col] = float64(row)
		}
	}
	return a
}

// Vote casts the votes of the pixel at (x, y), whose unit gradient is
// (gx, gy). Every candidate center c gets the cosine between the
// gradient and the direction from c to the pixel, if positive, times
// weight. The pixel does not vote for itself.
func (a *Accumulator) Vote(x, y int, gx, gy, weight float64) {
	// Displacement from every candidate to (x, y).
	floats.ScaleTo(a.dx, -1, a.xs)
	floats.AddConst(float64(x), a.dx)
	floats.ScaleTo(a.dy, -1, a.ys)
	floats.AddConst(float64(y), a.dy)

	for i := range a.ballots {
		d := math.Hypot(a.dx[i], a.dy[i])
		if d == 0 {
			a.ballots[i] = 0
			continue
		}
		a.ballots[i] = math.Max(0, (a.dx[i]*gx+a.dy[i]*gy)/d)
	}
	floats.AddScaled(a.Votes, weight, a.ballots)
}

// normalize averages the votes over the pixel count and stretches them
// to [0, 255]. A flat map (no votes at all) ends up all zeros.
func (a *Accumulator) normalize() {
	if len(a.Votes) == 0 {
		return
	}
	floats.Scale(1/float64(len(a.Votes)), a.Votes)

	lo, hi := floats.Min(a.Votes), floats.Max(a.Votes)
	if hi == lo {
		floats.Scale(0, a.Votes)
		return
	}
	floats.AddConst(-lo, a.Votes)
	floats.Scale(255/(hi-lo), a.Votes)
}

// Peak returns the cell with the most votes. Ties go to the first cell
// in scan order, so an empty map peaks at (0, 0).
func (a *Accumulator) Peak() image.Point {
	if len(a.Votes) == 0 {
		return image.Point{}
	}
	i := floats.MaxIdx(a.Votes)
	return image.Point{X: i % a.Cols, Y: i / a.Cols}
}

// Mat renders the accumulator as an 8-bit image, for debugging.
func (a *Accumulator) Mat() gocv.Mat {
	m := gocv.NewMatWithSize(a.Rows, a.Cols, gocv.MatTypeCV8UC1)
	for row := 0; row < a.Rows; row++ {
		for col := 0; col < a.Cols; col++ {
			v := math.Round(a.Votes[row*a.Cols+col])
			m.SetUCharAt(row, col, uint8(math.Max(0, math.Min(255, v))))
		}
	}
	return m
}
