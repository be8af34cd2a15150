package location

import (
	"image"
	"math"
	"time"

	"gocv.io/x/gocv"
)

// FindEyeCenter locates the pupil center in a grayscale eye region,
// and returns it in the region's coordinates. eye is not modified.
//
// This is the gradient voting approach from "Accurate Eye Centre
// Localisation by Means of Gradients", by Timm and Barth. The pupil
// is a dark disk, so the strong gradients in an eye image mostly
// point away from its center. Each such gradient votes for every
// pixel it could be radiating from, and the pixel with the most
// support wins.
//
// The returned point is not checked for plausibility, see
// Params.Accept for that.
func (l *Locator) FindEyeCenter(eye gocv.Mat) image.Point {
	acc, mult := l.CenterMap(eye)
	return rescale(acc.Peak(), mult)
}

// rescale maps a point of the shrunk image back to full size. Halves
// round to even, like OpenCV's cvRound.
func rescale(p image.Point, mult float64) image.Point {
	return image.Point{
		X: int(math.RoundToEven(float64(p.X) * mult)),
		Y: int(math.RoundToEven(float64(p.Y) * mult)),
	}
}

// CenterMap builds the voting matrix for eye. The matrix is computed
// on a shrunk copy of eye, the returned multiplier maps its
// coordinates back to eye's.
func (l *Locator) CenterMap(eye gocv.Mat) (*Accumulator, float64) {
	st := time.Now()

	// Knock off pixel noise at full resolution first, so it doesn't
	// get baked into the shrunk image.
	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(eye, &blur, image.Point{l.params.BlurSize, l.params.BlurSize}, 0, 0, gocv.BorderDefault)

	// Voting is quadratic in the number of pixels, and eye regions
	// from a close-up face are big. A narrow image gets the center
	// to within a pixel or two of the full size answer, at a tiny
	// fraction of the cost.
	small, mult := shrink(blur, l.params.FastWidth)
	defer small.Close()

	acc := l.centerMap(small)

	l.log.Debug().
		Int("cols", acc.Cols).
		Int("rows", acc.Rows).
		Float64("mult", mult).
		Dur("elapsed", time.Since(st)).
		Msg("center map")
	return acc, mult
}

// centerMap runs the vote over every pixel of im, which must be a
// continuous single channel 8-bit Mat.
func (l *Locator) centerMap(im gocv.Mat) *Accumulator {
	cols, rows := im.Cols(), im.Rows()
	acc := NewAccumulator(cols, rows)

	gradX := gocv.NewMat()
	defer gradX.Close()
	gocv.Sobel(im, &gradX, gocv.MatTypeCV32F, 1, 0, l.params.SobelSize, 1, 0, gocv.BorderDefault)
	gradY := gocv.NewMat()
	defer gradY.Close()
	gocv.Sobel(im, &gradY, gocv.MatTypeCV32F, 0, 1, l.params.SobelSize, 1, 0, gocv.BorderDefault)

	mags := gocv.NewMat()
	defer mags.Close()
	gocv.Magnitude(gradX, gradY, &mags)

	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()
	gocv.MeanStdDev(mags, &mean, &stddev)

	// Weak gradients are mostly noise (skin texture, sensor grain)
	// and only get to vote if they clear this bar.
	thresh := mean.GetDoubleAt(0, 0) + l.params.GradientThreshold*stddev.GetDoubleAt(0, 0)

	gx, err := gradX.DataPtrFloat32()
	if err != nil {
		l.log.Warn().Err(err).Msg("reading x gradient")
		return acc
	}
	gy, err := gradY.DataPtrFloat32()
	if err != nil {
		l.log.Warn().Err(err).Msg("reading y gradient")
		return acc
	}
	mag, err := mags.DataPtrFloat32()
	if err != nil {
		l.log.Warn().Err(err).Msg("reading gradient magnitudes")
		return acc
	}
	pix, err := im.DataPtrUint8()
	if err != nil {
		l.log.Warn().Err(err).Msg("reading eye pixels")
		return acc
	}

	voters := 0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			i := row*cols + col
			m := float64(mag[i])
			if m < thresh {
				continue
			}
			// +1 keeps the division finite. It also shortens
			// the weakest survivors a little, which is fine.
			x := float64(gx[i]) / (m + 1)
			y := float64(gy[i]) / (m + 1)
			if x == 0 && y == 0 {
				continue
			}
			// The pupil is dark, so dark pixels get a louder voice.
			weight := (255 - float64(pix[i])) / l.params.DarknessWeightScale
			acc.Vote(col, row, x, y, weight)
			voters++
		}
	}
	acc.normalize()

	l.log.Debug().
		Int("voters", voters).
		Float64("thresh", thresh).
		Msg("gradient vote")
	return acc
}

// shrink resizes im down so that its width is at most maxWidth,
// keeping the aspect ratio. Returns the shrunken image, as well as
// the factor you'd need to multiply by to get back to the original
// image. The result is always a new, continuous Mat, at least one
// pixel high.
func shrink(im gocv.Mat, maxWidth int) (gocv.Mat, float64) {
	ret := im.Clone()
	mult := float64(1)

	sz := float64(im.Cols())
	tgtSz := float64(maxWidth)
	if sz > tgtSz {
		// Very flat strips would round to zero rows, which OpenCV
		// refuses. Pin those to a single row.
		var dsize image.Point
		if math.Round(float64(im.Rows())*tgtSz/sz) < 1 {
			dsize = image.Point{maxWidth, 1}
		}
		gocv.Resize(ret, &ret, dsize, tgtSz/sz, tgtSz/sz, gocv.InterpolationLinear)
		mult = sz / tgtSz
	}
	return ret, mult
}
