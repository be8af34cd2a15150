package location

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// EraseSpecular paints over small bright highlights (corneal glints)
// in eye, in place. Highlights produce strong gradients that point
// the wrong way and would otherwise win the center vote.
//
// eye must be a single channel 8-bit Mat. If nothing qualifies as a
// highlight, eye is left untouched.
func (l *Locator) EraseSpecular(eye *gocv.Mat) {
	// Anything bigger than this is a legitimately bright area
	// (sclera, skin), not a glint.
	maxArea := float64((eye.Cols() + eye.Rows()) / 2)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{l.params.MorphSize, l.params.MorphSize})
	defer kernel.Close()

	// Blur away pixel noise, then close to wipe out eyelashes, which
	// would otherwise slice highlights into many tiny contours.
	work := gocv.NewMat()
	defer work.Close()
	gocv.GaussianBlur(*eye, &work, image.Point{l.params.BlurSize, l.params.BlurSize}, 0, 0, gocv.BorderDefault)
	gocv.MorphologyEx(work, &work, gocv.MorphClose, kernel)

	lo, hi, _, _ := gocv.MinMaxLoc(work)
	thresh := lo + float32(l.params.SpecularThreshold)*(hi-lo)

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(work, &bright, thresh, 255, gocv.ThresholdBinary)

	all := gocv.FindContours(bright, gocv.RetrievalList, gocv.ChainApproxSimple)
	defer all.Close()

	small := gocv.NewPointsVector()
	defer small.Close()
	for i := 0; i < all.Size(); i++ {
		c := all.At(i)
		if gocv.ContourArea(c) < maxArea {
			small.Append(c)
		}
	}

	l.log.Debug().
		Int("contours", all.Size()).
		Int("highlights", small.Size()).
		Float32("thresh", thresh).
		Msg("specular scan")

	if small.Size() == 0 {
		return
	}

	// Grow the mask a little so the halo around each glint goes too.
	mask := gocv.Zeros(eye.Rows(), eye.Cols(), gocv.MatTypeCV8UC1)
	defer mask.Close()
	gocv.DrawContours(&mask, small, -1, color.RGBA{255, 255, 255, 255}, -1)
	gocv.Dilate(mask, &mask, kernel)

	gocv.Inpaint(*eye, mask, eye, float32(l.params.InpaintRadius), gocv.Telea)
}
