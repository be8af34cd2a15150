package debug

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"go.universe.tf/eyecenter/internal/location"
)

var (
	roiColor    = color.RGBA{0, 0, 255, 255}
	centerColor = color.RGBA{0, 255, 0, 255}
	failColor   = color.RGBA{255, 0, 0, 255}
)

// ShowMats opens one window per Mat, and blocks until a key is
// pressed.
func ShowMats(ms ...gocv.Mat) {
	if len(ms) == 0 {
		return
	}
	var window *gocv.Window
	for i, m := range ms {
		window = gocv.NewWindow(fmt.Sprintf("eyecenter %d", i))
		defer window.Close()
		window.IMShow(m)
	}
	window.WaitKey(0)
}

// Annotate returns a color copy of the grayscale frame, with the
// searched eye regions boxed and the found centers marked. Regions
// without a detection are boxed in red.
func Annotate(frame gocv.Mat, results ...location.Result) gocv.Mat {
	ret := gocv.NewMat()
	gocv.CvtColor(frame, &ret, gocv.ColorGrayToBGR)
	for _, r := range results {
		switch r.Status {
		case location.Detected:
			gocv.Rectangle(&ret, r.ROI, roiColor, 1)
			gocv.Circle(&ret, image.Point{int(r.X), int(r.Y)}, 2, centerColor, -1)
		default:
			gocv.Rectangle(&ret, r.ROI, failColor, 1)
		}
	}
	return ret
}

// Enlarge scales a small Mat (an accumulator, say) up by factor with
// nearest neighbour sampling, so individual cells stay visible.
func Enlarge(m gocv.Mat, factor float64) gocv.Mat {
	ret := gocv.NewMat()
	gocv.Resize(m, &ret, image.Point{}, factor, factor, gocv.InterpolationNearestNeighbor)
	return ret
}
