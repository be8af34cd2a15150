package location

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
	"golang.org/x/image/draw"
)

// FrameFromLuma wraps the luminance plane of a camera buffer (NV21 and
// friends store it first, one byte per pixel) as a grayscale frame.
// Any chroma data after the luma plane is ignored.
func FrameFromLuma(buf []byte, width, height int) (gocv.Mat, error) {
	if width <= 0 || height <= 0 {
		return gocv.NewMat(), fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	n := width * height
	if len(buf) < n {
		return gocv.NewMat(), fmt.Errorf("buffer holds %d bytes, %dx%d luma plane needs %d", len(buf), width, height, n)
	}
	return gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC1, buf[:n])
}

// FrameFromImage converts img to a grayscale frame.
func FrameFromImage(img image.Image) (gocv.Mat, error) {
	b := img.Bounds()
	if b.Empty() {
		return gocv.NewMat(), fmt.Errorf("empty image %v", b)
	}
	gray, ok := img.(*image.Gray)
	if !ok || b.Min != (image.Point{}) || gray.Stride != b.Dx() {
		gray = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	}
	return gocv.ImageGrayToMatGray(gray)
}
