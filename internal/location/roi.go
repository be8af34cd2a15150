package location

import "image"

// EyeROI computes the eye region for an eye landmark at (x, y), given
// the distance between both eyes. The landmark ends up horizontally
// centered, and 3/5 of the way down the region.
//
// The arithmetic (float32 products, truncation, integer halving) is
// what the overlay code uses to draw the eyes, so it must not drift.
func (p Params) EyeROI(x, y, distance float32) image.Rectangle {
	w := int(float32(p.ROIWidth) * distance)
	h := int(float32(p.ROIHeight) * distance)
	origin := image.Point{
		X: int(x) - w/2,
		Y: int(y) - (h*3)/5,
	}
	// Not image.Rect: it would swap a negative width into a
	// plausible looking rectangle.
	return image.Rectangle{Min: origin, Max: origin.Add(image.Point{w, h})}
}

// ValidROI reports whether r lies entirely inside a rows x cols frame.
func ValidROI(rows, cols int, r image.Rectangle) bool {
	x, y := r.Min.X, r.Min.Y
	w, h := r.Dx(), r.Dy()
	return 0 <= x && 0 <= w && x+w <= cols &&
		0 <= y && 0 <= h && y+h <= rows
}

// Accept reports whether a center found in a width x height eye
// region is trustworthy. Peaks hugging the region edge are almost
// always artifacts of a badly placed crop, not a pupil.
func (p Params) Accept(c image.Point, width, height int) bool {
	m := p.BorderMargin
	return c.X > m && c.Y > m && c.X < width-m && c.Y < height-m
}
