package location

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"
)

// Eye identifies which eye a landmark belongs to.
type Eye int

const (
	LeftEye Eye = iota
	RightEye
)

func (e Eye) String() string {
	switch e {
	case LeftEye:
		return "left"
	case RightEye:
		return "right"
	default:
		return fmt.Sprintf("Eye(%d)", int(e))
	}
}

// Status says how much a Result can be trusted.
type Status int

const (
	// Detected means X, Y hold the pupil center in frame coordinates.
	Detected Status = iota
	// NoDetection means a center was computed but looks bogus. X, Y
	// are (0, 0), and the caller should keep its previous estimate.
	NoDetection
	// InvalidROI means the eye region didn't fit in the frame, so
	// nothing was attempted. X, Y hold the eye's diagnostic
	// coordinate.
	InvalidROI
)

func (s Status) String() string {
	switch s {
	case Detected:
		return "detected"
	case NoDetection:
		return "no detection"
	case InvalidROI:
		return "invalid roi"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of locating one pupil in one frame.
type Result struct {
	X, Y   float32
	Status Status
	// ROI is the eye region that was searched, in frame coordinates.
	ROI image.Rectangle
}

// Landmark is an eye position reported by the face detector, in
// frame coordinates.
type Landmark struct {
	X, Y float32
}

// Distance returns the distance between two eye landmarks, which
// sizes the eye regions.
func Distance(a, b Landmark) float32 {
	dx, dy := float64(a.X-b.X), float64(a.Y-b.Y)
	return float32(math.Sqrt(dx*dx + dy*dy))
}

// Locator finds pupil centers in grayscale camera frames. It holds no
// per-call state, and is safe for concurrent use.
type Locator struct {
	params Params
	log    zerolog.Logger
}

// NewLocator returns a Locator using params. Pass zerolog.Nop() to
// silence it. params are validated up front, since OpenCV aborts the
// process on bad kernel sizes rather than returning an error.
func NewLocator(params Params, log zerolog.Logger) (*Locator, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid locator params: %w", err)
	}
	return &Locator{
		params: params,
		log:    log.With().Str("component", "location").Logger(),
	}, nil
}

// Params returns the parameters l was built with.
func (l *Locator) Params() Params {
	return l.params
}

// Locate finds the pupil of eye, whose landmark is at (x, y) in frame.
// distance is the distance between both eyes' landmarks.
//
// frame must be a single channel 8-bit Mat. It is not modified.
func (l *Locator) Locate(frame gocv.Mat, eye Eye, x, y, distance float32) Result {
	st := time.Now()
	roi := l.params.EyeROI(x, y, distance)
	log := l.log.With().Str("eye", eye.String()).Str("roi", roi.String()).Logger()

	if frame.Type() != gocv.MatTypeCV8UC1 {
		log.Warn().Int("type", int(frame.Type())).Msg("frame is not 8-bit grayscale")
		return l.diagnostic(eye, roi)
	}
	if !ValidROI(frame.Rows(), frame.Cols(), roi) || roi.Empty() {
		log.Debug().Int("rows", frame.Rows()).Int("cols", frame.Cols()).Msg("eye region outside frame")
		return l.diagnostic(eye, roi)
	}

	region := l.Prepare(frame, roi)
	defer region.Close()
	c := l.FindEyeCenter(region)

	res := l.result(roi, c)
	log.Debug().
		Int("x", c.X).
		Int("y", c.Y).
		Stringer("status", res.Status).
		Dur("elapsed", time.Since(st)).
		Msg("eye center")
	return res
}

// Prepare copies roi out of frame, and readies it for FindEyeCenter:
// contrast is stretched and specular highlights are erased. roi must
// be valid for frame. The caller owns the returned Mat.
func (l *Locator) Prepare(frame gocv.Mat, roi image.Rectangle) gocv.Mat {
	// Work on a private copy, so that concurrent calls on the same
	// frame never see each other's edits.
	view := frame.Region(roi)
	region := view.Clone()
	view.Close()

	gocv.EqualizeHist(region, &region)
	l.EraseSpecular(&region)
	return region
}

// LocateEyes locates both pupils in frame, concurrently. The eye
// regions are sized from the distance between the two landmarks.
func (l *Locator) LocateEyes(frame gocv.Mat, left, right Landmark) (Result, Result) {
	distance := Distance(left, right)

	var (
		g      errgroup.Group
		lr, rr Result
	)
	g.Go(func() error {
		lr = l.Locate(frame, LeftEye, left.X, left.Y, distance)
		return nil
	})
	g.Go(func() error {
		rr = l.Locate(frame, RightEye, right.X, right.Y, distance)
		return nil
	})
	g.Wait()
	return lr, rr
}

// result turns a center c found in roi into a frame-level Result.
func (l *Locator) result(roi image.Rectangle, c image.Point) Result {
	if !l.params.Accept(c, roi.Dx(), roi.Dy()) {
		return Result{Status: NoDetection, ROI: roi}
	}
	return Result{
		X:      float32(c.X + roi.Min.X),
		Y:      float32(c.Y + roi.Min.Y),
		Status: Detected,
		ROI:    roi,
	}
}

func (l *Locator) diagnostic(eye Eye, roi image.Rectangle) Result {
	d := l.params.RightDiagnostic
	if eye == LeftEye {
		d = l.params.LeftDiagnostic
	}
	return Result{X: d[0], Y: d[1], Status: InvalidROI, ROI: roi}
}
