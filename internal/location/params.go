package location

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Params are the tunables of the eye center pipeline. None of them
// has a principled derivation, they were tuned by hand against real
// camera footage. Change them with care.
type Params struct {
	// FastWidth is the width the eye region is shrunk to before
	// voting. Voting cost is quadratic in the pixel count, so this
	// is the main speed/accuracy knob.
	FastWidth int `toml:"fast_width"`
	// DarknessWeightScale divides (255 - intensity) to get the vote
	// weight of a pixel.
	DarknessWeightScale float64 `toml:"darkness_weight_scale"`

	// ROIWidth and ROIHeight size the eye region as a fraction of
	// the distance between the eyes.
	ROIWidth  float64 `toml:"roi_width"`
	ROIHeight float64 `toml:"roi_height"`

	// GradientThreshold is how many standard deviations above the
	// mean gradient magnitude a gradient must be to vote.
	GradientThreshold float64 `toml:"gradient_threshold"`
	// SpecularThreshold places the highlight binarization threshold
	// between the darkest and brightest pixel.
	SpecularThreshold float64 `toml:"specular_threshold"`
	// BorderMargin is how close (in pixels) to the region edge a
	// center may be before it's thrown away.
	BorderMargin int `toml:"border_margin"`

	BlurSize      int     `toml:"blur_size"`
	SobelSize     int     `toml:"sobel_size"`
	InpaintRadius float64 `toml:"inpaint_radius"`
	// MorphSize is the diameter of the elliptical structuring element
	// used to close eyelashes and grow the highlight mask.
	MorphSize int `toml:"morph_size"`

	// Coordinates reported when an eye region falls outside the
	// frame. They differ per eye so that a broken landmark feed is
	// obvious on screen.
	LeftDiagnostic  [2]float32 `toml:"left_diagnostic"`
	RightDiagnostic [2]float32 `toml:"right_diagnostic"`
}

// DefaultParams returns the parameters the tracker ships with.
func DefaultParams() Params {
	return Params{
		FastWidth:           30,
		DarknessWeightScale: 100,
		ROIWidth:            0.40,
		ROIHeight:           0.30,
		GradientThreshold:   0.5,
		SpecularThreshold:   0.75,
		BorderMargin:        1,
		BlurSize:            5,
		SobelSize:           5,
		InpaintRadius:       2,
		MorphSize:           5,
		LeftDiagnostic:      [2]float32{50, 50},
		RightDiagnostic:     [2]float32{30, 30},
	}
}

// LoadParams reads a TOML file on top of DefaultParams. Keys missing
// from the file keep their default.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Params{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Validate reports parameters that would make OpenCV fail or the
// voting degenerate.
func (p Params) Validate() error {
	var errs []error
	if p.FastWidth <= 0 {
		errs = append(errs, fmt.Errorf("fast_width must be positive, got %d", p.FastWidth))
	}
	if p.DarknessWeightScale <= 0 {
		errs = append(errs, fmt.Errorf("darkness_weight_scale must be positive, got %v", p.DarknessWeightScale))
	}
	if p.ROIWidth <= 0 || p.ROIHeight <= 0 {
		errs = append(errs, fmt.Errorf("roi proportions must be positive, got %vx%v", p.ROIWidth, p.ROIHeight))
	}
	if p.GradientThreshold < 0 {
		errs = append(errs, fmt.Errorf("gradient_threshold must not be negative, got %v", p.GradientThreshold))
	}
	if p.SpecularThreshold <= 0 || p.SpecularThreshold > 1 {
		errs = append(errs, fmt.Errorf("specular_threshold must be in (0, 1], got %v", p.SpecularThreshold))
	}
	if p.BorderMargin < 0 {
		errs = append(errs, fmt.Errorf("border_margin must not be negative, got %d", p.BorderMargin))
	}
	if p.BlurSize <= 0 || p.BlurSize%2 == 0 {
		errs = append(errs, fmt.Errorf("blur_size must be odd and positive, got %d", p.BlurSize))
	}
	switch p.SobelSize {
	case 1, 3, 5, 7:
	default:
		errs = append(errs, fmt.Errorf("sobel_size must be 1, 3, 5 or 7, got %d", p.SobelSize))
	}
	if p.MorphSize <= 0 || p.MorphSize%2 == 0 {
		errs = append(errs, fmt.Errorf("morph_size must be odd and positive, got %d", p.MorphSize))
	}
	if p.InpaintRadius <= 0 {
		errs = append(errs, fmt.Errorf("inpaint_radius must be positive, got %v", p.InpaintRadius))
	}
	return errors.Join(errs...)
}
