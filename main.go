package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go.universe.tf/eyecenter/internal/debug"
	"go.universe.tf/eyecenter/internal/location"
)

var (
	flagFrame  = flag.String("frame", "", "Path to a camera frame (PNG, JPEG, TIFF, BMP, WebP, or raw luma with -raw)")
	flagRaw    = flag.String("raw", "", "Treat -frame as a raw luma plane of this size, e.g. 640x480")
	flagLeft   = flag.String("left", "", "Left eye landmark, as x,y in frame coordinates")
	flagRight  = flag.String("right", "", "Right eye landmark, as x,y in frame coordinates")
	flagConfig = flag.String("config", "", "TOML file overriding the default tuning parameters")
	flagOut    = flag.String("out", "", "Write an annotated copy of the frame to this path")
	flagShow   = flag.Bool("show", false, "Show the annotated frame and center maps in windows")
	flagV      = flag.Bool("v", false, "Verbose (debug) logging")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *flagV {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if err := run(log); err != nil {
		log.Error().Err(err).Msg("eyecenter failed")
		os.Exit(1)
	}
}

func run(log zerolog.Logger) error {
	if *flagFrame == "" || *flagLeft == "" || *flagRight == "" {
		flag.Usage()
		return fmt.Errorf("-frame, -left and -right are required")
	}

	params := location.DefaultParams()
	if *flagConfig != "" {
		var err error
		if params, err = location.LoadParams(*flagConfig); err != nil {
			return err
		}
	}

	left, err := parseLandmark(*flagLeft)
	if err != nil {
		return fmt.Errorf("-left: %w", err)
	}
	right, err := parseLandmark(*flagRight)
	if err != nil {
		return fmt.Errorf("-right: %w", err)
	}

	frame, err := loadFrame(*flagFrame, *flagRaw)
	if err != nil {
		return err
	}
	defer frame.Close()

	loc, err := location.NewLocator(params, log)
	if err != nil {
		return err
	}
	lr, rr := loc.LocateEyes(frame, left, right)
	fmt.Printf("left:  %g,%g (%s)\n", lr.X, lr.Y, lr.Status)
	fmt.Printf("right: %g,%g (%s)\n", rr.X, rr.Y, rr.Status)

	if *flagOut == "" && !*flagShow {
		return nil
	}

	annotated := debug.Annotate(frame, lr, rr)
	defer annotated.Close()
	if *flagOut != "" && !gocv.IMWrite(*flagOut, annotated) {
		return fmt.Errorf("writing %s failed", *flagOut)
	}
	if *flagShow {
		mats := []gocv.Mat{annotated}
		for _, r := range []location.Result{lr, rr} {
			if r.Status == location.InvalidROI {
				continue
			}
			region := loc.Prepare(frame, r.ROI)
			acc, _ := loc.CenterMap(region)
			region.Close()
			m := acc.Mat()
			big := debug.Enlarge(m, 8)
			m.Close()
			defer big.Close()
			mats = append(mats, big)
		}
		debug.ShowMats(mats...)
	}
	return nil
}

func parseLandmark(s string) (location.Landmark, error) {
	var lm location.Landmark
	if _, err := fmt.Sscanf(s, "%g,%g", &lm.X, &lm.Y); err != nil {
		return location.Landmark{}, fmt.Errorf("parsing landmark %q: %w", s, err)
	}
	return lm, nil
}

func loadFrame(path, raw string) (gocv.Mat, error) {
	if raw != "" {
		var w, h int
		if _, err := fmt.Sscanf(raw, "%dx%d", &w, &h); err != nil {
			return gocv.NewMat(), fmt.Errorf("parsing -raw %q: %w", raw, err)
		}
		buf, err := os.ReadFile(path)
		if err != nil {
			return gocv.NewMat(), err
		}
		return location.FrameFromLuma(buf, w, h)
	}

	f, err := os.Open(path)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("decoding %s: %w", path, err)
	}
	return location.FrameFromImage(img)
}
