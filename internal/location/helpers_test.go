package location

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func newTestLocator() *Locator {
	return mustLocator(DefaultParams())
}

func mustLocator(p Params) *Locator {
	l, err := NewLocator(p, zerolog.Nop())
	if err != nil {
		panic(err)
	}
	return l
}

// disk is a filled circle of intensity v.
type disk struct {
	x, y, r float64
	v       uint8
}

// grayMat builds a cols x rows 8-bit image of intensity bg, with disks
// painted on top.
func grayMat(t testing.TB, cols, rows int, bg uint8, disks ...disk) gocv.Mat {
	t.Helper()
	buf := make([]byte, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := bg
			for _, d := range disks {
				dx, dy := float64(x)-d.x, float64(y)-d.y
				if dx*dx+dy*dy <= d.r*d.r {
					v = d.v
				}
			}
			buf[y*cols+x] = v
		}
	}
	m, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC1, buf)
	require.NoError(t, err)
	return m
}
