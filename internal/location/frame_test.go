package location

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestFrameFromLuma(t *testing.T) {
	// 4x2 luma plane, followed by interleaved chroma.
	buf := []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
		128, 128, 128, 128,
	}
	frame, err := FrameFromLuma(buf, 4, 2)
	require.NoError(t, err)
	defer frame.Close()

	assert.Equal(t, gocv.MatTypeCV8UC1, frame.Type())
	assert.Equal(t, 2, frame.Rows())
	assert.Equal(t, 4, frame.Cols())
	assert.Equal(t, uint8(7), frame.GetUCharAt(1, 2))
}

func TestFrameFromLumaErrors(t *testing.T) {
	_, err := FrameFromLuma(make([]byte, 7), 4, 2)
	assert.Error(t, err)
	_, err = FrameFromLuma(make([]byte, 8), 0, 2)
	assert.Error(t, err)
}

func TestFrameFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.Set(x, y, color.RGBA{200, 200, 200, 255})
		}
	}
	img.Set(3, 2, color.RGBA{10, 10, 10, 255})

	frame, err := FrameFromImage(img)
	require.NoError(t, err)
	defer frame.Close()
	assert.Equal(t, 4, frame.Rows())
	assert.Equal(t, 6, frame.Cols())
	assert.Equal(t, uint8(200), frame.GetUCharAt(0, 0))
	assert.Equal(t, uint8(10), frame.GetUCharAt(2, 3))

	// Sub-images keep their size, and their origin moves to (0, 0).
	sub := img.SubImage(image.Rect(2, 1, 5, 4))
	frame2, err := FrameFromImage(sub)
	require.NoError(t, err)
	defer frame2.Close()
	assert.Equal(t, 3, frame2.Rows())
	assert.Equal(t, 3, frame2.Cols())
	assert.Equal(t, uint8(10), frame2.GetUCharAt(1, 1))
}

func TestFrameFromImageEmpty(t *testing.T) {
	_, err := FrameFromImage(image.NewGray(image.Rectangle{}))
	assert.Error(t, err)
}
