package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestEraseSpecularUniform(t *testing.T) {
	eye := grayMat(t, 40, 30, 90)
	defer eye.Close()
	before := eye.ToBytes()

	newTestLocator().EraseSpecular(&eye)
	assert.Equal(t, before, eye.ToBytes())
}

func TestEraseSpecularKeepsLargeBrightAreas(t *testing.T) {
	buf := make([]byte, 40*30)
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			buf[y*40+x] = 50
			if x < 20 {
				buf[y*40+x] = 200
			}
		}
	}
	eye, err := gocv.NewMatFromBytes(30, 40, gocv.MatTypeCV8UC1, buf)
	require.NoError(t, err)
	defer eye.Close()
	before := eye.ToBytes()

	newTestLocator().EraseSpecular(&eye)
	assert.Equal(t, before, eye.ToBytes())
}

func TestEraseSpecularRemovesGlint(t *testing.T) {
	buf := make([]byte, 40*30)
	for i := range buf {
		buf[i] = 60
	}
	for y := 14; y <= 16; y++ {
		for x := 19; x <= 21; x++ {
			buf[y*40+x] = 250
		}
	}
	eye, err := gocv.NewMatFromBytes(30, 40, gocv.MatTypeCV8UC1, buf)
	require.NoError(t, err)
	defer eye.Close()

	newTestLocator().EraseSpecular(&eye)
	assert.Less(t, eye.GetUCharAt(15, 20), uint8(120))
	assert.Equal(t, uint8(60), eye.GetUCharAt(5, 5))
	assert.Equal(t, uint8(60), eye.GetUCharAt(25, 35))
}
