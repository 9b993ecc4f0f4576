package board

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SketchBoard/internal/state"
)

func TestDefaultImageIsNotBlank(t *testing.T) {
	img := DefaultImage(200, 200)
	require.Equal(t, 200, img.Bounds().Dx())

	inked := 0
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			if img.RGBAAt(x, y) != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
				inked++
			}
		}
	}
	assert.Greater(t, inked, 500)
}

func TestSegment(t *testing.T) {
	pts := segment(state.NewPoint(0, 0), state.NewPoint(10, 0), 4)
	assert.Equal(t, []state.Point{state.NewPoint(0, 0), state.NewPoint(5, 0)}, pts)

	assert.Len(t, segment(state.NewPoint(1, 1), state.NewPoint(1, 1), 4), 1)
}
