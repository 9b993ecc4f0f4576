package snapshot

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitSameSizeCopies(t *testing.T) {
	src := solid(10, 10, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	got := Fit(src, 10, 10)
	assert.Equal(t, src.Pix, got.Pix)
}

func TestFitLetterboxes(t *testing.T) {
	src := solid(200, 100, color.RGBA{B: 255, A: 255})
	got := Fit(src, 100, 100)

	assert.Equal(t, image.Rect(0, 0, 100, 100), got.Bounds())
	// Scaled to 100x50, centred vertically.
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, got.RGBAAt(50, 5))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, got.RGBAAt(50, 95))
	near(t, color.RGBA{B: 255, A: 255}, got.RGBAAt(50, 50), 2)
}

func TestFitEmptyImage(t *testing.T) {
	got := Fit(image.NewRGBA(image.Rectangle{}), 4, 4)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, got.RGBAAt(1, 1))
}
