package snapshot

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Fit scales img to fit inside a width × height surface keeping its aspect
// ratio, centred on white. Images that already match the surface size are
// copied without resampling so a restore reproduces the saved pixels.
func Fit(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	sb := img.Bounds()
	if sb.Dx() == width && sb.Dy() == height {
		draw.Draw(dst, dst.Bounds(), img, sb.Min, draw.Over)
		return dst
	}
	if sb.Empty() {
		return dst
	}

	scale := min(float64(width)/float64(sb.Dx()), float64(height)/float64(sb.Dy()))
	w := max(1, int(float64(sb.Dx())*scale+0.5))
	h := max(1, int(float64(sb.Dy())*scale+0.5))
	x := (width - w) / 2
	y := (height - h) / 2
	draw.CatmullRom.Scale(dst, image.Rect(x, y, x+w, y+h), img, sb, draw.Over, nil)
	return dst
}
