package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#000000", color.RGBA{A: 255}},
		{"#ff0000", color.RGBA{R: 255, A: 255}},
		{"#f00", color.RGBA{R: 255, A: 255}},
		{" Red ", color.RGBA{R: 255, A: 255}},
		{"white", color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#C0392B", color.RGBA{R: 0xc0, G: 0x39, B: 0x2b, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseColor("chartreuse-ish")
	assert.Error(t, err)
}

func TestFormatColor(t *testing.T) {
	assert.Equal(t, "#000000", FormatColor(color.Black))
	assert.Equal(t, "#ff0000", FormatColor(color.NRGBA{R: 255, A: 255}))
	assert.Equal(t, "#00a000", FormatColor(color.NRGBA{G: 160, A: 255}))
}
