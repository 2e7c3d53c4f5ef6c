package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	return img
}

func TestHighlightOutlinesBox(t *testing.T) {
	t.Parallel()

	frame := blank(100, 60)
	out := Highlight(frame, image.Rect(20, 20, 40, 30))

	// border just outside the box
	assert.Equal(t, HighlightColor, out.At(19, 25))
	assert.Equal(t, HighlightColor, out.At(20-Thickness, 25))
	assert.Equal(t, HighlightColor, out.At(30, 30))
	// element content and the rest of the frame are untouched
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out.At(30, 25))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out.At(5, 5))
	// the input frame is not modified
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, frame.At(19, 25))
}

func TestHighlightClipsToFrame(t *testing.T) {
	t.Parallel()

	out := Highlight(blank(50, 50), image.Rect(40, 40, 80, 80))

	assert.Equal(t, image.Rect(0, 0, 50, 50), out.Bounds())
	assert.Equal(t, HighlightColor, out.At(39, 45))
}

func TestHighlightIgnoresEmptyBox(t *testing.T) {
	t.Parallel()

	frame := blank(10, 10)

	assert.Equal(t, frame.Pix, Highlight(frame, image.Rectangle{}).(*image.RGBA).Pix)
	assert.Equal(t, frame.Pix, Highlight(frame, image.Rect(20, 20, 30, 30)).(*image.RGBA).Pix)
}
