// Package overlay marks page elements on captured frames.
package overlay

import (
	"image"
	"image/color"
	"image/draw"
)

// Thickness is the width of the highlight border in pixels
const Thickness = 3

// HighlightColor outlines the element a step acted on
var HighlightColor = color.RGBA{66, 133, 244, 255}

// Highlight returns a copy of frame with box outlined.
// An empty box, or one entirely outside the frame, leaves the copy untouched.
func Highlight(frame image.Image, box image.Rectangle) image.Image {
	bounds := frame.Bounds()
	result := image.NewRGBA(bounds)

	// Copy original frame
	draw.Draw(result, bounds, frame, bounds.Min, draw.Src)

	box = box.Canon()
	if box.Empty() || !box.Overlaps(bounds) {
		return result
	}

	// Grow the outline outward so the element itself stays readable
	for i := 1; i <= Thickness; i++ {
		drawRect(result, box.Inset(-i), HighlightColor)
	}

	return result
}

func drawRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		setPixelSafe(img, x, r.Min.Y, c)
		setPixelSafe(img, x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		setPixelSafe(img, r.Min.X, y, c)
		setPixelSafe(img, r.Max.X-1, y, c)
	}
}

func setPixelSafe(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}
