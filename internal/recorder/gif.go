package recorder

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"sort"
	"time"

	"github.com/nfnt/resize"
	"github.com/v0xg/checkoutpage/internal/overlay"
)

// ErrNoFrames is returned when there is nothing to encode
var ErrNoFrames = errors.New("no frames recorded")

// Options configures GIF encoding
type Options struct {
	FrameDelay time.Duration // How long each step stays on screen
	MaxWidth   uint
}

// Save writes the captured frames to path as a looping GIF and returns the file size.
// Without frames no file is created.
func (r *Recorder) Save(path string, opts Options) (int64, error) {
	if len(r.frames) == 0 {
		return 0, ErrNoFrames
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := r.Encode(f, opts); err != nil {
		return 0, err
	}

	// Get file size
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	return info.Size(), nil
}

// Encode writes the captured frames as a looping GIF
func (r *Recorder) Encode(w io.Writer, opts Options) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	if opts.FrameDelay == 0 {
		opts.FrameDelay = time.Second
	}
	if opts.MaxWidth == 0 {
		opts.MaxWidth = 800
	}

	// GIF delays are in 100ths of a second
	delay := int(opts.FrameDelay / (10 * time.Millisecond))

	bounds := r.frames[0].Image.Bounds()
	outputWidth := opts.MaxWidth
	if uint(bounds.Dx()) < outputWidth {
		outputWidth = uint(bounds.Dx())
	}

	// Keep aspect ratio
	aspectRatio := float64(bounds.Dy()) / float64(bounds.Dx())
	outputHeight := uint(float64(outputWidth) * aspectRatio)

	g := &gif.GIF{
		Image:     make([]*image.Paletted, len(r.frames)),
		Delay:     make([]int, len(r.frames)),
		LoopCount: 0, // Infinite loop
	}

	palette := generatePalette(r.frames[0].Image)

	for i, frame := range r.frames {
		resized := resize.Resize(outputWidth, outputHeight, frame.Image, resize.Lanczos3)

		paletted := image.NewPaletted(resized.Bounds(), palette)
		draw.FloydSteinberg.Draw(paletted, resized.Bounds(), resized, image.Point{})

		g.Image[i] = paletted
		g.Delay[i] = delay
	}

	if err := gif.EncodeAll(w, g); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

// generatePalette builds a 256-color palette from the most frequent colors of img
func generatePalette(img image.Image) color.Palette {
	bounds := img.Bounds()
	counts := make(map[color.RGBA]int)

	// Sample every 4th pixel
	const step = 4
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, a := img.At(x, y).RGBA()
			counts[color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}]++
		}
	}

	colors := make([]color.RGBA, 0, len(counts))
	for c := range counts {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool {
		return counts[colors[i]] > counts[colors[j]]
	})

	palette := make(color.Palette, 0, 256)
	// The highlight must survive quantization even when it covers few pixels
	palette = append(palette, overlay.HighlightColor)
	for i := 0; i < len(colors) && len(palette) < 256; i++ {
		palette = append(palette, colors[i])
	}

	// Pad with grayscale
	for len(palette) < 256 {
		gray := uint8(len(palette))
		palette = append(palette, color.RGBA{gray, gray, gray, 255})
	}

	return palette
}
