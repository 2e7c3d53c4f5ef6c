package recorder

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/checkoutpage/internal/browser"
	"github.com/v0xg/checkoutpage/internal/overlay"
)

type fakeShots struct {
	width, height int
	err           error
}

func (f fakeShots) Screenshot() ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// boxedElement is an element with a known position
type boxedElement struct {
	browser.Element
	box image.Rectangle
}

func (e boxedElement) Box() (image.Rectangle, error) {
	return e.box, nil
}

func TestStepCapturesAndHighlights(t *testing.T) {
	t.Parallel()

	logger, _ := test.NewNullLogger()
	r := New(fakeShots{width: 200, height: 100}, logger)

	r.Step("shipping_city", boxedElement{box: image.Rect(10, 10, 50, 30)})
	r.Step("next_step", nil)

	frames := r.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, "shipping_city", frames[0].Step)
	assert.Equal(t, overlay.HighlightColor, frames[0].Image.At(9, 20))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, color.RGBAModel.Convert(frames[1].Image.At(9, 20)))
}

func TestStepSkipsFailedCapture(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()
	r := New(fakeShots{err: errors.New("target closed")}, logger)

	r.Step("shipping_city", nil)

	assert.Empty(t, r.Frames())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "shipping_city", hook.LastEntry().Data["step"])
}

func TestEncode(t *testing.T) {
	t.Parallel()

	logger, _ := test.NewNullLogger()
	r := New(fakeShots{width: 400, height: 200}, logger)
	for _, step := range []string{"shipping_first_name", "shipping_last_name", "shipping_city"} {
		r.Step(step, nil)
	}

	var buf bytes.Buffer
	require.NoError(t, r.Encode(&buf, Options{FrameDelay: 500 * time.Millisecond, MaxWidth: 100}))

	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, g.Image, 3)
	assert.Equal(t, []int{50, 50, 50}, g.Delay)
	assert.Equal(t, 100, g.Image[0].Bounds().Dx())
	assert.Equal(t, 50, g.Image[0].Bounds().Dy())
}

func TestEncodeNeverUpscales(t *testing.T) {
	t.Parallel()

	logger, _ := test.NewNullLogger()
	r := New(fakeShots{width: 40, height: 20}, logger)
	r.Step("next_step", nil)

	var buf bytes.Buffer
	require.NoError(t, r.Encode(&buf, Options{}))

	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Equal(t, 40, g.Image[0].Bounds().Dx())
	assert.Equal(t, []int{100}, g.Delay)
}

func TestEncodeWithoutFrames(t *testing.T) {
	t.Parallel()

	logger, _ := test.NewNullLogger()
	r := New(fakeShots{}, logger)

	require.ErrorIs(t, r.Encode(&bytes.Buffer{}, Options{}), ErrNoFrames)

	path := filepath.Join(t.TempDir(), "empty.gif")
	size, err := r.Save(path, Options{})
	require.ErrorIs(t, err, ErrNoFrames)
	assert.Zero(t, size)
	assert.NoFileExists(t, path)
}

func TestSave(t *testing.T) {
	t.Parallel()

	logger, _ := test.NewNullLogger()
	r := New(fakeShots{width: 64, height: 32}, logger)
	r.Step("shipping_city", nil)

	path := filepath.Join(t.TempDir(), "run.gif")
	size, err := r.Save(path, Options{})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), size)
	assert.Positive(t, size)
}
