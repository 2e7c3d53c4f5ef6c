// Package recorder captures a frame after each page step so a failed scenario can be replayed as a GIF.
package recorder

import (
	"bytes"
	"image"
	_ "image/png"

	"github.com/sirupsen/logrus"
	"github.com/v0xg/checkoutpage/internal/browser"
	"github.com/v0xg/checkoutpage/internal/overlay"
)

// Screenshotter captures the current viewport as an encoded image
type Screenshotter interface {
	Screenshot() ([]byte, error)
}

// boxer is implemented by elements that know where they are rendered
type boxer interface {
	Box() (image.Rectangle, error)
}

// Frame is one captured step
type Frame struct {
	Step  string
	Image image.Image
}

// Recorder collects frames; it implements checkout.StepObserver
type Recorder struct {
	shots  Screenshotter
	logger logrus.FieldLogger
	frames []Frame
}

// New creates a Recorder taking screenshots from shots
func New(shots Screenshotter, logger logrus.FieldLogger) *Recorder {
	return &Recorder{shots: shots, logger: logger.WithField("component", "recorder")}
}

// Step captures the page, outlining el when its position is known.
// Capture failures are logged and skipped; they never fail the step itself.
func (r *Recorder) Step(name string, el browser.Element) {
	data, err := r.shots.Screenshot()
	if err != nil {
		r.logger.WithError(err).WithField("step", name).Warn("Failed to capture frame")
		return
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		r.logger.WithError(err).WithField("step", name).Warn("Failed to decode frame")
		return
	}

	if b, ok := el.(boxer); ok {
		if box, err := b.Box(); err == nil {
			img = overlay.Highlight(img, box)
		}
	}

	r.frames = append(r.frames, Frame{Step: name, Image: img})
	r.logger.WithField("step", name).Debugf("Captured frame %d", len(r.frames))
}

// Frames returns the frames captured so far
func (r *Recorder) Frames() []Frame {
	return r.frames
}
