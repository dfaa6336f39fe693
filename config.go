package camerastream

import (
	"fmt"

	"github.com/jbmag/rviz-camera-stream/render"
)

// Config is the component's configuration surface.
type Config struct {
	// RenderMode selects where the camera image is drawn relative to
	// the scene.
	RenderMode render.RenderMode

	// QueueSize bounds the input delivery queues. Minimum 1.
	QueueSize int

	// FixedFrame is the reference frame all poses resolve against.
	FixedFrame string

	// ImageTopic names the input image stream, for status messages.
	ImageTopic string

	// OutputTopic names the published video stream.
	OutputTopic string

	// WindowWidth and WindowHeight are the initial render window size.
	WindowWidth  int
	WindowHeight int
}

// DefaultConfig returns the standard configuration: both surfaces, a
// one-deep queue, VGA window, output on "rviz_out".
func DefaultConfig() Config {
	return Config{
		RenderMode:   render.ModeBoth,
		QueueSize:    1,
		FixedFrame:   "map",
		ImageTopic:   "image_raw",
		OutputTopic:  "rviz_out",
		WindowWidth:  640,
		WindowHeight: 480,
	}
}

// Validate checks the configuration for usability.
func (c Config) Validate() error {
	if c.QueueSize < 1 {
		return fmt.Errorf("queue size must be at least 1, got %d", c.QueueSize)
	}
	if c.FixedFrame == "" {
		return fmt.Errorf("fixed frame cannot be empty")
	}
	if c.OutputTopic == "" {
		return fmt.Errorf("output topic cannot be empty")
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.WindowWidth, c.WindowHeight)
	}
	switch c.RenderMode {
	case render.ModeBackground, render.ModeOverlay, render.ModeBoth:
	default:
		return fmt.Errorf("invalid render mode %d", c.RenderMode)
	}
	return nil
}
