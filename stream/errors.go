package stream

import "errors"

// Sentinel errors for input message validation and subscription state.
var (
	// ErrUnsupportedEncoding indicates the image pixel encoding is not
	// one this component can display. Surfaced on the Image status
	// channel; never fatal to the render loop.
	ErrUnsupportedEncoding = errors.New("unsupported image encoding")

	// ErrBadImageDimensions indicates zero or inconsistent image
	// dimensions.
	ErrBadImageDimensions = errors.New("invalid image dimensions")

	// ErrShortImageData indicates the payload is smaller than
	// height*step.
	ErrShortImageData = errors.New("image data shorter than height*step")

	// ErrSourceClosed indicates the source has been shut down.
	ErrSourceClosed = errors.New("source is closed")
)
