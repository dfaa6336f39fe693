package stream

import (
	"fmt"
	"time"
)

// Supported pixel encodings for incoming images.
const (
	EncodingRGB8  = "rgb8"
	EncodingBGR8  = "bgr8"
	EncodingRGBA8 = "rgba8"
	EncodingBGRA8 = "bgra8"
	EncodingMono8 = "mono8"
)

var supportedEncodings = map[string]int{
	EncodingRGB8:  3,
	EncodingBGR8:  3,
	EncodingRGBA8: 4,
	EncodingBGRA8: 4,
	EncodingMono8: 1,
}

// Image is a decoded video frame received from the input transport.
// The payload is height*step bytes of pixel data in the named encoding.
type Image struct {
	Width    int
	Height   int
	Step     int
	Encoding string
	Stamp    time.Time
	FrameID  string
	Data     []byte
}

// Validate checks the image header and payload for consistency.
// Unsupported encodings classify with errors.Is(err,
// ErrUnsupportedEncoding); they are caught locally by the consumer and
// must not crash the render loop.
func (img *Image) Validate() error {
	bpp, ok := supportedEncodings[img.Encoding]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedEncoding, img.Encoding)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadImageDimensions, img.Width, img.Height)
	}
	if img.Step < img.Width*bpp {
		return fmt.Errorf("%w: step %d < width %d * %d bytes", ErrBadImageDimensions, img.Step, img.Width, bpp)
	}
	if len(img.Data) < img.Height*img.Step {
		return fmt.Errorf("%w: got %d, need %d", ErrShortImageData, len(img.Data), img.Height*img.Step)
	}
	return nil
}

// BytesPerPixel returns the pixel size for the image's encoding, or 0
// if the encoding is unsupported.
func (img *Image) BytesPerPixel() int {
	return supportedEncodings[img.Encoding]
}
