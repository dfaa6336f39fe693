package caminfo

import "errors"

// Sentinel errors for camera info resolution.
// These errors enable reliable error classification using errors.Is().
var (
	// ErrMalformedCameraInfo indicates the camera info carries zero
	// dimensions and no fallback image dimensions were available.
	ErrMalformedCameraInfo = errors.New("malformed camera info")

	// ErrInvalidFloats indicates NaN or Inf values in the intrinsics
	// arrays or in a position derived from them.
	ErrInvalidFloats = errors.New("invalid floating point values (nans or infs)")

	// ErrNilCameraInfo indicates a nil camera info was passed to the resolver.
	ErrNilCameraInfo = errors.New("camera info cannot be nil")
)
