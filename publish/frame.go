package publish

import (
	"errors"
	"time"
)

// EncodingRGB8 is the only encoding frames are ever published with.
const EncodingRGB8 = "rgb8"

// Sentinel errors for the publish side.
var (
	// ErrNoTopic indicates Advertise was called with an empty topic.
	ErrNoTopic = errors.New("output topic cannot be empty")

	// ErrNotAdvertised indicates a publish without an active topic;
	// PublishFrame treats this as a silent no-op instead.
	ErrNotAdvertised = errors.New("publisher has no active topic")

	// ErrNilPacketWriter indicates an RTP sink was built without a
	// packet writer.
	ErrNilPacketWriter = errors.New("packet writer cannot be nil")
)

// VideoFrame is one rendered frame on the output stream. A frame is
// constructed fresh per capture and ownership transfers to the sink on
// Send; neither side mutates it afterwards.
type VideoFrame struct {
	// Seq is a strictly increasing sequence number per publisher.
	Seq uint64

	// Stamp is the capture time.
	Stamp time.Time

	Width  int
	Height int

	// Step is the row stride: Width * bytes-per-pixel.
	Step int

	// Encoding is always EncodingRGB8.
	Encoding string

	// Data is the raw pixel payload, Height*Step bytes.
	Data []byte
}

// FrameSink consumes published frames. Send must not block the render
// thread; implementations drop or buffer internally.
type FrameSink interface {
	Send(frame *VideoFrame) error
}
