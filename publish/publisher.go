package publish

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jbmag/rviz-camera-stream/metrics"
	"github.com/jbmag/rviz-camera-stream/render"
)

// captureMargin over-allocates the capture buffer to tolerate a window
// resize happening between the size query and the pixel read-back. This
// is a best-effort mitigation of an accepted race, not a guarantee.
const captureMargin = 105 // percent

// VideoPublisher captures a render window's color buffer and emits it
// on a FrameSink as a sequence of VideoFrame messages.
type VideoPublisher struct {
	sink FrameSink

	// stampFunc provides capture timestamps; nil means time.Now.
	stampFunc func() time.Time

	mets *metrics.Metrics

	mu       sync.Mutex
	topic    string
	streamID uuid.UUID
	seq      uint64
}

// NewVideoPublisher creates an unadvertised publisher on the given sink.
func NewVideoPublisher(sink FrameSink, mets *metrics.Metrics) (*VideoPublisher, error) {
	if sink == nil {
		return nil, errors.New("frame sink cannot be nil")
	}
	return &VideoPublisher{sink: sink, mets: mets}, nil
}

// SetStampFunc overrides the capture timestamp source for deterministic
// testing. A nil fn restores the wall clock.
func (p *VideoPublisher) SetStampFunc(fn func() time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stampFunc = fn
}

// Advertise activates the output stream under the given topic name and
// assigns a fresh stream id.
func (p *VideoPublisher) Advertise(topic string) error {
	if topic == "" {
		return ErrNoTopic
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.streamID = uuid.New()

	logrus.WithFields(logrus.Fields{
		"function":  "VideoPublisher.Advertise",
		"topic":     topic,
		"stream_id": p.streamID.String(),
	}).Info("Video output stream advertised")
	return nil
}

// Topic returns the active topic name, or "" when not advertised.
func (p *VideoPublisher) Topic() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.topic
}

// StreamID returns the id assigned at the last Advertise.
func (p *VideoPublisher) StreamID() uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.streamID
}

// Shutdown deactivates the stream. Subsequent PublishFrame calls are
// no-ops until the next Advertise.
func (p *VideoPublisher) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic == "" {
		return
	}
	logrus.WithFields(logrus.Fields{
		"function":  "VideoPublisher.Shutdown",
		"topic":     p.topic,
		"published": p.seq,
	}).Info("Video output stream shut down")
	p.topic = ""
}

// PublishFrame captures the window's rendered color buffer and sends it
// as one frame. With no active topic this is a no-op and performs no
// allocation. The sink call is fire-and-forget: errors are counted and
// logged, never returned to the render thread's caller.
func (p *VideoPublisher) PublishFrame(win render.Window) error {
	p.mu.Lock()
	if p.topic == "" {
		p.mu.Unlock()
		return nil
	}
	stamp := p.stampFunc
	p.mu.Unlock()

	width := win.Width()
	height := win.Height()
	pixelSize := win.BytesPerPixel()
	dataSize := width * height * pixelSize

	// Over-allocate so a concurrent resize between the size query above
	// and the read-back below cannot overrun the buffer.
	buf := make([]byte, dataSize*captureMargin/100)
	if _, err := win.ReadPixels(buf); err != nil {
		p.mets.IncSinkErrors()
		return errors.Wrap(err, "reading back rendered pixels")
	}

	now := time.Now
	if stamp != nil {
		now = stamp
	}

	p.mu.Lock()
	p.seq++
	frame := &VideoFrame{
		Seq:    p.seq,
		Stamp:  now(),
		Width:  width,
		Height: height,
		Step:   width * pixelSize,
		// The stream encoding is fixed to rgb8; if the window's actual
		// pixel format ever differs this silently publishes wrong data.
		Encoding: EncodingRGB8,
		Data:     buf[:dataSize],
	}
	p.mu.Unlock()

	if err := p.sink.Send(frame); err != nil {
		p.mets.IncSinkErrors()
		logrus.WithFields(logrus.Fields{
			"function": "VideoPublisher.PublishFrame",
			"seq":      frame.Seq,
			"error":    err,
		}).Warn("Frame sink rejected frame")
		return nil
	}

	p.mets.IncPublished()
	return nil
}
