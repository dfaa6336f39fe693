package publish

import (
	"github.com/sirupsen/logrus"

	"github.com/jbmag/rviz-camera-stream/metrics"
)

// ChannelSink is an in-process FrameSink over a buffered channel. When
// the consumer lags and the buffer is full, the frame is dropped and
// counted; Send never blocks.
type ChannelSink struct {
	ch   chan *VideoFrame
	mets *metrics.Metrics
}

// NewChannelSink creates a sink with the given buffer depth (minimum 1).
func NewChannelSink(depth int, mets *metrics.Metrics) *ChannelSink {
	if depth < 1 {
		depth = 1
	}
	return &ChannelSink{
		ch:   make(chan *VideoFrame, depth),
		mets: mets,
	}
}

// Send implements FrameSink.
func (s *ChannelSink) Send(frame *VideoFrame) error {
	select {
	case s.ch <- frame:
		return nil
	default:
		s.mets.IncSinkDropped()
		logrus.WithFields(logrus.Fields{
			"function": "ChannelSink.Send",
			"seq":      frame.Seq,
		}).Debug("Consumer lagging, dropping frame")
		return nil
	}
}

// Frames returns the consumer side of the sink.
func (s *ChannelSink) Frames() <-chan *VideoFrame {
	return s.ch
}
