package publish

import (
	"encoding/binary"
	"math/rand"
	"sync"

	"github.com/pion/rtp"
	"github.com/sirupsen/logrus"

	"github.com/jbmag/rviz-camera-stream/metrics"
)

const (
	// defaultMTU bounds the RTP payload size per packet.
	defaultMTU = 1200

	// rtpClockRate is the 90 kHz video RTP clock.
	rtpClockRate = 90000

	// frameHeaderSize is the fixed descriptor prepended to each frame's
	// payload: width, height, step and data length as big-endian uint32.
	frameHeaderSize = 16
)

// PacketWriter carries packetized frames to the network. A UDP
// connection wrapped in a small adapter satisfies this in production;
// tests capture packets in memory.
type PacketWriter interface {
	WritePacket(pkt *rtp.Packet) error
}

// RTPSink packetizes published frames into RTP. Each frame becomes a
// run of packets sharing one timestamp, with the marker bit set on the
// final packet. Write errors are counted and dropped, never propagated
// to the render thread.
type RTPSink struct {
	writer PacketWriter
	mets   *metrics.Metrics

	mu          sync.Mutex
	ssrc        uint32
	payloadType uint8
	mtu         int
	seq         uint16
}

// RTPSinkOption configures an RTPSink.
type RTPSinkOption func(*RTPSink)

// WithMTU overrides the per-packet payload bound.
func WithMTU(mtu int) RTPSinkOption {
	return func(s *RTPSink) {
		if mtu > frameHeaderSize {
			s.mtu = mtu
		}
	}
}

// WithPayloadType overrides the dynamic payload type.
func WithPayloadType(pt uint8) RTPSinkOption {
	return func(s *RTPSink) { s.payloadType = pt }
}

// NewRTPSink creates a sink writing to the given packet writer with a
// random SSRC.
func NewRTPSink(writer PacketWriter, mets *metrics.Metrics, opts ...RTPSinkOption) (*RTPSink, error) {
	if writer == nil {
		return nil, ErrNilPacketWriter
	}

	s := &RTPSink{
		writer:      writer,
		mets:        mets,
		ssrc:        rand.Uint32(),
		payloadType: 96,
		mtu:         defaultMTU,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SSRC returns the sink's stream source identifier.
func (s *RTPSink) SSRC() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ssrc
}

// Send implements FrameSink. The frame data is prefixed with a fixed
// dimension descriptor and chunked into MTU-bounded packets.
func (s *RTPSink) Send(frame *VideoFrame) error {
	payload := make([]byte, frameHeaderSize+len(frame.Data))
	binary.BigEndian.PutUint32(payload[0:4], uint32(frame.Width))
	binary.BigEndian.PutUint32(payload[4:8], uint32(frame.Height))
	binary.BigEndian.PutUint32(payload[8:12], uint32(frame.Step))
	binary.BigEndian.PutUint32(payload[12:16], uint32(len(frame.Data)))
	copy(payload[frameHeaderSize:], frame.Data)

	// 90 kHz timestamp derived from the capture stamp so receivers can
	// reconstruct frame pacing.
	timestamp := uint32(frame.Stamp.UnixNano() / 1000 * (rtpClockRate / 1000) / 1000)

	s.mu.Lock()
	defer s.mu.Unlock()

	for offset := 0; offset < len(payload); offset += s.mtu {
		end := offset + s.mtu
		if end > len(payload) {
			end = len(payload)
		}

		s.seq++
		pkt := &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				PayloadType:    s.payloadType,
				SequenceNumber: s.seq,
				Timestamp:      timestamp,
				SSRC:           s.ssrc,
				Marker:         end == len(payload),
			},
			Payload: payload[offset:end],
		}

		if err := s.writer.WritePacket(pkt); err != nil {
			s.mets.IncSinkErrors()
			logrus.WithFields(logrus.Fields{
				"function": "RTPSink.Send",
				"seq":      pkt.SequenceNumber,
				"error":    err,
			}).Warn("Dropping RTP packet after write error")
			return nil
		}
	}
	return nil
}
