package publish

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/pion/rtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryWriter captures packets written by the sink.
type memoryWriter struct {
	packets []*rtp.Packet
	err     error
}

func (w *memoryWriter) WritePacket(pkt *rtp.Packet) error {
	if w.err != nil {
		return w.err
	}
	w.packets = append(w.packets, pkt)
	return nil
}

func testFrame(size int) *VideoFrame {
	return &VideoFrame{
		Seq:      1,
		Stamp:    time.Unix(100, 0),
		Width:    size / 3,
		Height:   1,
		Step:     size,
		Encoding: EncodingRGB8,
		Data:     make([]byte, size),
	}
}

func TestNewRTPSink_NilWriter(t *testing.T) {
	s, err := NewRTPSink(nil, nil)
	assert.ErrorIs(t, err, ErrNilPacketWriter)
	assert.Nil(t, s)
}

func TestRTPSink_SingleFrameChunking(t *testing.T) {
	w := &memoryWriter{}
	s, err := NewRTPSink(w, nil, WithMTU(100))
	require.NoError(t, err)

	require.NoError(t, s.Send(testFrame(250)))

	// 16 header bytes + 250 payload bytes at 100 bytes per packet.
	require.Len(t, w.packets, 3)

	total := 0
	for i, pkt := range w.packets {
		assert.Equal(t, uint8(2), pkt.Header.Version)
		assert.Equal(t, uint8(96), pkt.Header.PayloadType)
		assert.Equal(t, s.SSRC(), pkt.Header.SSRC)
		assert.Equal(t, pkt.Header.Marker, i == len(w.packets)-1)
		total += len(pkt.Payload)
	}
	assert.Equal(t, frameHeaderSize+250, total)

	// All packets of a frame share one timestamp.
	assert.Equal(t, w.packets[0].Header.Timestamp, w.packets[1].Header.Timestamp)
	assert.Equal(t, w.packets[0].Header.Timestamp, w.packets[2].Header.Timestamp)

	// Descriptor carries the frame geometry.
	hdr := w.packets[0].Payload
	assert.Equal(t, uint32(250/3), binary.BigEndian.Uint32(hdr[0:4]))
	assert.Equal(t, uint32(1), binary.BigEndian.Uint32(hdr[4:8]))
	assert.Equal(t, uint32(250), binary.BigEndian.Uint32(hdr[8:12]))
	assert.Equal(t, uint32(250), binary.BigEndian.Uint32(hdr[12:16]))
}

func TestRTPSink_SequenceNumbersIncrement(t *testing.T) {
	w := &memoryWriter{}
	s, err := NewRTPSink(w, nil, WithMTU(64))
	require.NoError(t, err)

	require.NoError(t, s.Send(testFrame(120)))
	require.NoError(t, s.Send(testFrame(120)))

	require.Greater(t, len(w.packets), 2)
	for i := 1; i < len(w.packets); i++ {
		assert.Equal(t, w.packets[i-1].Header.SequenceNumber+1, w.packets[i].Header.SequenceNumber)
	}
}

func TestRTPSink_TimestampAdvancesBetweenFrames(t *testing.T) {
	w := &memoryWriter{}
	s, err := NewRTPSink(w, nil)
	require.NoError(t, err)

	f1 := testFrame(30)
	f1.Stamp = time.Unix(100, 0)
	f2 := testFrame(30)
	f2.Stamp = time.Unix(101, 0)

	require.NoError(t, s.Send(f1))
	require.NoError(t, s.Send(f2))

	require.Len(t, w.packets, 2)
	// One second apart on a 90 kHz clock.
	assert.Equal(t, uint32(rtpClockRate), w.packets[1].Header.Timestamp-w.packets[0].Header.Timestamp)
}

func TestRTPSink_WriteErrorSwallowed(t *testing.T) {
	w := &memoryWriter{err: assert.AnError}
	s, err := NewRTPSink(w, nil)
	require.NoError(t, err)

	assert.NoError(t, s.Send(testFrame(30)))
}

func TestRTPSink_PayloadType(t *testing.T) {
	w := &memoryWriter{}
	s, err := NewRTPSink(w, nil, WithPayloadType(110))
	require.NoError(t, err)

	require.NoError(t, s.Send(testFrame(30)))
	require.Len(t, w.packets, 1)
	assert.Equal(t, uint8(110), w.packets[0].Header.PayloadType)
}
