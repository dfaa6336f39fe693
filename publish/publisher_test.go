package publish

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbmag/rviz-camera-stream/render"
)

// recordingSink captures every frame handed to it.
type recordingSink struct {
	frames []*VideoFrame
	err    error
}

func (s *recordingSink) Send(frame *VideoFrame) error {
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, frame)
	return nil
}

func newTestWindow(t *testing.T) *render.FakeWindow {
	t.Helper()
	backend := render.NewFakeBackend()
	win, err := backend.CreateWindow(64, 48)
	require.NoError(t, err)
	return win.(*render.FakeWindow)
}

func TestNewVideoPublisher_NilSink(t *testing.T) {
	p, err := NewVideoPublisher(nil, nil)
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestVideoPublisher_Advertise(t *testing.T) {
	sink := &recordingSink{}
	p, err := NewVideoPublisher(sink, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, p.Advertise(""), ErrNoTopic)
	require.NoError(t, p.Advertise("rviz_out"))
	assert.Equal(t, "rviz_out", p.Topic())
	assert.NotZero(t, p.StreamID())
}

func TestVideoPublisher_NoTopicIsNoOp(t *testing.T) {
	sink := &recordingSink{}
	p, err := NewVideoPublisher(sink, nil)
	require.NoError(t, err)

	require.NoError(t, p.PublishFrame(newTestWindow(t)))
	assert.Empty(t, sink.frames)
}

func TestVideoPublisher_PublishFrame(t *testing.T) {
	sink := &recordingSink{}
	p, err := NewVideoPublisher(sink, nil)
	require.NoError(t, err)
	require.NoError(t, p.Advertise("rviz_out"))

	stamp := time.Unix(1234, 5678)
	p.SetStampFunc(func() time.Time { return stamp })

	win := newTestWindow(t)
	win.FillByte = 0xAB
	require.NoError(t, p.PublishFrame(win))

	require.Len(t, sink.frames, 1)
	frame := sink.frames[0]
	assert.Equal(t, uint64(1), frame.Seq)
	assert.Equal(t, stamp, frame.Stamp)
	assert.Equal(t, 64, frame.Width)
	assert.Equal(t, 48, frame.Height)
	assert.Equal(t, 64*3, frame.Step)
	assert.Equal(t, EncodingRGB8, frame.Encoding)
	assert.Len(t, frame.Data, 64*48*3)
	assert.Equal(t, byte(0xAB), frame.Data[0])
	assert.Equal(t, byte(0xAB), frame.Data[len(frame.Data)-1])
}

func TestVideoPublisher_SequenceStrictlyIncreases(t *testing.T) {
	sink := &recordingSink{}
	p, err := NewVideoPublisher(sink, nil)
	require.NoError(t, err)
	require.NoError(t, p.Advertise("rviz_out"))

	win := newTestWindow(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, p.PublishFrame(win))
	}

	require.Len(t, sink.frames, 5)
	for i := 1; i < len(sink.frames); i++ {
		assert.Greater(t, sink.frames[i].Seq, sink.frames[i-1].Seq)
	}
}

func TestVideoPublisher_CaptureSurvivesMidReadResize(t *testing.T) {
	sink := &recordingSink{}
	p, err := NewVideoPublisher(sink, nil)
	require.NoError(t, err)
	require.NoError(t, p.Advertise("rviz_out"))

	win := newTestWindow(t)
	// Grow the window between the size query and the read-back. The 5%
	// margin absorbs the modest growth without overflow.
	win.ResizeDuringRead = func(w *render.FakeWindow) {
		w.Resize(65, 48)
	}

	require.NoError(t, p.PublishFrame(win))
	require.Len(t, sink.frames, 1)

	// The message still carries the pre-resize geometry.
	frame := sink.frames[0]
	assert.Equal(t, 64, frame.Width)
	assert.GreaterOrEqual(t, len(frame.Data), frame.Width*frame.Height*3)
}

func TestVideoPublisher_SinkErrorNotPropagated(t *testing.T) {
	sink := &recordingSink{err: assert.AnError}
	p, err := NewVideoPublisher(sink, nil)
	require.NoError(t, err)
	require.NoError(t, p.Advertise("rviz_out"))

	assert.NoError(t, p.PublishFrame(newTestWindow(t)))
}

func TestVideoPublisher_Shutdown(t *testing.T) {
	sink := &recordingSink{}
	p, err := NewVideoPublisher(sink, nil)
	require.NoError(t, err)
	require.NoError(t, p.Advertise("rviz_out"))

	win := newTestWindow(t)
	require.NoError(t, p.PublishFrame(win))

	p.Shutdown()
	p.Shutdown() // idempotent
	assert.Equal(t, "", p.Topic())

	require.NoError(t, p.PublishFrame(win))
	assert.Len(t, sink.frames, 1)
}
