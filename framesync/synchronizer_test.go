package framesync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbmag/rviz-camera-stream/caminfo"
	"github.com/jbmag/rviz-camera-stream/stream"
)

// fixedTime is a TimeProvider pinned to a single instant.
type fixedTime struct{ at time.Time }

func (f fixedTime) Now() time.Time { return f.at }

func newTestSynchronizer(t *testing.T, mode SyncMode, now time.Time) *Synchronizer {
	t.Helper()
	s, err := NewSynchronizer(&StaticTransformService{
		Pose: caminfo.IdentityPose(),
		Mode: mode,
		Time: fixedTime{at: now},
	})
	require.NoError(t, err)
	return s
}

func TestNewSynchronizer_NilService(t *testing.T) {
	s, err := NewSynchronizer(nil)
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestSynchronizer_SnapshotConsumesFlags(t *testing.T) {
	s := newTestSynchronizer(t, SyncApprox, time.Unix(10, 0))

	// Nothing received yet: no resolve due.
	info, img, due := s.Snapshot()
	assert.Nil(t, info)
	assert.Nil(t, img)
	assert.False(t, due)

	ci := &caminfo.CameraInfo{Width: 640, Height: 480}
	s.PutCameraInfo(ci)

	info, img, due = s.Snapshot()
	assert.Same(t, ci, info)
	assert.Nil(t, img)
	assert.True(t, due)

	// Flag consumed; same data, no new resolve due.
	info, _, due = s.Snapshot()
	assert.Same(t, ci, info)
	assert.False(t, due)
}

func TestSynchronizer_ImageTriggersResolve(t *testing.T) {
	s := newTestSynchronizer(t, SyncApprox, time.Unix(10, 0))

	img := &stream.Image{Width: 640, Height: 480, Encoding: stream.EncodingRGB8}
	s.PutImage(img)

	_, got, due := s.Snapshot()
	assert.Same(t, img, got)
	assert.True(t, due)
}

func TestSynchronizer_ForceRender(t *testing.T) {
	s := newTestSynchronizer(t, SyncApprox, time.Unix(10, 0))

	_, _, due := s.Snapshot()
	require.False(t, due)

	s.ForceRender()
	_, _, due = s.Snapshot()
	assert.True(t, due)
	_, _, due = s.Snapshot()
	assert.False(t, due)
}

func TestSynchronizer_Clear(t *testing.T) {
	s := newTestSynchronizer(t, SyncApprox, time.Unix(10, 0))
	s.PutCameraInfo(&caminfo.CameraInfo{})
	s.PutImage(&stream.Image{})

	s.Clear()

	info, img, due := s.Snapshot()
	assert.Nil(t, info)
	assert.Nil(t, img)
	assert.False(t, due)
}

func TestSynchronizer_CheckSync(t *testing.T) {
	now := time.Unix(100, 500)

	tests := []struct {
		name    string
		mode    SyncMode
		stamp   time.Time
		wantErr bool
	}{
		{name: "approx mode always passes", mode: SyncApprox, stamp: time.Unix(42, 0)},
		{name: "exact mode matching stamp", mode: SyncExact, stamp: now},
		{name: "exact mode mismatched stamp", mode: SyncExact, stamp: now.Add(time.Millisecond), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSynchronizer(t, tt.mode, now)
			err := s.CheckSync(tt.stamp)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSyncMismatch)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStaticTransformService_Lookup(t *testing.T) {
	svc := &StaticTransformService{Pose: caminfo.IdentityPose()}
	stamp := time.Unix(7, 0)

	pose, err := svc.Lookup("camera_optical", stamp)
	require.NoError(t, err)
	assert.Equal(t, "camera_optical", pose.FrameID)
	assert.Equal(t, stamp, pose.Stamp)
}

func TestSyncMode_String(t *testing.T) {
	assert.Equal(t, "approximate", SyncApprox.String())
	assert.Equal(t, "exact", SyncExact.String())
	assert.Equal(t, "unknown", SyncMode(99).String())
}
