package framesync

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jbmag/rviz-camera-stream/caminfo"
	"github.com/jbmag/rviz-camera-stream/stream"
)

// Synchronizer holds the latest camera info and decoded image delivered
// by the transport callbacks, and tells the render thread when a
// re-resolve is due.
//
// Sharing model: values are shared between producer and consumer with a
// lifetime of "until replaced"; neither side mutates a message after it
// has been handed over. The render thread only ever snapshot-copies the
// pointers under the lock.
type Synchronizer struct {
	service TransformService

	mu      sync.Mutex
	info    *caminfo.CameraInfo
	image   *stream.Image
	newData bool
	force   bool
}

// NewSynchronizer creates a synchronizer bound to a transform service.
func NewSynchronizer(service TransformService) (*Synchronizer, error) {
	if service == nil {
		return nil, fmt.Errorf("transform service cannot be nil")
	}
	return &Synchronizer{service: service}, nil
}

// PutCameraInfo swaps in a newly received camera info. Called from the
// transport delivery goroutine, concurrently with the render thread.
func (s *Synchronizer) PutCameraInfo(info *caminfo.CameraInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
	s.newData = true
}

// PutImage swaps in a newly decoded image.
func (s *Synchronizer) PutImage(img *stream.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = img
	s.newData = true
}

// ForceRender marks a re-resolve as pending regardless of new input,
// typically after a configuration change.
func (s *Synchronizer) ForceRender() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.force = true
}

// Snapshot returns the current camera info and image, and whether a
// resolve attempt is due this tick. The pending flags are consumed.
// The lock is held only for the pointer copy.
func (s *Synchronizer) Snapshot() (*caminfo.CameraInfo, *stream.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := s.newData || s.force
	s.newData = false
	s.force = false
	return s.info, s.image, due
}

// Clear drops the cached camera info and image, forcing the next inputs
// to repopulate from scratch.
func (s *Synchronizer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = nil
	s.image = nil
	s.newData = false
}

// CheckSync enforces the active synchronization policy for an image
// timestamp. In approximate mode it always passes. In exact mode it
// returns an error wrapping ErrSyncMismatch unless the service time
// equals the image stamp exactly.
func (s *Synchronizer) CheckSync(imageStamp time.Time) error {
	if s.service.SyncMode() != SyncExact {
		return nil
	}

	now := s.service.Now()
	if now.Equal(imageStamp) {
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"function":     "Synchronizer.CheckSync",
		"service_time": now,
		"image_stamp":  imageStamp,
	}).Debug("Exact sync mismatch, skipping frame")

	return fmt.Errorf("%w %v", ErrSyncMismatch, now)
}

// Lookup resolves the pose for an image header through the bound
// transform service.
func (s *Synchronizer) Lookup(frameID string, stamp time.Time) (caminfo.Pose, error) {
	return s.service.Lookup(frameID, stamp)
}
