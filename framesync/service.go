package framesync

import (
	"time"

	"github.com/jbmag/rviz-camera-stream/caminfo"
)

// SyncMode selects the frame synchronization policy.
type SyncMode int

const (
	// SyncApprox renders whenever either input updates.
	SyncApprox SyncMode = iota
	// SyncExact renders only when the service time exactly equals the
	// image timestamp.
	SyncExact
)

// String returns a human-readable mode name.
func (m SyncMode) String() string {
	switch m {
	case SyncApprox:
		return "approximate"
	case SyncExact:
		return "exact"
	default:
		return "unknown"
	}
}

// TransformService resolves sensor frames against the fixed reference
// frame and owns the notion of "current time" for synchronization.
// Lookup failures are transient: they return an error wrapping
// ErrTransformUnavailable and the tick is retried, never escalated.
type TransformService interface {
	// Lookup resolves the pose of frameID relative to the fixed frame
	// at the given timestamp.
	Lookup(frameID string, stamp time.Time) (caminfo.Pose, error)

	// SyncMode returns the active synchronization policy.
	SyncMode() SyncMode

	// Now returns the service's current time.
	Now() time.Time
}

// TimeProvider abstracts time for deterministic testing.
type TimeProvider interface {
	Now() time.Time
}

// DefaultTimeProvider uses the wall clock.
type DefaultTimeProvider struct{}

// Now returns the current wall clock time.
func (DefaultTimeProvider) Now() time.Time { return time.Now() }

// StaticTransformService is a TransformService that reports a fixed pose
// for every frame. Useful for examples and tests where no live transform
// tree exists.
type StaticTransformService struct {
	Pose caminfo.Pose
	Mode SyncMode

	// Time is the time provider; nil means the wall clock.
	Time TimeProvider
}

// Lookup returns the static pose stamped at the requested time.
func (s *StaticTransformService) Lookup(frameID string, stamp time.Time) (caminfo.Pose, error) {
	pose := s.Pose
	pose.FrameID = frameID
	pose.Stamp = stamp
	return pose, nil
}

// SyncMode returns the configured policy.
func (s *StaticTransformService) SyncMode() SyncMode { return s.Mode }

// Now returns the provider time.
func (s *StaticTransformService) Now() time.Time {
	if s.Time == nil {
		return time.Now()
	}
	return s.Time.Now()
}
