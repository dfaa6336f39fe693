package stream

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jbmag/rviz-camera-stream/caminfo"
)

// TransformLookup is the minimal pose-service surface the filter needs.
// Any error means "not resolvable yet"; the message stays pending.
type TransformLookup interface {
	Lookup(frameID string, stamp time.Time) (caminfo.Pose, error)
}

// TransformFilter defers camera info delivery until the pose service can
// resolve the message's coordinate frame at its timestamp. Messages that
// resolve immediately pass straight through; the rest are queued up to
// the configured depth (oldest dropped) and retried on every Drain.
type TransformFilter struct {
	lookup TransformLookup
	out    CameraInfoHandler

	mu      sync.Mutex
	depth   int
	pending []*caminfo.CameraInfo
	dropped uint64
}

// NewTransformFilter creates a filter delivering resolved messages to
// out. The lookup service is assumed to resolve against its own fixed
// reference frame; the filter only gates on per-message resolvability.
func NewTransformFilter(lookup TransformLookup, queueDepth int, out CameraInfoHandler) *TransformFilter {
	if queueDepth < 1 {
		queueDepth = 1
	}
	return &TransformFilter{
		lookup: lookup,
		out:    out,
		depth:  queueDepth,
	}
}

// Handle accepts an incoming camera info message. Resolvable messages
// are delivered synchronously; unresolvable ones are queued.
func (f *TransformFilter) Handle(ci *caminfo.CameraInfo) {
	if _, err := f.lookup.Lookup(ci.FrameID, ci.Stamp); err == nil {
		f.out(ci)
		return
	}

	f.mu.Lock()
	f.pending = append(f.pending, ci)
	if len(f.pending) > f.depth {
		f.pending = f.pending[1:]
		f.dropped++
	}
	f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "TransformFilter.Handle",
		"frame_id": ci.FrameID,
	}).Debug("Transform not yet resolvable, camera info queued")
}

// Drain retries all pending messages, delivering those whose frames have
// become resolvable. Called once per update tick.
func (f *TransformFilter) Drain() {
	f.mu.Lock()
	pending := f.pending
	f.pending = nil
	f.mu.Unlock()

	var still []*caminfo.CameraInfo
	for _, ci := range pending {
		if _, err := f.lookup.Lookup(ci.FrameID, ci.Stamp); err == nil {
			f.out(ci)
		} else {
			still = append(still, ci)
		}
	}

	if len(still) == 0 {
		return
	}
	f.mu.Lock()
	// New arrivals during the retry keep their order after the old ones.
	f.pending = append(still, f.pending...)
	for len(f.pending) > f.depth {
		f.pending = f.pending[1:]
		f.dropped++
	}
	f.mu.Unlock()
}

// SetQueueDepth updates the pending queue bound, trimming oldest
// entries if needed.
func (f *TransformFilter) SetQueueDepth(depth int) {
	if depth < 1 {
		depth = 1
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.depth = depth
	for len(f.pending) > f.depth {
		f.pending = f.pending[1:]
		f.dropped++
	}
}

// Clear discards all pending messages.
func (f *TransformFilter) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = nil
}

// Pending returns the number of queued messages.
func (f *TransformFilter) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Dropped returns the number of messages discarded due to the queue bound.
func (f *TransformFilter) Dropped() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}
