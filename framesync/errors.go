package framesync

import "errors"

// Sentinel errors for synchronization decisions.
var (
	// ErrTransformUnavailable indicates the pose service cannot resolve
	// the requested frame at the requested time yet. Transient during
	// startup; callers retry next tick.
	ErrTransformUnavailable = errors.New("transform not available")

	// ErrSyncMismatch indicates exact-sync mode is active and no image
	// exists at the current service timestamp. The frame is skipped.
	ErrSyncMismatch = errors.New("time-syncing active and no image at timestamp")
)
