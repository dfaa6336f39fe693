// Package caminfo models pinhole camera intrinsics and timestamped poses,
// and resolves them into the off-axis projection used by the virtual
// render camera.
//
// The resolve pipeline:
//
//	CameraInfo + Pose → validation → aspect zoom → baseline shift → off-axis matrix
//
// The projection is built cell-by-cell from the 3x4 P matrix rather than
// from a field-of-view angle, because a principal point away from the
// image center produces an off-center frustum that FOV+aspect cameras
// cannot express. The resulting matrix is meant to be injected verbatim
// into the renderer.
package caminfo
