// Package camerastream renders a simulated view of a 3D scene through a
// virtual camera matched to a live physical camera, and republishes the
// rendered frames as a video stream.
//
// The pipeline, frame by frame:
//
//	CameraInfo + Image (async) → Frame Synchronizer → Intrinsics/Pose Resolver
//	    → off-axis projection on the render window's camera
//	    → render pass with background/overlay bracketing
//	    → pixel read-back → VideoFrame → output sink
//
// The component is host-agnostic: the rendering backend, the pose
// service, the input sources and the output sink are all injected
// interfaces. No failure in this package is fatal to the host process;
// every error degrades to a skipped frame plus a status entry on one of
// the "Camera Info", "Image" or "Time" channels.
package camerastream
