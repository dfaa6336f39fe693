// Package framesync correlates asynchronously delivered camera info and
// image frames with the pose-lookup service, and decides when the
// virtual camera must be re-resolved.
//
// A single mutex guards the latest camera info, the latest image and a
// pending force-render flag. Producers swap new values in from transport
// callbacks; the render thread takes a snapshot copy each tick and never
// holds the lock while rendering or decoding.
//
// Two synchronization policies are supported: approximate (render
// whenever either input updates) and exact (render only when the
// service time equals the image timestamp).
package framesync
