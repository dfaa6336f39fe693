// Package stream provides the input side of the camera stream: decoded
// image and camera info delivery with bounded queues, plus a transform
// filter that defers camera info until its coordinate frame is
// resolvable by the pose service.
//
// Sources are interfaces so the component can run against a real
// transport or the in-process channel sources used by tests and
// examples. Delivery never blocks a producer: when a queue is full the
// oldest message is dropped and counted.
package stream
