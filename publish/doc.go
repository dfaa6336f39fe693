// Package publish captures the rendered color buffer after each render
// pass and re-emits it as a video stream.
//
// The pipeline:
//
//	render pass completes → ReadPixels → VideoFrame message → FrameSink
//
// Publishing is fire-and-forget: the render thread is never blocked by
// a slow consumer. The channel sink drops frames when the consumer
// lags; the RTP sink counts and swallows write errors.
package publish
