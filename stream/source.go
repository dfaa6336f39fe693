package stream

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/jbmag/rviz-camera-stream/caminfo"
)

// ImageHandler consumes decoded images delivered by an ImageSource.
type ImageHandler func(*Image)

// CameraInfoHandler consumes camera info messages.
type CameraInfoHandler func(*caminfo.CameraInfo)

// Subscription is a handle on an active subscription.
type Subscription interface {
	// Unsubscribe stops delivery. Safe to call more than once.
	Unsubscribe()
}

// ImageSource delivers decoded images asynchronously with a bounded
// per-subscriber queue.
type ImageSource interface {
	SubscribeImages(queueDepth int, h ImageHandler) (Subscription, error)
}

// CameraInfoSource delivers camera info messages asynchronously.
type CameraInfoSource interface {
	SubscribeCameraInfo(queueDepth int, h CameraInfoHandler) (Subscription, error)
}

// fanout is the shared delivery core: per-subscriber buffered channels,
// oldest-dropped-on-overflow, one dispatch goroutine per subscription.
// Publishing never blocks the producer.
type fanout[T any] struct {
	mu      sync.Mutex
	subs    map[int]*fanoutSub[T]
	nextID  int
	closed  bool
	dropped atomic.Uint64
}

type fanoutSub[T any] struct {
	owner *fanout[T]
	id    int
	ch    chan T
	done  chan struct{}
	once  sync.Once
}

func newFanout[T any]() *fanout[T] {
	return &fanout[T]{subs: make(map[int]*fanoutSub[T])}
}

func (f *fanout[T]) subscribe(depth int, h func(T)) (Subscription, error) {
	if depth < 1 {
		depth = 1
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrSourceClosed
	}

	sub := &fanoutSub[T]{
		owner: f,
		id:    f.nextID,
		ch:    make(chan T, depth),
		done:  make(chan struct{}),
	}
	f.nextID++
	f.subs[sub.id] = sub

	go sub.dispatch(h)
	return sub, nil
}

func (f *fanout[T]) publish(msg T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		select {
		case sub.ch <- msg:
		default:
			// Queue full: drop the oldest entry to make room.
			select {
			case <-sub.ch:
				f.dropped.Add(1)
			default:
			}
			select {
			case sub.ch <- msg:
			default:
				f.dropped.Add(1)
			}
		}
	}
}

func (f *fanout[T]) close() {
	f.mu.Lock()
	subs := make([]*fanoutSub[T], 0, len(f.subs))
	for _, sub := range f.subs {
		subs = append(subs, sub)
	}
	f.closed = true
	f.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (s *fanoutSub[T]) dispatch(h func(T)) {
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.ch:
			h(msg)
		}
	}
}

// Unsubscribe stops delivery. Safe to call more than once.
func (s *fanoutSub[T]) Unsubscribe() {
	s.once.Do(func() {
		close(s.done)
		s.owner.mu.Lock()
		delete(s.owner.subs, s.id)
		s.owner.mu.Unlock()
	})
}

// ChannelImageSource is an in-process ImageSource backed by bounded
// channels. Production deployments adapt their transport to the
// ImageSource interface instead.
type ChannelImageSource struct {
	core *fanout[*Image]
}

// NewChannelImageSource creates an empty in-process image source.
func NewChannelImageSource() *ChannelImageSource {
	return &ChannelImageSource{core: newFanout[*Image]()}
}

// SubscribeImages registers a handler with the given queue depth.
func (s *ChannelImageSource) SubscribeImages(queueDepth int, h ImageHandler) (Subscription, error) {
	return s.core.subscribe(queueDepth, func(img *Image) { h(img) })
}

// Publish delivers an image to all subscribers without blocking.
func (s *ChannelImageSource) Publish(img *Image) {
	s.core.publish(img)
}

// Dropped returns the number of messages discarded due to full queues.
func (s *ChannelImageSource) Dropped() uint64 {
	return s.core.dropped.Load()
}

// Close shuts the source down and cancels all subscriptions.
func (s *ChannelImageSource) Close() {
	logrus.WithFields(logrus.Fields{
		"function": "ChannelImageSource.Close",
		"dropped":  s.Dropped(),
	}).Debug("Closing image source")
	s.core.close()
}

// ChannelCameraInfoSource is an in-process CameraInfoSource backed by
// bounded channels.
type ChannelCameraInfoSource struct {
	core *fanout[*caminfo.CameraInfo]
}

// NewChannelCameraInfoSource creates an empty in-process camera info source.
func NewChannelCameraInfoSource() *ChannelCameraInfoSource {
	return &ChannelCameraInfoSource{core: newFanout[*caminfo.CameraInfo]()}
}

// SubscribeCameraInfo registers a handler with the given queue depth.
func (s *ChannelCameraInfoSource) SubscribeCameraInfo(queueDepth int, h CameraInfoHandler) (Subscription, error) {
	return s.core.subscribe(queueDepth, func(ci *caminfo.CameraInfo) { h(ci) })
}

// Publish delivers a camera info message to all subscribers without
// blocking.
func (s *ChannelCameraInfoSource) Publish(ci *caminfo.CameraInfo) {
	s.core.publish(ci)
}

// Dropped returns the number of messages discarded due to full queues.
func (s *ChannelCameraInfoSource) Dropped() uint64 {
	return s.core.dropped.Load()
}

// Close shuts the source down and cancels all subscriptions.
func (s *ChannelCameraInfoSource) Close() {
	s.core.close()
}
