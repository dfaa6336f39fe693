package camerastream

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jbmag/rviz-camera-stream/caminfo"
	"github.com/jbmag/rviz-camera-stream/framesync"
	"github.com/jbmag/rviz-camera-stream/metrics"
	"github.com/jbmag/rviz-camera-stream/publish"
	"github.com/jbmag/rviz-camera-stream/render"
	"github.com/jbmag/rviz-camera-stream/stream"
)

// Sentinel errors for component lifecycle.
var (
	// ErrNotInitialized indicates a lifecycle call before Initialize.
	ErrNotInitialized = errors.New("component is not initialized")

	// ErrAlreadyInitialized indicates a second Initialize call.
	ErrAlreadyInitialized = errors.New("component is already initialized")
)

// parkedPosition is where the virtual camera goes when there is nothing
// valid to show, far outside any plausible scene.
var parkedPosition = mgl64.Vec3{999999, 999999, 999999}

// CameraStream is the camera view component: it consumes camera info
// and image streams, mirrors the physical camera onto a render window
// and republishes the rendered output.
//
// Lifecycle: Initialize once, then Enable/Disable as the host sees fit,
// with Update driven from the host's render/UI thread. Input delivery
// runs on the sources' goroutines concurrently with Update.
type CameraStream struct {
	backend    render.Backend
	tf         framesync.TransformService
	imgSource  stream.ImageSource
	infoSource stream.CameraInfoSource
	sink       publish.FrameSink
	mets       *metrics.Metrics

	resolver *caminfo.Resolver
	status   *statusMap

	mu          sync.Mutex
	cfg         Config
	initialized bool
	enabled     bool

	win    render.Window
	arena  *render.VisibilityArena
	ctrl   *render.Controller
	pub    *publish.VideoPublisher
	syncr  *framesync.Synchronizer
	filter *stream.TransformFilter

	imgSub  stream.Subscription
	infoSub stream.Subscription
}

// New creates an uninitialized component. mets may be nil.
func New(backend render.Backend, tf framesync.TransformService, imgSource stream.ImageSource, infoSource stream.CameraInfoSource, sink publish.FrameSink, mets *metrics.Metrics, cfg Config) (*CameraStream, error) {
	logrus.WithFields(logrus.Fields{
		"function":     "New",
		"render_mode":  cfg.RenderMode.String(),
		"fixed_frame":  cfg.FixedFrame,
		"output_topic": cfg.OutputTopic,
	}).Info("Creating camera stream component")

	if backend == nil {
		return nil, errors.New("render backend cannot be nil")
	}
	if tf == nil {
		return nil, errors.New("transform service cannot be nil")
	}
	if imgSource == nil || infoSource == nil {
		return nil, errors.New("input sources cannot be nil")
	}
	if sink == nil {
		return nil, errors.New("frame sink cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &CameraStream{
		backend:    backend,
		tf:         tf,
		imgSource:  imgSource,
		infoSource: infoSource,
		sink:       sink,
		mets:       mets,
		resolver:   caminfo.NewResolver(),
		status:     newStatusMap(),
		cfg:        cfg,
	}, nil
}

// Initialize creates the render window, surfaces and publisher. The
// window starts inactive; nothing renders until Enable.
func (c *CameraStream) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return ErrAlreadyInitialized
	}

	win, err := c.backend.CreateWindow(c.cfg.WindowWidth, c.cfg.WindowHeight)
	if err != nil {
		return pkgerrors.Wrap(err, "creating render window")
	}
	win.SetActive(false)
	win.SetClipPlanes(c.resolver.NearPlane(), c.resolver.FarPlane())

	arena := render.NewVisibilityArena()
	ctrl, err := render.NewController(win, arena, c.cfg.RenderMode)
	if err != nil {
		win.Destroy()
		return pkgerrors.Wrap(err, "creating render target controller")
	}

	pub, err := publish.NewVideoPublisher(c.sink, c.mets)
	if err != nil {
		ctrl.Close()
		win.Destroy()
		return pkgerrors.Wrap(err, "creating video publisher")
	}
	ctrl.SetPostPassFunc(func(w render.Window) {
		if err := pub.PublishFrame(w); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "CameraStream.postPass",
				"error":    err,
			}).Warn("Frame capture failed")
		}
	})

	syncr, err := framesync.NewSynchronizer(c.tf)
	if err != nil {
		ctrl.Close()
		win.Destroy()
		return err
	}

	c.win = win
	c.arena = arena
	c.ctrl = ctrl
	c.pub = pub
	c.syncr = syncr
	c.filter = stream.NewTransformFilter(c.tf, c.cfg.QueueSize, syncr.PutCameraInfo)
	c.initialized = true

	c.clearLocked()
	return nil
}

// Enable activates the input subscriptions, advertises the output
// stream and marks the render window active. Subscription failures are
// reported as Error status and leave that subscription inactive until
// the next Enable; they do not abort the rest of the activation.
func (c *CameraStream) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return ErrNotInitialized
	}
	if c.enabled {
		return nil
	}

	sub, err := c.infoSource.SubscribeCameraInfo(c.cfg.QueueSize, c.filter.Handle)
	if err != nil {
		wrapped := pkgerrors.Wrap(err, "subscribing to camera info")
		c.status.set(StatusCameraInfo, LevelError, "Error subscribing: "+wrapped.Error())
		logrus.WithFields(logrus.Fields{
			"function": "CameraStream.Enable",
			"error":    wrapped,
		}).Error("Camera info subscription failed")
	} else {
		c.infoSub = sub
		c.status.set(StatusCameraInfo, LevelOK, "OK")
	}

	imgSub, err := c.imgSource.SubscribeImages(c.cfg.QueueSize, c.handleImage)
	if err != nil {
		wrapped := pkgerrors.Wrap(err, "subscribing to images")
		c.status.set(StatusImage, LevelError, "Error subscribing: "+wrapped.Error())
		logrus.WithFields(logrus.Fields{
			"function": "CameraStream.Enable",
			"error":    wrapped,
		}).Error("Image subscription failed")
	} else {
		c.imgSub = imgSub
	}

	if err := c.pub.Advertise(c.cfg.OutputTopic); err != nil {
		return pkgerrors.Wrap(err, "advertising output stream")
	}

	c.win.SetActive(true)
	c.enabled = true
	return nil
}

// Disable synchronously stops new frame production: the window is
// deactivated before subscriptions are cancelled, so no new render pass
// starts after Disable returns. An in-flight pass may still complete.
func (c *CameraStream) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized || !c.enabled {
		return
	}

	c.win.SetActive(false)
	c.enabled = false

	if c.imgSub != nil {
		c.imgSub.Unsubscribe()
		c.imgSub = nil
	}
	if c.infoSub != nil {
		c.infoSub.Unsubscribe()
		c.infoSub = nil
	}
	c.pub.Shutdown()
	c.clearLocked()
}

// Reset runs the clear path without touching subscriptions.
func (c *CameraStream) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	c.clearLocked()
}

// Close tears the component down: disables it if needed and destroys
// the render window and surfaces.
func (c *CameraStream) Close() {
	c.Disable()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	c.ctrl.Close()
	c.win.Destroy()
	c.status.clear()
	c.initialized = false
}

// clearLocked drops all cached input, parks the camera off-scene and
// arms a re-render. Callers hold c.mu.
func (c *CameraStream) clearLocked() {
	c.syncr.Clear()
	c.filter.Clear()
	c.ctrl.SetCameraValid(false)
	c.syncr.ForceRender()

	c.status.set(StatusCameraInfo, LevelWarn,
		"No CameraInfo received on ["+c.cfg.ImageTopic+"/camera_info]. Topic may not exist.")
	c.status.set(StatusImage, LevelWarn, "No Image received")

	c.win.SetCameraPose(parkedPosition, mgl64.QuatIdent())
}

// handleImage receives decoded images from the image source goroutine.
func (c *CameraStream) handleImage(img *stream.Image) {
	c.syncr.PutImage(img)
}

// ForceRender arms a re-resolve on the next Update, used after any
// configuration change.
func (c *CameraStream) ForceRender() {
	c.syncr.ForceRender()
}

// SetRenderMode switches the image placement and forces a re-render.
func (c *CameraStream) SetRenderMode(mode render.RenderMode) {
	c.mu.Lock()
	c.cfg.RenderMode = mode
	c.mu.Unlock()
	c.ctrl.SetMode(mode)
	c.syncr.ForceRender()
}

// SetQueueSize adjusts the pending transform filter bound. New
// subscriptions pick the value up on the next Enable.
func (c *CameraStream) SetQueueSize(size int) {
	c.mu.Lock()
	c.cfg.QueueSize = size
	c.mu.Unlock()
	c.filter.SetQueueDepth(size)
}

// SetFixedFrame records the new reference frame and forces a re-render.
// The transform service resolves against its own fixed frame, so the
// cached inputs simply get re-resolved on the next tick.
func (c *CameraStream) SetFixedFrame(frame string) {
	c.mu.Lock()
	c.cfg.FixedFrame = frame
	c.mu.Unlock()
	c.syncr.ForceRender()
}

// Status returns the current entry for a category.
func (c *CameraStream) Status(category string) (Status, bool) {
	return c.status.get(category)
}

// Statuses returns a snapshot of all status slots.
func (c *CameraStream) Statuses() map[string]Status {
	return c.status.snapshot()
}

// Update runs one tick on the render thread: retry deferred camera
// info, re-resolve the virtual camera if inputs changed, then drive one
// render pass (which captures and publishes through the pass hook).
// Errors never escalate beyond a skipped frame and a status entry.
func (c *CameraStream) Update(dt time.Duration) error {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return ErrNotInitialized
	}
	enabled := c.enabled
	c.mu.Unlock()

	c.filter.Drain()

	info, img, due := c.syncr.Snapshot()
	if due {
		c.ctrl.SetCameraValid(c.resolveCamera(info, img))
	}

	if !enabled {
		return nil
	}
	return c.win.Update()
}

// resolveCamera applies one resolve attempt: validation, sync policy,
// pose lookup, projection. Returns whether the virtual camera is valid.
// Failure semantics follow the error taxonomy: malformed input is an
// Error, transient unavailability and sync mismatch are Warns, and in
// every case the previous frame stays on screen.
func (c *CameraStream) resolveCamera(info *caminfo.CameraInfo, img *stream.Image) bool {
	if info == nil || img == nil {
		c.mets.IncSkippedNoInput()
		return false
	}

	if err := img.Validate(); err != nil {
		if errors.Is(err, stream.ErrUnsupportedEncoding) {
			c.mets.IncSkippedEncoding()
		} else {
			c.mets.IncSkippedMalformed()
		}
		c.status.set(StatusImage, LevelError, err.Error())
		c.win.SetCameraPose(parkedPosition, mgl64.QuatIdent())
		return false
	}
	c.status.set(StatusImage, LevelOK, "OK")

	if err := c.syncr.CheckSync(img.Stamp); err != nil {
		c.mets.IncSkippedSync()
		c.status.set(StatusTime, LevelWarn, err.Error())
		return false
	}

	pose, err := c.syncr.Lookup(img.FrameID, img.Stamp)
	if err != nil {
		// Expected during startup while the transform tree fills in.
		c.mets.IncSkippedTransform()
		c.status.set(StatusCameraInfo, LevelWarn,
			fmt.Sprintf("No transform from [%s] to fixed frame", img.FrameID))
		return false
	}

	c.mu.Lock()
	vw, vh := c.win.Width(), c.win.Height()
	c.mu.Unlock()

	res, err := c.resolver.Compute(info, pose, vw, vh, img.Width, img.Height)
	if err != nil {
		c.mets.IncSkippedMalformed()
		switch {
		case errors.Is(err, caminfo.ErrMalformedCameraInfo):
			c.status.set(StatusCameraInfo, LevelError,
				"Could not determine width/height of image due to malformed CameraInfo (either width or height is 0)")
		case errors.Is(err, caminfo.ErrInvalidFloats):
			c.status.set(StatusCameraInfo, LevelError,
				"Contains invalid floating point values (nans or infs)")
		default:
			c.status.set(StatusCameraInfo, LevelError, err.Error())
		}
		c.win.SetCameraPose(parkedPosition, mgl64.QuatIdent())
		return false
	}

	c.win.SetCameraPose(res.CameraPosition, res.CameraOrientation)
	c.win.SetProjection(res.Matrix)
	c.ctrl.Resize(res.ZoomX, res.ZoomY)

	c.status.set(StatusCameraInfo, LevelOK, "OK")
	c.status.set(StatusTime, LevelOK, "OK")
	c.mets.IncResolved()
	return true
}
