package render

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Controller owns the background and overlay surfaces of one render
// window and brackets their visibility around each render pass: set
// before the pass starts, unconditionally cleared when it ends, so the
// camera image never bleeds into an unrelated render of the same window.
type Controller struct {
	win    Window
	bg     Surface
	fg     Surface
	handle *VisibilityHandle

	mu          sync.Mutex
	cameraValid bool
	mode        RenderMode
	postPass    func(Window)
	closed      bool
}

// NewController creates the surfaces (hidden, infinite bounds) and
// claims a visibility bit for the window.
func NewController(win Window, arena *VisibilityArena, mode RenderMode) (*Controller, error) {
	if win == nil {
		return nil, fmt.Errorf("render window cannot be nil")
	}
	if arena == nil {
		return nil, fmt.Errorf("visibility arena cannot be nil")
	}

	handle, err := arena.Alloc()
	if err != nil {
		return nil, err
	}

	bg, err := win.CreateSurface(OrderBackground)
	if err != nil {
		handle.Release()
		return nil, fmt.Errorf("creating background surface: %w", err)
	}
	fg, err := win.CreateSurface(OrderOverlay)
	if err != nil {
		bg.Release()
		handle.Release()
		return nil, fmt.Errorf("creating overlay surface: %w", err)
	}

	for _, s := range []Surface{bg, fg} {
		s.SetCorners(-1.0, 1.0, 1.0, -1.0)
		s.SetInfiniteBounds()
		s.SetVisible(false)
	}
	win.SetVisibilityMask(handle.Mask())

	logrus.WithFields(logrus.Fields{
		"function":       "NewController",
		"render_mode":    mode.String(),
		"visibility_bit": handle.Mask(),
	}).Debug("Render target controller created")

	c := &Controller{
		win:    win,
		bg:     bg,
		fg:     fg,
		handle: handle,
		mode:   mode,
	}
	win.AddPassListener(c)
	return c, nil
}

// SetCameraValid records whether the last resolve produced a usable
// camera. Invalid cameras keep both surfaces hidden for the pass.
func (c *Controller) SetCameraValid(valid bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cameraValid = valid
}

// SetMode switches which surfaces carry the image on the next pass.
func (c *Controller) SetMode(mode RenderMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
}

// Mode returns the active render mode.
func (c *Controller) Mode() RenderMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetPostPassFunc installs the capture hook run after each pass, once
// the surfaces are hidden again.
func (c *Controller) SetPostPassFunc(fn func(Window)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.postPass = fn
}

// Resize fits both screen quads to the aspect-corrected framing
// computed by the resolver.
func (c *Controller) Resize(zoomX, zoomY float64) {
	c.bg.SetCorners(-1.0*zoomX, 1.0*zoomY, 1.0*zoomX, -1.0*zoomY)
	c.fg.SetCorners(-1.0*zoomX, 1.0*zoomY, 1.0*zoomX, -1.0*zoomY)
	c.bg.SetInfiniteBounds()
	c.fg.SetInfiniteBounds()
}

// PreRenderPass implements PassListener: surfaces become visible for
// this pass only, according to camera validity and render mode.
func (c *Controller) PreRenderPass(Window) {
	c.mu.Lock()
	valid := c.cameraValid
	mode := c.mode
	c.mu.Unlock()

	c.bg.SetVisible(valid && (mode == ModeBackground || mode == ModeBoth))
	c.fg.SetVisible(valid && (mode == ModeOverlay || mode == ModeBoth))
}

// PostRenderPass implements PassListener: both surfaces are hidden
// unconditionally before the capture hook runs, so visibility is reset
// even if capture fails.
func (c *Controller) PostRenderPass(win Window) {
	c.bg.SetVisible(false)
	c.fg.SetVisible(false)

	c.mu.Lock()
	hook := c.postPass
	c.mu.Unlock()
	if hook != nil {
		hook(win)
	}
}

// Close hides and releases the surfaces and returns the visibility bit.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.win.RemovePassListener(c)
	c.bg.SetVisible(false)
	c.fg.SetVisible(false)
	c.bg.Release()
	c.fg.Release()
	c.handle.Release()
}
