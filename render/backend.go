package render

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// Sentinel errors for backend resource management.
var (
	// ErrWindowDestroyed indicates an operation on a destroyed window.
	ErrWindowDestroyed = errors.New("render window has been destroyed")

	// ErrNoVisibilityBits indicates the visibility arena is exhausted.
	ErrNoVisibilityBits = errors.New("no visibility bits available")
)

// SurfaceOrder fixes where a surface draws relative to scene geometry.
type SurfaceOrder int

const (
	// OrderBackground draws before all scene geometry.
	OrderBackground SurfaceOrder = iota
	// OrderOverlay draws after all scene geometry, before any UI layer.
	OrderOverlay
)

// RenderMode selects which surfaces carry the camera image.
type RenderMode int

const (
	// ModeBackground renders the image behind all other geometry.
	ModeBackground RenderMode = iota
	// ModeOverlay renders the image on top of the scene.
	ModeOverlay
	// ModeBoth renders the image both behind and on top.
	ModeBoth
)

// String returns the mode's configuration name.
func (m RenderMode) String() string {
	switch m {
	case ModeBackground:
		return "background"
	case ModeOverlay:
		return "overlay"
	case ModeBoth:
		return "background and overlay"
	default:
		return "unknown"
	}
}

// ParseRenderMode converts a configuration string to a RenderMode.
func ParseRenderMode(s string) (RenderMode, error) {
	switch s {
	case "background":
		return ModeBackground, nil
	case "overlay":
		return ModeOverlay, nil
	case "background and overlay", "both":
		return ModeBoth, nil
	default:
		return ModeBackground, errors.New("unknown render mode: " + s)
	}
}

// PassListener receives the begin/end callbacks bracketing exactly one
// render pass of a window.
type PassListener interface {
	PreRenderPass(win Window)
	PostRenderPass(win Window)
}

// Backend is the capability set required from the rendering host.
type Backend interface {
	// CreateWindow creates a resizable render window with an attached
	// virtual camera.
	CreateWindow(width, height int) (Window, error)
}

// Window is a render surface with a single associated virtual camera.
// It is created once at initialization and destroyed at teardown; it is
// driven explicitly via Update rather than auto-rendering.
type Window interface {
	// SetActive controls whether the window participates in rendering.
	SetActive(active bool)
	// Active reports the current activation state.
	Active() bool

	// Width and Height are the current viewport dimensions in pixels.
	Width() int
	Height() int

	// BytesPerPixel is the pixel size of the window's color buffer.
	BytesPerPixel() int

	// ReadPixels copies the rendered color buffer into dst and returns
	// the number of bytes written. dst is caller-allocated.
	ReadPixels(dst []byte) (int, error)

	// SetCameraPose positions the virtual camera.
	SetCameraPose(position mgl64.Vec3, orientation mgl64.Quat)

	// SetProjection injects a custom projection matrix verbatim,
	// bypassing any FOV-derived projection.
	SetProjection(m mgl64.Mat4)

	// SetClipPlanes sets the near and far clip distances.
	SetClipPlanes(near, far float64)

	// SetVisibilityMask restricts the window's camera to objects whose
	// visibility flags intersect the mask.
	SetVisibilityMask(mask uint32)

	// CreateSurface attaches a screen-filling quad at the given render
	// order. Surfaces start hidden.
	CreateSurface(order SurfaceOrder) (Surface, error)

	// AddPassListener registers for pre/post callbacks around Update.
	AddPassListener(l PassListener)
	// RemovePassListener unregisters a listener.
	RemovePassListener(l PassListener)

	// Update runs exactly one render pass, invoking pass listeners.
	// Inactive windows do not render or invoke listeners.
	Update() error

	// Destroy releases the window and all attached surfaces.
	Destroy()
}

// Surface is a screen-filling quad attached to a window.
type Surface interface {
	SetVisible(visible bool)
	Visible() bool

	// SetCorners positions the quad in normalized device coordinates.
	SetCorners(left, top, right, bottom float64)

	// SetInfiniteBounds gives the quad an infinite bounding volume so
	// it is never frustum-culled.
	SetInfiniteBounds()

	// Release detaches and frees the surface.
	Release()
}
