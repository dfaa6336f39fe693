package render

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// FakeBackend is an in-memory Backend for tests and examples. Windows
// record every camera, projection and visibility interaction so tests
// can assert on exact render behavior without a 3D engine.
type FakeBackend struct {
	mu      sync.Mutex
	windows []*FakeWindow
}

// NewFakeBackend creates an empty fake backend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{}
}

// CreateWindow implements Backend.
func (b *FakeBackend) CreateWindow(width, height int) (Window, error) {
	win := &FakeWindow{
		width:       width,
		height:      height,
		bpp:         3, // RGB8 color buffer
		orientation: mgl64.QuatIdent(),
	}
	b.mu.Lock()
	b.windows = append(b.windows, win)
	b.mu.Unlock()
	return win, nil
}

// Windows returns every window created so far.
func (b *FakeBackend) Windows() []*FakeWindow {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*FakeWindow, len(b.windows))
	copy(out, b.windows)
	return out
}

// FakeWindow is the fake Backend's Window implementation.
type FakeWindow struct {
	mu        sync.Mutex
	width     int
	height    int
	bpp       int
	active    bool
	destroyed bool

	position    mgl64.Vec3
	orientation mgl64.Quat
	projection  mgl64.Mat4
	near, far   float64
	visMask     uint32

	listeners []PassListener
	surfaces  []*FakeSurface

	updateCount int

	// FillByte is the value ReadPixels writes into the destination.
	FillByte byte

	// ResizeDuringRead, when set, runs at the start of the next
	// ReadPixels call to simulate a window resize occurring between the
	// size query and the buffer read-back. Consumed after one use.
	ResizeDuringRead func(w *FakeWindow)
}

// SetActive implements Window.
func (w *FakeWindow) SetActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = active
}

// Active implements Window.
func (w *FakeWindow) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Width implements Window.
func (w *FakeWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

// Height implements Window.
func (w *FakeWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// BytesPerPixel implements Window.
func (w *FakeWindow) BytesPerPixel() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bpp
}

// Resize changes the window dimensions.
func (w *FakeWindow) Resize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width = width
	w.height = height
}

// ReadPixels implements Window, filling dst with FillByte. An injected
// ResizeDuringRead hook runs first, simulating the size-query/read-back
// race.
func (w *FakeWindow) ReadPixels(dst []byte) (int, error) {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return 0, ErrWindowDestroyed
	}
	hook := w.ResizeDuringRead
	w.ResizeDuringRead = nil
	w.mu.Unlock()

	if hook != nil {
		hook(w)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	n := w.width * w.height * w.bpp
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = w.FillByte
	}
	return n, nil
}

// SetCameraPose implements Window.
func (w *FakeWindow) SetCameraPose(position mgl64.Vec3, orientation mgl64.Quat) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.position = position
	w.orientation = orientation
}

// SetProjection implements Window.
func (w *FakeWindow) SetProjection(m mgl64.Mat4) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.projection = m
}

// SetClipPlanes implements Window.
func (w *FakeWindow) SetClipPlanes(near, far float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.near = near
	w.far = far
}

// SetVisibilityMask implements Window.
func (w *FakeWindow) SetVisibilityMask(mask uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visMask = mask
}

// VisibilityMask returns the last mask set.
func (w *FakeWindow) VisibilityMask() uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visMask
}

// CreateSurface implements Window.
func (w *FakeWindow) CreateSurface(order SurfaceOrder) (Surface, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return nil, ErrWindowDestroyed
	}
	s := &FakeSurface{order: order}
	w.surfaces = append(w.surfaces, s)
	return s, nil
}

// Surfaces returns the surfaces attached to this window.
func (w *FakeWindow) Surfaces() []*FakeSurface {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*FakeSurface, len(w.surfaces))
	copy(out, w.surfaces)
	return out
}

// AddPassListener implements Window.
func (w *FakeWindow) AddPassListener(l PassListener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, l)
}

// RemovePassListener implements Window.
func (w *FakeWindow) RemovePassListener(l PassListener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, existing := range w.listeners {
		if existing == l {
			w.listeners = append(w.listeners[:i], w.listeners[i+1:]...)
			return
		}
	}
}

// Update implements Window: one render pass with listener bracketing.
// Inactive or destroyed windows do nothing.
func (w *FakeWindow) Update() error {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return ErrWindowDestroyed
	}
	if !w.active {
		w.mu.Unlock()
		return nil
	}
	listeners := make([]PassListener, len(w.listeners))
	copy(listeners, w.listeners)
	w.updateCount++
	w.mu.Unlock()

	for _, l := range listeners {
		l.PreRenderPass(w)
	}
	for _, l := range listeners {
		l.PostRenderPass(w)
	}
	return nil
}

// UpdateCount returns how many render passes have run.
func (w *FakeWindow) UpdateCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updateCount
}

// CameraPosition returns the last camera position set.
func (w *FakeWindow) CameraPosition() mgl64.Vec3 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.position
}

// CameraOrientation returns the last camera orientation set.
func (w *FakeWindow) CameraOrientation() mgl64.Quat {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.orientation
}

// Projection returns the last custom projection set.
func (w *FakeWindow) Projection() mgl64.Mat4 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.projection
}

// ClipPlanes returns the last near/far clip distances set.
func (w *FakeWindow) ClipPlanes() (near, far float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.near, w.far
}

// Destroy implements Window.
func (w *FakeWindow) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.destroyed = true
	w.listeners = nil
}

// Destroyed reports whether Destroy has been called.
func (w *FakeWindow) Destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

// FakeSurface is the fake Backend's Surface implementation. It records
// every visibility transition for bracketing assertions.
type FakeSurface struct {
	mu          sync.Mutex
	order       SurfaceOrder
	visible     bool
	corners     [4]float64
	infinite    bool
	released    bool
	transitions []bool
}

// SetVisible implements Surface.
func (s *FakeSurface) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = visible
	s.transitions = append(s.transitions, visible)
}

// Visible implements Surface.
func (s *FakeSurface) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// SetCorners implements Surface.
func (s *FakeSurface) SetCorners(left, top, right, bottom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corners = [4]float64{left, top, right, bottom}
}

// Corners returns the current quad corners (left, top, right, bottom).
func (s *FakeSurface) Corners() [4]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.corners
}

// SetInfiniteBounds implements Surface.
func (s *FakeSurface) SetInfiniteBounds() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infinite = true
}

// InfiniteBounds reports whether the bounding volume is infinite.
func (s *FakeSurface) InfiniteBounds() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.infinite
}

// Order returns the surface's render order.
func (s *FakeSurface) Order() SurfaceOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order
}

// Release implements Surface.
func (s *FakeSurface) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
}

// Released reports whether Release has been called.
func (s *FakeSurface) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// Transitions returns the full visibility transition history.
func (s *FakeSurface) Transitions() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bool, len(s.transitions))
	copy(out, s.transitions)
	return out
}
