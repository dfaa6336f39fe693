// Package render owns the render target for the simulated camera view:
// the backend-agnostic rendering interface, the background/overlay
// surface controller with its per-pass visibility bracketing, and the
// visibility bit arena.
//
// The backend is injected: anything that can create a window, attach
// screen-filling surfaces, set a camera transform and read back pixels
// can host the camera view. Core logic never touches a concrete 3D
// engine, which keeps every render decision testable against the fake
// backend in this package.
package render
