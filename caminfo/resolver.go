package caminfo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

// visionToRender converts the sensor convention (Z pointing forward,
// out of the lens) to the rendering convention (Z pointing out of the
// screen, towards the viewer): a 180 degree rotation about local X.
var visionToRender = mgl64.QuatRotate(math.Pi, mgl64.Vec3{1, 0, 0})

// ProjectionResult is the fully-resolved virtual camera state for one
// frame. A result is always complete; the resolver never returns a
// partially-applied state.
type ProjectionResult struct {
	// Matrix is the off-axis projection, ready to be injected verbatim
	// into the renderer as a custom projection matrix.
	Matrix mgl64.Mat4

	// CameraPosition is the pose position shifted along the camera's
	// local right/down axes by the stereo baseline encoded in P.
	CameraPosition mgl64.Vec3

	// CameraOrientation is the pose orientation in rendering convention.
	CameraOrientation mgl64.Quat

	// ZoomX and ZoomY are the aspect-preservation scale factors. The
	// axis whose field of view is wider than the viewport keeps 1.0 and
	// the other shrinks, so the physical FOV is never stretched.
	ZoomX float64
	ZoomY float64

	// ImageWidth and ImageHeight are the intrinsics dimensions after
	// backfilling from the image, as floats for downstream math.
	ImageWidth  float64
	ImageHeight float64
}

// Resolver turns intrinsics and a pose into an off-axis projection for
// a given viewport. The clip planes are fixed; the projection depth
// mapping is the standard symmetric-frustum form.
type Resolver struct {
	nearPlane float64
	farPlane  float64
}

// NewResolver creates a resolver with the standard clip planes
// (near 0.01, far 100 scene units).
func NewResolver() *Resolver {
	return &Resolver{
		nearPlane: 0.01,
		farPlane:  100.0,
	}
}

// Compute resolves the virtual camera for one frame.
//
// fallbackImgW/fallbackImgH are the dimensions of the most recent
// decoded image, used to backfill a malformed camera info whose own
// width or height is zero.
//
// Errors classify with errors.Is against ErrMalformedCameraInfo and
// ErrInvalidFloats. On error nothing is applied and the previous
// projection remains in force.
func (r *Resolver) Compute(info *CameraInfo, pose Pose, viewportW, viewportH, fallbackImgW, fallbackImgH int) (*ProjectionResult, error) {
	if info == nil {
		return nil, ErrNilCameraInfo
	}

	if !ValidateFloats(info) {
		logrus.WithFields(logrus.Fields{
			"function": "Resolver.Compute",
			"frame_id": info.FrameID,
		}).Error("Camera info contains invalid floating point values")
		return nil, ErrInvalidFloats
	}

	imgWidth := float64(info.Width)
	imgHeight := float64(info.Height)

	// Backfill dimensions from the image when the camera info is
	// malformed (width or height reported as zero).
	if imgWidth == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "Resolver.Compute",
			"frame_id": info.FrameID,
		}).Debug("Malformed camera info, width = 0, falling back to image width")
		imgWidth = float64(fallbackImgW)
	}
	if imgHeight == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "Resolver.Compute",
			"frame_id": info.FrameID,
		}).Debug("Malformed camera info, height = 0, falling back to image height")
		imgHeight = float64(fallbackImgH)
	}
	if imgWidth == 0 || imgHeight == 0 {
		return nil, ErrMalformedCameraInfo
	}

	orientation := pose.Orientation.Mul(visionToRender)

	fx := info.Fx()
	fy := info.Fy()

	zoomX := 1.0
	zoomY := 1.0

	// Preserve the physical camera's aspect ratio: shrink the zoom of
	// whichever axis the viewport cannot fit.
	if viewportW != 0 && viewportH != 0 {
		// A single division keeps the mathematically-equal case exact:
		// (w/fx)/(h/fy) picks up a rounding error that would shrink
		// the zoom on a perfectly matching viewport.
		imgAspect := (imgWidth * fy) / (imgHeight * fx)
		winAspect := float64(viewportW) / float64(viewportH)

		if imgAspect > winAspect {
			zoomY = zoomY / imgAspect * winAspect
		} else {
			zoomX = zoomX / winAspect * imgAspect
		}
	}

	// Shift the camera along its local right/down axes by the baseline
	// encoded in P. This reproduces the physical offset of the right
	// camera in a rectified stereo pair.
	position := mgl64.Vec3{pose.Position.X, pose.Position.Y, pose.Position.Z}

	tx := -1 * (info.Tx() / fx)
	right := orientation.Rotate(mgl64.Vec3{1, 0, 0})
	position = position.Add(right.Mul(tx))

	ty := -1 * (info.Ty() / fy)
	down := orientation.Rotate(mgl64.Vec3{0, 1, 0})
	position = position.Add(down.Mul(ty))

	if !validVec3(position) {
		logrus.WithFields(logrus.Fields{
			"function": "Resolver.Compute",
			"frame_id": info.FrameID,
			"tx":       tx,
			"ty":       ty,
		}).Error("Baseline shift produced an invalid position")
		return nil, ErrInvalidFloats
	}

	cx := info.Cx()
	cy := info.Cy()

	var proj mgl64.Mat4

	proj.Set(0, 0, 2.0*fx/imgWidth*zoomX)
	proj.Set(1, 1, 2.0*fy/imgHeight*zoomY)

	proj.Set(0, 2, 2.0*(0.5-cx/imgWidth)*zoomX)
	proj.Set(1, 2, 2.0*(cy/imgHeight-0.5)*zoomY)

	proj.Set(2, 2, -(r.farPlane+r.nearPlane)/(r.farPlane-r.nearPlane))
	proj.Set(2, 3, -2.0*r.farPlane*r.nearPlane/(r.farPlane-r.nearPlane))

	proj.Set(3, 2, -1)

	return &ProjectionResult{
		Matrix:            proj,
		CameraPosition:    position,
		CameraOrientation: orientation,
		ZoomX:             zoomX,
		ZoomY:             zoomY,
		ImageWidth:        imgWidth,
		ImageHeight:       imgHeight,
	}, nil
}

// NearPlane returns the fixed near clip distance.
func (r *Resolver) NearPlane() float64 { return r.nearPlane }

// FarPlane returns the fixed far clip distance.
func (r *Resolver) FarPlane() float64 { return r.farPlane }
