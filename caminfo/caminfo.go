package caminfo

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// CameraInfo holds the intrinsic calibration of a physical camera,
// following the OpenCV/ROS convention: D is the distortion vector, K the
// 3x3 intrinsic matrix, R the rectification matrix, and P the 3x4
// projection matrix (row-major). The resolver reads focal lengths,
// principal point and stereo baseline from P only.
type CameraInfo struct {
	Width   uint32
	Height  uint32
	D       []float64
	K       [9]float64
	R       [9]float64
	P       [12]float64
	Stamp   time.Time
	FrameID string
}

// Fx returns the horizontal focal length P[0][0].
func (ci *CameraInfo) Fx() float64 { return ci.P[0] }

// Fy returns the vertical focal length P[1][1].
func (ci *CameraInfo) Fy() float64 { return ci.P[5] }

// Cx returns the horizontal principal point P[0][2].
func (ci *CameraInfo) Cx() float64 { return ci.P[2] }

// Cy returns the vertical principal point P[1][2].
func (ci *CameraInfo) Cy() float64 { return ci.P[6] }

// Tx returns the horizontal baseline term P[0][3]. For the right camera
// of a rectified stereo pair this is -fx * baseline.
func (ci *CameraInfo) Tx() float64 { return ci.P[3] }

// Ty returns the vertical baseline term P[1][3].
func (ci *CameraInfo) Ty() float64 { return ci.P[7] }

// Pose is a timestamped rigid transform of a sensor frame relative to
// the fixed reference frame.
type Pose struct {
	Position    r3.Vector
	Orientation mgl64.Quat
	Stamp       time.Time
	FrameID     string
}

// IdentityPose returns a pose at the origin with identity orientation.
func IdentityPose() Pose {
	return Pose{Orientation: mgl64.QuatIdent()}
}

// ValidateFloats reports whether all values in the camera info's D, K,
// R and P arrays are finite.
func ValidateFloats(ci *CameraInfo) bool {
	for _, v := range ci.D {
		if !isFinite(v) {
			return false
		}
	}
	for _, v := range ci.K {
		if !isFinite(v) {
			return false
		}
	}
	for _, v := range ci.R {
		if !isFinite(v) {
			return false
		}
	}
	for _, v := range ci.P {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validVec3(v mgl64.Vec3) bool {
	return isFinite(v.X()) && isFinite(v.Y()) && isFinite(v.Z())
}
