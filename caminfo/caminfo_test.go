package caminfo

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
)

func r3Vec(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

func TestCameraInfo_Accessors(t *testing.T) {
	ci := &CameraInfo{
		P: [12]float64{
			500, 0, 320, -50,
			0, 510, 240, 8,
			0, 0, 1, 0,
		},
	}

	assert.Equal(t, 500.0, ci.Fx())
	assert.Equal(t, 510.0, ci.Fy())
	assert.Equal(t, 320.0, ci.Cx())
	assert.Equal(t, 240.0, ci.Cy())
	assert.Equal(t, -50.0, ci.Tx())
	assert.Equal(t, 8.0, ci.Ty())
}

func TestValidateFloats(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CameraInfo)
		want   bool
	}{
		{name: "all finite", mutate: func(ci *CameraInfo) {}, want: true},
		{name: "nan in D", mutate: func(ci *CameraInfo) { ci.D = []float64{0, math.NaN()} }, want: false},
		{name: "nan in K", mutate: func(ci *CameraInfo) { ci.K[0] = math.NaN() }, want: false},
		{name: "inf in R", mutate: func(ci *CameraInfo) { ci.R[8] = math.Inf(-1) }, want: false},
		{name: "inf in P", mutate: func(ci *CameraInfo) { ci.P[11] = math.Inf(1) }, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ci := createTestInfo()
			tt.mutate(ci)
			assert.Equal(t, tt.want, ValidateFloats(ci))
		})
	}
}

func TestIdentityPose(t *testing.T) {
	p := IdentityPose()
	assert.Equal(t, r3.Vector{}, p.Position)
	assert.Equal(t, 1.0, p.Orientation.W)
}
