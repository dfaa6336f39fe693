package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestImage(width, height int, encoding string) *Image {
	bpp := supportedEncodings[encoding]
	if bpp == 0 {
		bpp = 3
	}
	return &Image{
		Width:    width,
		Height:   height,
		Step:     width * bpp,
		Encoding: encoding,
		FrameID:  "camera_optical",
		Data:     make([]byte, width*height*bpp),
	}
}

func TestImage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		img     *Image
		wantErr error
	}{
		{name: "valid rgb8", img: createTestImage(640, 480, EncodingRGB8)},
		{name: "valid mono8", img: createTestImage(320, 240, EncodingMono8)},
		{name: "valid bgra8", img: createTestImage(64, 64, EncodingBGRA8)},
		{
			name:    "unsupported encoding",
			img:     createTestImage(640, 480, "yuv422"),
			wantErr: ErrUnsupportedEncoding,
		},
		{
			name: "zero width",
			img: &Image{Width: 0, Height: 480, Step: 0, Encoding: EncodingRGB8,
				Data: []byte{}},
			wantErr: ErrBadImageDimensions,
		},
		{
			name: "step smaller than row",
			img: &Image{Width: 640, Height: 480, Step: 100, Encoding: EncodingRGB8,
				Data: make([]byte, 640*480*3)},
			wantErr: ErrBadImageDimensions,
		},
		{
			name: "short payload",
			img: &Image{Width: 640, Height: 480, Step: 640 * 3, Encoding: EncodingRGB8,
				Data: make([]byte, 10)},
			wantErr: ErrShortImageData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.img.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestImage_BytesPerPixel(t *testing.T) {
	assert.Equal(t, 3, createTestImage(4, 4, EncodingRGB8).BytesPerPixel())
	assert.Equal(t, 4, createTestImage(4, 4, EncodingRGBA8).BytesPerPixel())
	assert.Equal(t, 1, createTestImage(4, 4, EncodingMono8).BytesPerPixel())
	assert.Equal(t, 0, createTestImage(4, 4, "yuv422").BytesPerPixel())
}
