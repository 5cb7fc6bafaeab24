package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"imgbot/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

// stripes returns an image split into three vertical bands: red, green, blue.
func stripes(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	third := w / 3
	draw.Draw(img, image.Rect(0, 0, third, h), &image.Uniform{C: red}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(third, 0, 2*third, h), &image.Uniform{C: green}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(2*third, 0, w, h), &image.Uniform{C: blue}, image.Point{}, draw.Src)
	return img
}

func TestNewScaler(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "default", input: "", wantErr: false},
		{name: "nearest", input: "nearest", wantErr: false},
		{name: "case insensitive", input: " BiLinear ", wantErr: false},
		{name: "approx", input: "approxbilinear", wantErr: false},
		{name: "catmull rom", input: "catmullrom", wantErr: false},
		{name: "unknown", input: "lanczos9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScaler(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestCompositeStretchesToTarget(t *testing.T) {
	s, err := NewScaler("bilinear")
	require.NoError(t, err)

	tests := []struct {
		name    string
		srcW    int
		srcH    int
		targetW int
		targetH int
	}{
		{name: "downscale", srcW: 1000, srcH: 500, targetW: 500, targetH: 250},
		{name: "upscale", srcW: 10, srcH: 10, targetW: 100, targetH: 40},
		{name: "non uniform", srcW: 800, srcH: 600, targetW: 400, targetH: 400},
		{name: "one pixel", srcW: 3, srcH: 7, targetW: 1, targetH: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := solid(tt.srcW, tt.srcH, red)
			dst, err := s.Composite(src, domain.Geometry{TargetWidth: tt.targetW, TargetHeight: tt.targetH})
			require.NoError(t, err)

			assert.Equal(t, tt.targetW, dst.Bounds().Dx())
			assert.Equal(t, tt.targetH, dst.Bounds().Dy())
			assert.Equal(t, red, dst.RGBAAt(tt.targetW/2, tt.targetH/2))
		})
	}
}

func TestCompositeSamplesOnlyCrop(t *testing.T) {
	s, err := NewScaler("nearest")
	require.NoError(t, err)

	src := stripes(900, 300)
	geometry := domain.Geometry{
		TargetWidth:  100,
		TargetHeight: 100,
		Crop:         &domain.Rect{X: 300, Y: 0, Width: 300, Height: 300},
	}

	dst, err := s.Composite(src, geometry)
	require.NoError(t, err)

	for _, p := range []image.Point{{0, 0}, {50, 50}, {99, 99}, {0, 99}, {99, 0}} {
		assert.Equal(t, green, dst.RGBAAt(p.X, p.Y), "pixel %v", p)
	}
}

func TestCompositeCropRespectsSourceOrigin(t *testing.T) {
	s, err := NewScaler("nearest")
	require.NoError(t, err)

	full := stripes(900, 300)
	src := full.SubImage(image.Rect(300, 0, 900, 300))
	geometry := domain.Geometry{
		TargetWidth:  10,
		TargetHeight: 10,
		Crop:         &domain.Rect{X: 300, Y: 0, Width: 300, Height: 300},
	}

	dst, err := s.Composite(src, geometry)
	require.NoError(t, err)
	assert.Equal(t, blue, dst.RGBAAt(5, 5))
}

func TestCompositeDoesNotMutateSource(t *testing.T) {
	s, err := NewScaler("")
	require.NoError(t, err)

	src := stripes(90, 30)
	before := append([]uint8(nil), src.Pix...)

	_, err = s.Composite(src, domain.Geometry{TargetWidth: 10, TargetHeight: 10,
		Crop: &domain.Rect{X: 10, Y: 0, Width: 30, Height: 30}})
	require.NoError(t, err)

	assert.Equal(t, before, src.Pix)
}

func TestCompositeEmpty(t *testing.T) {
	s, err := NewScaler("")
	require.NoError(t, err)

	tests := []struct {
		name     string
		src      image.Image
		geometry domain.Geometry
	}{
		{name: "nil source", src: nil, geometry: domain.Geometry{TargetWidth: 1, TargetHeight: 1}},
		{name: "empty source", src: image.NewRGBA(image.Rect(0, 0, 0, 0)),
			geometry: domain.Geometry{TargetWidth: 1, TargetHeight: 1}},
		{name: "zero target", src: solid(2, 2, red), geometry: domain.Geometry{TargetWidth: 0, TargetHeight: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst, err := s.Composite(tt.src, tt.geometry)
			require.ErrorIs(t, err, domain.ErrEmptySource)
			assert.Nil(t, dst)
		})
	}
}

func TestCropRectangle(t *testing.T) {
	bounds := image.Rect(0, 0, 800, 600)

	tests := []struct {
		name string
		crop domain.Rect
		want image.Rectangle
	}{
		{name: "centered", crop: domain.Rect{X: 100, Y: 0, Width: 600, Height: 600},
			want: image.Rect(100, 0, 700, 600)},
		{name: "fractional", crop: domain.Rect{X: 0.4, Y: 10.6, Width: 799.2, Height: 20.2},
			want: image.Rect(0, 11, 800, 31)},
		{name: "sub pixel keeps one pixel", crop: domain.Rect{X: 400.1, Y: 0, Width: 0.2, Height: 600},
			want: image.Rect(400, 0, 401, 600)},
		{name: "sub pixel at edge", crop: domain.Rect{X: 799.9, Y: 0, Width: 0.1, Height: 600},
			want: image.Rect(799, 0, 800, 600)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crop := tt.crop
			assert.Equal(t, tt.want, cropRectangle(bounds, &crop))
		})
	}
}
