package compositor

import (
	"fmt"
	"image"
	"imgbot/internal/core/domain"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

const DefaultInterpolation = "catmullrom"

var interpolators = map[string]draw.Interpolator{
	"nearest":        draw.NearestNeighbor,
	"approxbilinear": draw.ApproxBiLinear,
	"bilinear":       draw.BiLinear,
	"catmullrom":     draw.CatmullRom,
}

// Scaler draws the source onto the destination canvas with a single scale operation.
type Scaler struct {
	interpolator draw.Interpolator
}

func NewScaler(interpolation string) (*Scaler, error) {
	name := strings.ToLower(strings.TrimSpace(interpolation))
	if name == "" {
		name = DefaultInterpolation
	}

	interpolator, ok := interpolators[name]
	if !ok {
		return nil, fmt.Errorf("unknown interpolation %q", interpolation)
	}

	log.Debug().Str("interpolation", name).Msg("compositor ready")

	return &Scaler{interpolator: interpolator}, nil
}

func (s *Scaler) Composite(src image.Image, geometry domain.Geometry) (*image.RGBA, error) {
	if src == nil || src.Bounds().Empty() || geometry.TargetWidth <= 0 || geometry.TargetHeight <= 0 {
		return nil, domain.ErrEmptySource
	}

	bounds := src.Bounds()
	sr := bounds
	if geometry.Crop != nil {
		sr = cropRectangle(bounds, geometry.Crop)
	}

	dst := image.NewRGBA(image.Rect(0, 0, geometry.TargetWidth, geometry.TargetHeight))
	s.interpolator.Scale(dst, dst.Bounds(), src, sr, draw.Src, nil)

	return dst, nil
}

// cropRectangle snaps a crop to whole pixels inside bounds, keeping at least one pixel per side.
func cropRectangle(bounds image.Rectangle, crop *domain.Rect) image.Rectangle {
	x0, x1 := snap(bounds.Min.X, bounds.Max.X, crop.X, crop.Width)
	y0, y1 := snap(bounds.Min.Y, bounds.Max.Y, crop.Y, crop.Height)
	return image.Rect(x0, y0, x1, y1)
}

func snap(lo, hi int, offset, length float64) (int, int) {
	start := clamp(lo+int(math.Round(offset)), lo, hi)
	end := clamp(lo+int(math.Round(offset+length)), lo, hi)

	if end <= start {
		end = start + 1
		if end > hi {
			start, end = hi-1, hi
		}
	}

	return start, end
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
