package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"imgbot/internal/core/domain"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxBytes  = 10 * 1024 * 1024
	DefaultMaxPixels = 64 * 1024 * 1024
)

var (
	ErrInputTooLarge = errors.New("image exceeds maximum input size")
	ErrNotAnImage    = errors.New("file is not a supported image")
	ErrTooManyPixels = errors.New("image has too many pixels")
)

// Decoder turns uploaded bytes into a bitmap. Only the first frame of animated formats is used.
type Decoder struct {
	maxBytes  int64
	maxPixels int64
}

func NewDecoder(maxBytes, maxPixels int64) *Decoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Decoder{maxBytes: maxBytes, maxPixels: maxPixels}
}

func (d *Decoder) MaxBytes() int64 {
	return d.maxBytes
}

func (d *Decoder) MaxPixels() int64 {
	return d.maxPixels
}

func (d *Decoder) Decode(data []byte) (image.Image, string, error) {
	if int64(len(data)) > d.maxBytes {
		return nil, "", fmt.Errorf("%w: %d > %d bytes", ErrInputTooLarge, len(data), d.maxBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Debug().Err(err).Int("bytes", len(data)).Msg("could not detect image format")
		return nil, "", fmt.Errorf("%w: %w", ErrNotAnImage, err)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, format, domain.ErrEmptySource
	}

	// the header is all DecodeConfig reads, so this runs before any pixel buffer is allocated
	pixels := int64(cfg.Width) * int64(cfg.Height)
	if pixels > d.maxPixels {
		log.Warn().
			Str("format", format).
			Int("width", cfg.Width).
			Int("height", cfg.Height).
			Int64("maxPixels", d.maxPixels).
			Msg("image exceeds maximum pixel count")
		return nil, format, fmt.Errorf("%w: %dx%d is more than %d pixels", ErrTooManyPixels, cfg.Width,
			cfg.Height, d.maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		log.Error().Err(err).Str("format", format).Msg("could not decode image")
		return nil, format, fmt.Errorf("%w: %w", ErrNotAnImage, err)
	}

	log.Debug().
		Str("format", format).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Msg("decoded image")

	return img, format, nil
}
