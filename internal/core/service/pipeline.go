package service

import (
	"context"
	"fmt"
	"image"
	"imgbot/internal/core/domain"
	"imgbot/internal/core/port"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// Pipeline runs geometry resolution, compositing and encoding for one image per call. It holds no
// per-conversion state, so a single Pipeline serves concurrent conversions.
type Pipeline struct {
	compositor port.Compositor
	encoder    port.Encoder
}

func NewPipeline(compositor port.Compositor, encoder port.Encoder) *Pipeline {
	return &Pipeline{compositor: compositor, encoder: encoder}
}

func (p *Pipeline) Convert(ctx context.Context, src image.Image,
	cfg domain.TransformConfig) <-chan domain.ConvertResult {
	done := make(chan domain.ConvertResult, 1)

	go func() {
		defer close(done)
		result, err := p.convert(ctx, src, cfg)
		done <- domain.ConvertResult{Result: result, Err: err}
	}()

	return done
}

func (p *Pipeline) convert(ctx context.Context, src image.Image,
	cfg domain.TransformConfig) (*domain.EncodedResult, error) {
	l := log.With().
		Str("conversionId", conversionID()).
		Str("resize", string(cfg.Resize)).
		Str("format", string(cfg.Format)).
		Bool("smartFocus", cfg.SmartFocus).
		Bool("optimize", cfg.Optimize).
		Logger()

	if src == nil || src.Bounds().Empty() {
		l.Warn().Msg("refusing to convert empty image")
		return nil, domain.ErrEmptySource
	}

	bounds := src.Bounds()
	geometry := domain.ResolveGeometry(bounds.Dx(), bounds.Dy(), cfg)

	e := l.Debug().
		Int("sourceWidth", bounds.Dx()).
		Int("sourceHeight", bounds.Dy()).
		Int("targetWidth", geometry.TargetWidth).
		Int("targetHeight", geometry.TargetHeight)
	if geometry.Crop != nil {
		e = e.Interface("crop", geometry.Crop)
	}
	e.Msg("resolved geometry")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canvas, err := p.compositor.Composite(src, geometry)
	if err != nil {
		l.Error().Err(err).Msg("compositing failed")
		return nil, fmt.Errorf("failed to composite image: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	quality := domain.QualityFor(cfg.Optimize)
	result, err := p.encoder.Encode(canvas, cfg.Format, quality)
	if err != nil {
		l.Error().Err(err).Msg("encoding failed")
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	l.Info().
		Str("mimeType", result.MimeType).
		Int("bytes", len(result.Data)).
		Msg("conversion finished")

	return result, nil
}

func conversionID() string {
	id, err := uuid.NewV4()
	if err != nil {
		log.Warn().Err(err).Msg("could not generate conversion id")
		return uuid.Nil.String()
	}
	return id.String()
}
