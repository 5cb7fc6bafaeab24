package port

import (
	"context"
	"image"
	"imgbot/internal/core/domain"
)

type Compositor interface {
	// Composite renders src, or the geometry's crop of it, stretched onto a new bitmap of the target size.
	Composite(src image.Image, geometry domain.Geometry) (*image.RGBA, error)
}

type Encoder interface {
	// Encode serializes img into format at the given quality in (0, 1]. Lossless codecs ignore quality.
	Encode(img image.Image, format domain.OutputFormat, quality float64) (*domain.EncodedResult, error)
}

type ImageDecoder interface {
	// Decode turns raw uploaded bytes into a bitmap and returns the detected source format name.
	Decode(data []byte) (image.Image, string, error)
}

type ImageConverter interface {
	// Convert starts a conversion and returns immediately. Exactly one result is delivered on the returned channel.
	Convert(ctx context.Context, src image.Image, cfg domain.TransformConfig) <-chan domain.ConvertResult
}

type FileDownloader interface {
	// Download fetches the file at url, failing when it exceeds maxBytes.
	Download(ctx context.Context, url string, maxBytes int64) ([]byte, error)
}
