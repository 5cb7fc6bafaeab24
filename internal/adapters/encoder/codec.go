package encoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"imgbot/internal/core/domain"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"
	"github.com/rs/zerolog/log"
)

const (
	gifColors  = 256
	webpMethod = 4
)

type encodeFunc func(w io.Writer, img image.Image, quality int) error

// Codec encodes bitmaps into the supported output formats. PNG and GIF are lossless or palette based
// and ignore the quality parameter.
type Codec struct {
	encoders map[domain.OutputFormat]encodeFunc
}

func NewCodec() *Codec {
	return &Codec{encoders: map[domain.OutputFormat]encodeFunc{
		domain.FormatJPEG: encodeJPEG,
		domain.FormatPNG:  encodePNG,
		domain.FormatWebP: encodeWebP,
		domain.FormatGIF:  encodeGIF,
	}}
}

func (c *Codec) Encode(img image.Image, format domain.OutputFormat,
	quality float64) (*domain.EncodedResult, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, domain.ErrEmptySource
	}

	effective := format.Effective()
	mimeType := effective.MimeType()

	if math.IsNaN(quality) || quality <= 0 || quality > 1 {
		return nil, &domain.EncodeError{MimeType: mimeType, Err: fmt.Errorf("quality %v outside (0, 1]", quality)}
	}

	encode, ok := c.encoders[effective]
	if !ok {
		return nil, &domain.EncodeError{MimeType: mimeType, Err: fmt.Errorf("no encoder for %s", effective)}
	}

	if effective != format {
		log.Debug().Str("requested", string(format)).Str("mimeType", mimeType).Msg("unsupported format, using jpeg")
	}

	var buf bytes.Buffer
	if err := encode(&buf, img, percent(quality)); err != nil {
		return nil, &domain.EncodeError{MimeType: mimeType, Err: err}
	}

	if buf.Len() == 0 {
		return nil, &domain.EncodeError{MimeType: mimeType, Err: errors.New("codec produced no data")}
	}

	bounds := img.Bounds()

	return &domain.EncodedResult{
		Data:      buf.Bytes(),
		MimeType:  mimeType,
		Extension: effective.Extension(),
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Quality:   quality,
	}, nil
}

func percent(quality float64) int {
	return max(1, min(100, int(math.Round(quality*100))))
}

func encodeJPEG(w io.Writer, img image.Image, quality int) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
}

func encodePNG(w io.Writer, img image.Image, _ int) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
}

func encodeGIF(w io.Writer, img image.Image, _ int) error {
	return imaging.Encode(w, img, imaging.GIF, imaging.GIFNumColors(gifColors))
}

func encodeWebP(w io.Writer, img image.Image, quality int) error {
	return webp.Encode(w, img, webp.Options{Quality: quality, Method: webpMethod})
}
