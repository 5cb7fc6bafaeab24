package domain

import "strings"

type ResizeMode string

const (
	ResizeOriginal ResizeMode = "original"
	ResizeCustom   ResizeMode = "custom"
	ResizeScale    ResizeMode = "scale"
)

type OutputFormat string

const (
	FormatJPEG OutputFormat = "jpg"
	FormatPNG  OutputFormat = "png"
	FormatWebP OutputFormat = "webp"
	FormatGIF  OutputFormat = "gif"
)

const (
	OptimizedQuality = 0.85
	HighQuality      = 0.95
)

// TransformConfig describes a single conversion. Width, Height and Percent hold the raw
// user input; ResolveGeometry decides whether they are usable.
type TransformConfig struct {
	Resize     ResizeMode
	Width      string
	Height     string
	Percent    string
	SmartFocus bool
	Format     OutputFormat
	Optimize   bool
}

// Rect is a sub-rectangle of the source image in source pixel coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type Geometry struct {
	TargetWidth  int
	TargetHeight int
	// Crop is nil when the whole source is scaled.
	Crop *Rect
}

type EncodedResult struct {
	Data      []byte
	MimeType  string
	Extension string
	Width     int
	Height    int
	Quality   float64
}

// ConvertResult is delivered once per conversion on the pipeline's completion channel.
type ConvertResult struct {
	Result *EncodedResult
	Err    error
}

// ParseFormat normalizes user input. Unknown values are kept as-is and encode as JPEG.
func ParseFormat(s string) OutputFormat {
	f := OutputFormat(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	if f == "jpeg" {
		return FormatJPEG
	}
	return f
}

// Supported reports whether f has a dedicated codec rather than the JPEG fallback.
func (f OutputFormat) Supported() bool {
	switch f {
	case FormatJPEG, FormatPNG, FormatWebP, FormatGIF:
		return true
	default:
		return false
	}
}

// Effective returns the format actually produced for f.
func (f OutputFormat) Effective() OutputFormat {
	if f.Supported() {
		return f
	}
	return FormatJPEG
}

func (f OutputFormat) MimeType() string {
	switch f.Effective() {
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	case FormatGIF:
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// Extension returns the file extension without dot.
func (f OutputFormat) Extension() string {
	return string(f.Effective())
}

// Lossy reports whether the codec for f uses the quality parameter.
func (f OutputFormat) Lossy() bool {
	switch f.Effective() {
	case FormatPNG, FormatGIF:
		return false
	default:
		return true
	}
}

// QualityFor maps the optimize toggle to the encoder quality.
func QualityFor(optimize bool) float64 {
	if optimize {
		return OptimizedQuality
	}
	return HighQuality
}
