package sink

import (
	"bytes"
	"image"
	"image/png"

	apperrors "github.com/matzehuels/texatlas/pkg/errors"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	level png.CompressionLevel
}

// WithCompression sets the compression level by name: "default", "speed",
// "best", or "none". Unknown names keep the default.
func WithCompression(name string) PNGOption {
	return func(r *pngRenderer) {
		if level, ok := compressionLevels[name]; ok {
			r.level = level
		}
	}
}

var compressionLevels = map[string]png.CompressionLevel{
	"default": png.DefaultCompression,
	"speed":   png.BestSpeed,
	"best":    png.BestCompression,
	"none":    png.NoCompression,
}

// RenderPNG encodes img as PNG.
func RenderPNG(img image.Image, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{level: png.DefaultCompression}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: r.level}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
