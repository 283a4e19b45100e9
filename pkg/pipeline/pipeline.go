// Package pipeline provides the pack → compose → render pipeline for texatlas.
//
// The CLI and the HTTP server both run atlases through a [Runner], so caching,
// validation, and logging behave the same at every entry point.
//
// # Stages
//
//  1. Pack: compute the layout from sprite sizes ([atlas.Packer])
//  2. Compose: blit sprite pixels into the atlas image ([compose.Compose])
//  3. Render: encode artifacts (PNG image, JSON manifest)
//
// Pack results are cached by a hash of the input sizes and packer options;
// rendered artifacts are cached by the layout plus a hash of the sprite
// pixels.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Border: 1, Formats: []string{"png", "json"}}
//	result, err := runner.Execute(ctx, sprites, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Pack only:
//
//	layout, err := runner.Pack(ctx, sizes, opts)
package pipeline

import (
	"image"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/texatlas/pkg/atlas"
	"github.com/matzehuels/texatlas/pkg/cache"
	"github.com/matzehuels/texatlas/pkg/config"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
)

// Format constants for output formats.
const (
	FormatPNG  = config.FormatPNG
	FormatJSON = config.FormatJSON
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJSON: true,
}

// ValidCompressions is the set of supported PNG compression levels.
var ValidCompressions = map[string]bool{
	config.CompressionDefault: true,
	config.CompressionSpeed:   true,
	config.CompressionBest:    true,
	config.CompressionNone:    true,
}

// Options configures one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Pack options. Border is used as given; 0 means no border.
	Candidates []uint32 `json:"candidates,omitempty"`
	Border     uint32   `json:"border"`

	// Render options
	Bleed       bool     `json:"bleed,omitempty"`
	Formats     []string `json:"formats,omitempty"`
	Compression string   `json:"compression,omitempty"`

	// ImageName is recorded in the JSON manifest as the atlas image file.
	ImageName string `json:"image_name,omitempty"`

	// Refresh skips cache reads but still writes results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// FromConfig builds pipeline options from a loaded configuration.
func FromConfig(cfg *config.Config) Options {
	return Options{
		Candidates:  slices.Clone(cfg.Atlas.Candidates),
		Border:      cfg.Atlas.Border,
		Bleed:       cfg.Atlas.Bleed,
		Formats:     slices.Clone(cfg.Output.Formats),
		Compression: cfg.Output.PNGCompression,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the packed layout, parallel to the input sprites.
	Layout *atlas.Layout

	// LayoutHash is the content hash of the layout.
	LayoutHash string

	// Names are the sprite names, parallel to Layout.Entries.
	Names []string

	// Image is the composed atlas. It is nil when every artifact came from
	// the cache.
	Image *image.NRGBA

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Sprites     int
	Dimension   uint32
	Utilization float64
	PackTime    time.Duration
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if len(o.Candidates) == 0 {
		o.Candidates = slices.Clone(atlas.DefaultCandidates)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG, FormatJSON}
	}
	if o.Compression == "" {
		o.Compression = config.CompressionDefault
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks every field.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	if err := atlas.Candidates(o.Candidates).Validate(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "candidates")
	}
	if o.Border > atlas.MaxBorder {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "border %d exceeds %d", o.Border, atlas.MaxBorder)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if !ValidCompressions[o.Compression] {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "invalid compression: %q", o.Compression)
	}
	return nil
}

// HasFormat reports whether format is requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}

// PackOptions returns packer options.
func (o *Options) PackOptions() []atlas.Option {
	return []atlas.Option{
		atlas.WithCandidates(o.Candidates),
		atlas.WithBorder(o.Border),
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Candidates: o.Candidates,
		Border:     o.Border,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format, sourceHash string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:     format,
		Bleed:      o.Bleed,
		SourceHash: sourceHash,
	}
	if format == FormatPNG {
		opts.Compression = o.Compression
	}
	return opts
}
