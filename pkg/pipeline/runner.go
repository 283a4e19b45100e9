package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/texatlas/pkg/atlas"
	"github.com/matzehuels/texatlas/pkg/cache"
	"github.com/matzehuels/texatlas/pkg/compose"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
	"github.com/matzehuels/texatlas/pkg/observability"
	"github.com/matzehuels/texatlas/pkg/sink"
	"github.com/matzehuels/texatlas/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default lifetime of cached layouts and artifacts
	// when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete pack → compose → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, sprites []source.Sprite, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Names:     source.Names(sprites),
		Artifacts: make(map[string][]byte),
	}
	result.Stats.Sprites = len(sprites)

	// Stage 1: Pack
	packStart := time.Now()
	layout, layoutHit, err := r.PackWithCacheInfo(ctx, source.Sizes(sprites), opts)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	result.Layout = layout
	result.Stats.PackTime = time.Since(packStart)
	result.Stats.Dimension = layout.Dimension
	result.Stats.Utilization = layout.Utilization()
	result.CacheInfo.LayoutHit = layoutHit
	if result.LayoutHash, err = cache.HashJSON(layout); err != nil {
		return nil, fmt.Errorf("hash layout: %w", err)
	}

	opts.Logger.Info("packed atlas",
		"sprites", len(sprites),
		"dimension", layout.Dimension,
		"utilization", fmt.Sprintf("%.1f%%", 100*result.Stats.Utilization),
		"cached", layoutHit,
		"duration", result.Stats.PackTime)

	// Stages 2 and 3: Compose and Render
	renderStart := time.Now()
	observability.Pack().OnRenderStart(ctx, opts.Formats)
	artifacts, img, renderHit, err := r.renderWithCacheInfo(ctx, result.LayoutHash, layout, sprites, opts, &result.Stats)
	observability.Pack().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Image = img
	result.Stats.RenderTime = time.Since(renderStart) - result.Stats.ComposeTime
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", time.Since(renderStart))

	return result, nil
}

// PackWithCacheInfo packs sizes with caching and returns cache hit info.
func (r *Runner) PackWithCacheInfo(ctx context.Context, sizes []atlas.Size, opts Options) (*atlas.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	sizesHash, err := cache.HashJSON(sizes)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.LayoutKey(sizesHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if l, ok := r.cachedLayout(ctx, cacheKey, len(sizes)); ok {
			observability.Cache().OnCacheHit(ctx, "layout")
			return l, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	packer, err := atlas.New(opts.PackOptions()...)
	if err != nil {
		return nil, false, apperrors.FromPack(err)
	}

	start := time.Now()
	observability.Pack().OnPackStart(ctx, len(sizes))
	layout, err := packer.Pack(sizes)
	var dim uint32
	if layout != nil {
		dim = layout.Dimension
	}
	observability.Pack().OnPackComplete(ctx, dim, time.Since(start), err)
	if err != nil {
		return nil, false, apperrors.FromPack(err)
	}

	if data, err := json.Marshal(layout); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLLayout)); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return layout, false, nil
}

// Pack is a convenience wrapper that calls PackWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Pack(ctx context.Context, sizes []atlas.Size, opts Options) (*atlas.Layout, error) {
	l, _, err := r.PackWithCacheInfo(ctx, sizes, opts)
	return l, err
}

func (r *Runner) cachedLayout(ctx context.Context, key string, n int) (*atlas.Layout, bool) {
	var l atlas.Layout
	if err := cache.GetJSON(ctx, r.Cache, key, &l); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			r.Logger.Debug("cache read failed", "key", key, "err", err)
		}
		return nil, false
	}
	// A damaged entry is recomputed rather than trusted.
	if len(l.Entries) != n || l.Validate() != nil {
		return nil, false
	}
	return &l, true
}

// Render composes and encodes artifacts for an existing layout.
func (r *Runner) Render(ctx context.Context, layout *atlas.Layout, sprites []source.Sprite, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	layoutHash, err := cache.HashJSON(layout)
	if err != nil {
		return nil, err
	}
	var stats Stats
	artifacts, _, _, err := r.renderWithCacheInfo(ctx, layoutHash, layout, sprites, opts, &stats)
	return artifacts, err
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, layoutHash string, layout *atlas.Layout, sprites []source.Sprite, opts Options, stats *Stats) (map[string][]byte, *image.NRGBA, bool, error) {
	sourceHash := hashSources(sprites, opts.ImageName)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, sourceHash))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, nil, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	var img *image.NRGBA
	if opts.HasFormat(FormatPNG) {
		composeStart := time.Now()
		var err error
		img, err = compose.Compose(ctx, layout, source.Images(sprites), compose.WithBleed(opts.Bleed))
		if err != nil {
			return nil, nil, false, err
		}
		stats.ComposeTime = time.Since(composeStart)
		opts.Logger.Debug("composed atlas", "duration", stats.ComposeTime)
	}

	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch format {
		case FormatPNG:
			data, err = sink.RenderPNG(img, sink.WithCompression(opts.Compression))
		case FormatJSON:
			data, err = sink.RenderJSON(layout, sink.WithNames(source.Names(sprites)), sink.WithSource(opts.ImageName))
		}
		if err != nil {
			return nil, nil, false, fmt.Errorf("%s: %w", format, err)
		}
		rendered[format] = data

		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, sourceHash))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, img, false, nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// LayoutFromJSON decodes a layout previously cached or stored as JSON.
func LayoutFromJSON(data []byte) (*atlas.Layout, error) {
	var l atlas.Layout
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&l); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if err := l.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "invalid layout")
	}
	return &l, nil
}
