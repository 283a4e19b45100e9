// Package compose blits source images into an atlas using a packed layout.
package compose

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/texatlas/pkg/atlas"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
)

// Option configures Compose.
type Option func(*options)

type options struct {
	bleed   bool
	workers int
}

// WithBleed extrudes each sprite's edge pixels into its border so that
// filtered sampling at the sprite edge never reads a neighbour.
func WithBleed(enabled bool) Option { return func(o *options) { o.bleed = enabled } }

// WithConcurrency bounds the number of concurrent blits.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// Compose returns a Dimension x Dimension image with images[i] copied to
// layout.Entries[i]. The background is fully transparent. Each image's bounds
// must match its entry's size.
//
// Blits run concurrently; layout rectangles never overlap, so every worker
// writes a disjoint set of pixels.
func Compose(ctx context.Context, layout *atlas.Layout, images []image.Image, opts ...Option) (*image.NRGBA, error) {
	o := options{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}

	if len(images) != len(layout.Entries) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
			"layout has %d entries but %d images were given", len(layout.Entries), len(images))
	}
	for i, e := range layout.Entries {
		if images[i] == nil {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "image %d is nil", i)
		}
		size := images[i].Bounds().Size()
		if size.X != int(e.Width) || size.Y != int(e.Height) {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
				"image %d is %dx%d but its layout entry is %dx%d", i, size.X, size.Y, e.Width, e.Height)
		}
	}

	dst := image.NewNRGBA(layout.Bounds())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, e := range layout.Entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src := images[i]
			r := e.Rect()
			draw.Draw(dst, r, src, src.Bounds().Min, draw.Src)
			if o.bleed {
				extrude(dst, r, int(layout.Border))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	return dst, nil
}

// extrude copies the edge pixels of r outward into the surrounding border.
// Corner pixels take the nearest corner of r.
func extrude(dst *image.NRGBA, r image.Rectangle, border int) {
	if border == 0 || r.Empty() {
		return
	}
	outer := r.Inset(-border).Intersect(dst.Rect)
	for y := outer.Min.Y; y < outer.Max.Y; y++ {
		sy := clamp(y, r.Min.Y, r.Max.Y-1)
		for x := outer.Min.X; x < outer.Max.X; x++ {
			if y >= r.Min.Y && y < r.Max.Y && x == r.Min.X {
				// Skip the interior of this row.
				x = r.Max.X - 1
				continue
			}
			sx := clamp(x, r.Min.X, r.Max.X-1)
			dst.SetNRGBA(x, y, dst.NRGBAAt(sx, sy))
		}
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
