// Package source loads sprite images from disk.
//
// PNG, JPEG, and GIF are decoded by the standard library; BMP, TIFF, and WebP
// by golang.org/x/image. Sprites are named after their path with the
// extension removed, optionally with leading components stripped and a
// prefix added:
//
//	art/chars/hero.png  --strip 1 --prefix ui/  ->  ui/chars/hero
package source

import (
	"context"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/texatlas/pkg/atlas"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
)

// Extensions lists the file extensions LoadDir picks up.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// Sprite is one decoded source image.
type Sprite struct {
	Name  string
	Path  string
	Image image.Image
}

// Size returns the sprite's pixel dimensions.
func (s Sprite) Size() atlas.Size {
	b := s.Image.Bounds()
	return atlas.Size{Width: uint32(b.Dx()), Height: uint32(b.Dy())}
}

// Sizes returns the packer input for sprites, in order.
func Sizes(sprites []Sprite) []atlas.Size {
	sizes := make([]atlas.Size, len(sprites))
	for i, s := range sprites {
		sizes[i] = s.Size()
	}
	return sizes
}

// Images returns the decoded images of sprites, in order.
func Images(sprites []Sprite) []image.Image {
	images := make([]image.Image, len(sprites))
	for i, s := range sprites {
		images[i] = s.Image
	}
	return images
}

// Names returns the sprite names, in order.
func Names(sprites []Sprite) []string {
	names := make([]string, len(sprites))
	for i, s := range sprites {
		names[i] = s.Name
	}
	return names
}

// Option configures a Loader.
type Option func(*Loader)

// WithPrefix prepends p to every sprite name.
func WithPrefix(p string) Option { return func(l *Loader) { l.prefix = p } }

// WithStrip drops the first n path components from sprite names.
func WithStrip(n int) Option { return func(l *Loader) { l.strip = max(n, 0) } }

// WithLogger sets the logger used for skipped files.
func WithLogger(logger *log.Logger) Option { return func(l *Loader) { l.logger = logger } }

// WithConcurrency bounds the number of files decoded at once.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// Loader decodes sprites from files and directories.
type Loader struct {
	prefix  string
	strip   int
	workers int
	logger  *log.Logger
}

// NewLoader returns a Loader with the given options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		workers: runtime.GOMAXPROCS(0),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load decodes sprites from the given paths with default options.
func Load(ctx context.Context, paths ...string) ([]Sprite, error) {
	return NewLoader().Load(ctx, paths...)
}

// LoadDir decodes every supported image under dir with default options.
func LoadDir(ctx context.Context, dir string) ([]Sprite, error) {
	return NewLoader().LoadDir(ctx, dir)
}

// Load decodes sprites from paths. Directories are expanded with LoadDir.
// A file given explicitly must decode; duplicate names are an error.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]Sprite, error) {
	var files []job
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "sprite %s", p)
		}
		if info.IsDir() {
			found, err := l.scan(p)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		files = append(files, job{path: p, name: l.name(filepath.ToSlash(filepath.Clean(p))), strict: true})
	}
	return l.decodeAll(ctx, files)
}

// LoadDir decodes every file under dir whose extension is in Extensions.
// Names are relative to dir. Files that fail to decode are logged and
// skipped.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]Sprite, error) {
	files, err := l.scan(dir)
	if err != nil {
		return nil, err
	}
	return l.decodeAll(ctx, files)
}

type job struct {
	path   string
	name   string
	strict bool
}

func (l *Loader) scan(dir string) ([]job, error) {
	var files []job
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Supported(p) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, job{path: p, name: l.name(filepath.ToSlash(rel))})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return files, nil
}

func (l *Loader) decodeAll(ctx context.Context, files []job) ([]Sprite, error) {
	seen := make(map[string]string, len(files))
	for _, f := range files {
		if prev, ok := seen[f.name]; ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "duplicate sprite name %q (%s and %s)", f.name, prev, f.path)
		}
		seen[f.name] = f.path
	}

	decoded := make([]*Sprite, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := DecodeFile(f.path)
			if err != nil {
				if f.strict {
					return err
				}
				l.logger.Warn("skipping file", "path", f.path, "err", err)
				return nil
			}
			decoded[i] = &Sprite{Name: f.name, Path: f.path, Image: img}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sprites := make([]Sprite, 0, len(files))
	for _, s := range decoded {
		if s != nil {
			sprites = append(sprites, *s)
		}
	}
	return sprites, nil
}

func (l *Loader) name(p string) string {
	p = strings.TrimSuffix(p, path.Ext(p))
	if l.strip > 0 {
		parts := strings.Split(p, "/")
		if len(parts) > l.strip {
			p = strings.Join(parts[l.strip:], "/")
		}
	}
	return l.prefix + p
}

// Supported reports whether p has an extension listed in Extensions.
func Supported(p string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(p)))
}

// DecodeFile opens and decodes one image file.
func DecodeFile(p string) (image.Image, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", p)
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode %s", p)
	}
	return img, nil
}

// Decode decodes an image in any registered format and rejects empty images.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	if b := img.Bounds(); b.Empty() {
		return nil, format, fmt.Errorf("%s image has no pixels", format)
	}
	return img, format, nil
}
