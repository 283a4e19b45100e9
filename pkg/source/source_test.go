package source

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/matzehuels/texatlas/pkg/atlas"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
)

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg":
		err = jpeg.Encode(f, img, nil)
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		_, err = f.WriteString("not an image")
	}
	if err != nil {
		t.Fatal(err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "hero.png"), 16, 8)
	writeImage(t, filepath.Join(dir, "props", "tree.jpg"), 4, 4)
	writeImage(t, filepath.Join(dir, "props", "rock.bmp"), 3, 5)
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	sprites, err := LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir error: %v", err)
	}

	wantNames := []string{"hero", "props/rock", "props/tree"}
	if got := Names(sprites); !reflect.DeepEqual(got, wantNames) {
		t.Errorf("names = %v, want %v", got, wantNames)
	}
	wantSizes := []atlas.Size{{Width: 16, Height: 8}, {Width: 3, Height: 5}, {Width: 4, Height: 4}}
	if got := Sizes(sprites); !reflect.DeepEqual(got, wantSizes) {
		t.Errorf("sizes = %v, want %v", got, wantSizes)
	}
	if len(Images(sprites)) != 3 {
		t.Errorf("Images() len = %d", len(Images(sprites)))
	}
}

func TestLoadNaming(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "art", "chars", "hero.png")
	writeImage(t, p, 2, 2)

	wd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"default", nil, "art/chars/hero"},
		{"strip", []Option{WithStrip(1)}, "chars/hero"},
		{"strip all keeps path", []Option{WithStrip(5)}, "art/chars/hero"},
		{"prefix", []Option{WithStrip(2), WithPrefix("ui/")}, "ui/hero"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sprites, err := NewLoader(tt.opts...).Load(context.Background(), filepath.Join("art", "chars", "hero.png"))
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if sprites[0].Name != tt.want {
				t.Errorf("name = %q, want %q", sprites[0].Name, tt.want)
			}
		})
	}
}

func TestLoadExplicitErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(context.Background(), bad)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("undecodable file: err = %v", err)
	}

	_, err = Load(context.Background(), filepath.Join(dir, "missing.png"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestLoadDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a", "x.png"), 2, 2)
	writeImage(t, filepath.Join(dir, "b", "x.png"), 2, 2)

	_, err := NewLoader(WithStrip(1)).LoadDir(context.Background(), dir)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestLoadCancelled(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), 2, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadDir(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSupported(t *testing.T) {
	for _, p := range []string{"a.png", "a.PNG", "b.webp", "c.tiff", "d.jpeg"} {
		if !Supported(p) {
			t.Errorf("Supported(%q) = false", p)
		}
	}
	for _, p := range []string{"a.txt", "b", "c.svg"} {
		if Supported(p) {
			t.Errorf("Supported(%q) = true", p)
		}
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatal(err)
	}
	img, format, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if format != "png" || img.Bounds().Dx() != 3 {
		t.Errorf("format = %s, bounds = %v", format, img.Bounds())
	}
}
