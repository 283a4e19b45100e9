package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/texatlas/pkg/atlas"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if !reflect.DeepEqual(cfg.Candidates(), atlas.DefaultCandidates) {
		t.Errorf("Candidates = %v", cfg.Candidates())
	}
	if cfg.Atlas.Border != 1 {
		t.Errorf("Border = %d, want 1", cfg.Atlas.Border)
	}
	if cfg.Cache.TTL.Duration != 7*24*time.Hour {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}

	// Mutating the default must not leak into the atlas package.
	cfg.Atlas.Candidates[0] = 4
	if atlas.DefaultCandidates[0] != 8 {
		t.Error("Default() shares the candidate slice")
	}
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(`
[atlas]
candidates = [256, 512, 2048]
border = 2
bleed = true

[output]
formats = ["json"]
png_compression = "best"

[cache]
ttl = "24h"
redis_url = "redis://localhost:6379/0"

[server]
addr = ":9000"

[[sprite]]
name = "hero"
path = "art/hero.png"

[[sprite]]
path = "art/tree.png"
`)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	if !reflect.DeepEqual(cfg.Atlas.Candidates, []uint32{256, 512, 2048}) {
		t.Errorf("Candidates = %v", cfg.Atlas.Candidates)
	}
	if cfg.Atlas.Border != 2 || !cfg.Atlas.Bleed {
		t.Errorf("Atlas = %+v", cfg.Atlas)
	}
	if !reflect.DeepEqual(cfg.Output.Formats, []string{"json"}) || cfg.Output.PNGCompression != "best" {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Cache.TTL.Duration != 24*time.Hour {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.MongoDatabase != "texatlas" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if len(cfg.Sprites) != 2 || cfg.Sprites[0].Name != "hero" {
		t.Errorf("Sprites = %+v", cfg.Sprites)
	}
	if cfg.Output.Path != "atlas" {
		t.Errorf("unset output.path should keep default, got %q", cfg.Output.Path)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		code apperrors.Code
	}{
		{"syntax", `[atlas`, apperrors.ErrCodeInvalidConfig},
		{"candidates", "[atlas]\ncandidates = [8, 12]", apperrors.ErrCodeInvalidConfig},
		{"border", "[atlas]\nborder = 40", apperrors.ErrCodeInvalidConfig},
		{"format", "[output]\nformats = [\"gif\"]", apperrors.ErrCodeInvalidFormat},
		{"compression", "[output]\npng_compression = \"max\"", apperrors.ErrCodeInvalidConfig},
		{"ttl", "[cache]\nttl = \"soon\"", apperrors.ErrCodeInvalidConfig},
		{"sprite path", "[[sprite]]\nname = \"a\"", apperrors.ErrCodeInvalidConfig},
		{"duplicate", "[[sprite]]\nname = \"a\"\npath = \"a.png\"\n[[sprite]]\nname = \"a\"\npath = \"b.png\"", apperrors.ErrCodeInvalidConfig},
		{"bad name", "[[sprite]]\nname = \"../a\"\npath = \"a.png\"", apperrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperrors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v (%v)", apperrors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestLoadResolvesSprites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "texatlas.toml")
	data := "[[sprite]]\nname = \"hero\"\npath = \"art/hero.png\"\n[[sprite]]\npath = \"/abs/tree.png\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
	if want := filepath.Join(dir, "art", "hero.png"); cfg.Sprites[0].Path != want {
		t.Errorf("relative sprite path = %q, want %q", cfg.Sprites[0].Path, want)
	}
	if cfg.Sprites[1].Path != "/abs/tree.png" {
		t.Errorf("absolute sprite path changed: %q", cfg.Sprites[1].Path)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file: err = %v", err)
	}

	wd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("implicit missing file should use defaults: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("defaults should have empty Path, got %q", cfg.Path())
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	if err := os.WriteFile(path, []byte("[atlas]\nborders = 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("unknown key: err = %v", err)
	}
}

func TestPackOptions(t *testing.T) {
	cfg, err := Decode("[atlas]\ncandidates = [64]\nborder = 0\n")
	if err != nil {
		t.Fatal(err)
	}
	p, err := atlas.New(cfg.PackOptions()...)
	if err != nil {
		t.Fatalf("atlas.New error: %v", err)
	}
	if p.Border() != 0 || !reflect.DeepEqual(p.Candidates(), atlas.Candidates{64}) {
		t.Errorf("packer = border %d candidates %v", p.Border(), p.Candidates())
	}
}
