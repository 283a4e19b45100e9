// Package config loads texatlas settings from a TOML file.
//
// Lookup order: an explicit path (--config), then ./texatlas.toml, then
// built-in defaults. Command-line flags override file values; that merge
// happens in the CLI.
//
// # File format
//
//	[atlas]
//	candidates = [8, 16, 32, 64, 128, 256, 512, 1024]
//	border = 1
//	bleed = false
//
//	[output]
//	formats = ["png", "json"]
//	png_compression = "default"
//
//	[cache]
//	redis_url = ""
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
//	mongo_uri = ""
//
//	[[sprite]]
//	name = "hero"
//	path = "art/hero.png"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/texatlas/pkg/atlas"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "texatlas.toml"

// PNG compression levels accepted in [output].
const (
	CompressionDefault = "default"
	CompressionSpeed   = "speed"
	CompressionBest    = "best"
	CompressionNone    = "none"
)

// Output formats accepted in [output].
const (
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Config is the full configuration file.
type Config struct {
	Atlas   Atlas    `toml:"atlas"`
	Output  Output   `toml:"output"`
	Cache   Cache    `toml:"cache"`
	Server  Server   `toml:"server"`
	Sprites []Sprite `toml:"sprite"`

	// path is the file the config was read from, empty for defaults.
	path string
}

// Atlas holds packer settings.
type Atlas struct {
	Candidates []uint32 `toml:"candidates"`
	Border     uint32   `toml:"border"`
	Bleed      bool     `toml:"bleed"`
}

// Output holds artifact settings.
type Output struct {
	Path           string   `toml:"path"`
	Formats        []string `toml:"formats"`
	PNGCompression string   `toml:"png_compression"`
}

// Cache holds layout cache settings.
type Cache struct {
	Disabled bool     `toml:"disabled"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Server holds HTTP API settings.
type Server struct {
	Addr          string `toml:"addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Sprite is one source image listed in the config file. Relative paths are
// resolved against the config file's directory.
type Sprite struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Duration is a time.Duration that decodes from TOML strings like "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Atlas: Atlas{
			Candidates: slices.Clone(atlas.DefaultCandidates),
			Border:     atlas.DefaultBorder,
		},
		Output: Output{
			Path:           "atlas",
			Formats:        []string{FormatPNG, FormatJSON},
			PNGCompression: CompressionDefault,
		},
		Cache: Cache{
			TTL: Duration{7 * 24 * time.Hour},
		},
		Server: Server{
			Addr:          ":8080",
			MongoDatabase: "texatlas",
		},
	}
}

// Load reads the config at path on top of the defaults. An empty path looks
// for DefaultFile in the working directory and falls back to the defaults
// when it does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}

	cfg.path = path
	cfg.resolveSprites(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses TOML data on top of the defaults. Sprite paths are left as
// written.
func Decode(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string { return c.path }

func (c *Config) resolveSprites(base string) {
	for i, s := range c.Sprites {
		if s.Path != "" && !filepath.IsAbs(s.Path) {
			c.Sprites[i].Path = filepath.Join(base, s.Path)
		}
	}
}

// Validate checks all sections.
func (c *Config) Validate() error {
	if err := c.Candidates().Validate(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "atlas.candidates")
	}
	if c.Atlas.Border > atlas.MaxBorder {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "atlas.border %d exceeds %d", c.Atlas.Border, atlas.MaxBorder)
	}
	for _, f := range c.Output.Formats {
		if f != FormatPNG && f != FormatJSON {
			return apperrors.New(apperrors.ErrCodeInvalidFormat, "output.formats: invalid format %q (must be png or json)", f)
		}
	}
	switch c.Output.PNGCompression {
	case CompressionDefault, CompressionSpeed, CompressionBest, CompressionNone:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "output.png_compression: invalid value %q", c.Output.PNGCompression)
	}
	if c.Cache.TTL.Duration < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	seen := make(map[string]bool, len(c.Sprites))
	for i, s := range c.Sprites {
		if s.Path == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "sprite %d: path is required", i)
		}
		if s.Name == "" {
			continue
		}
		if err := apperrors.ValidateSpriteName(s.Name); err != nil {
			return fmt.Errorf("sprite %d: %w", i, err)
		}
		if seen[s.Name] {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "sprite %d: duplicate name %q", i, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Candidates returns the configured candidate list as atlas.Candidates.
func (c *Config) Candidates() atlas.Candidates {
	return atlas.Candidates(c.Atlas.Candidates)
}

// PackOptions returns packer options for the [atlas] section.
func (c *Config) PackOptions() []atlas.Option {
	return []atlas.Option{
		atlas.WithCandidates(c.Candidates()),
		atlas.WithBorder(c.Atlas.Border),
	}
}
