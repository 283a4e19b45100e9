package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/texatlas/pkg/atlas"
	"github.com/matzehuels/texatlas/pkg/buildinfo"
	"github.com/matzehuels/texatlas/pkg/cache"
	"github.com/matzehuels/texatlas/pkg/config"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
	"github.com/matzehuels/texatlas/pkg/observability"
	"github.com/matzehuels/texatlas/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "texatlas"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline,
// cache, and server hooks are logged too.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		(&observability.LogHooks{Logger: c.Logger}).Install()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "texatlas packs sprites into power-of-two texture atlases",
		Long:         `texatlas packs independently sized images into a single square power-of-two texture atlas and writes the atlas image plus a JSON manifest of pixel and UV rectangles.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./"+config.DefaultFile+" if present)")

	root.AddCommand(c.packCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path() != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path())
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	ca, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(ca, nil, c.Logger)
	runner.TTL = cfg.Cache.TTL.Duration
	return runner, nil
}

// newCache picks the cache backend: none, Redis when configured, else the
// local file cache. An unusable cache directory disables caching.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.Cache.RedisURL})
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		c.Logger.Debug("using redis cache")
		return rc, nil
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/texatlas/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// basePath strips a known artifact extension from output so that
// "atlas.png" and "atlas" both produce atlas.png and atlas.json.
func basePath(output string) string {
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// Flag Parsing
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatPNG, pipeline.FormatJSON}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseCandidates parses "256,512,1024" into a validated candidate list.
func parseCandidates(s string) ([]uint32, error) {
	var out []uint32
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid candidate %q", part)
		}
		out = append(out, uint32(n))
	}
	if err := atlas.Candidates(out).Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "--candidates")
	}
	return out, nil
}

// parseSize parses "WxH" (for example "64x32").
func parseSize(s string) (atlas.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return atlas.Size{}, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid size %q (want WxH)", s)
	}
	wn, err1 := strconv.ParseUint(w, 10, 32)
	hn, err2 := strconv.ParseUint(h, 10, 32)
	if err1 != nil || err2 != nil {
		return atlas.Size{}, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid size %q (want WxH)", s)
	}
	return atlas.Size{Width: uint32(wn), Height: uint32(hn)}, nil
}

// parseSizes parses every argument with parseSize. An argument of the form
// "NxWxH" repeats a size N times.
func parseSizes(args []string) ([]atlas.Size, error) {
	var sizes []atlas.Size
	for _, arg := range args {
		count := 1
		if parts := strings.SplitN(strings.ToLower(arg), "x", 3); len(parts) == 3 {
			n, err := strconv.Atoi(parts[0])
			if err != nil || n < 1 {
				return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid repeat in %q", arg)
			}
			count = n
			arg = parts[1] + "x" + parts[2]
		}
		sz, err := parseSize(arg)
		if err != nil {
			return nil, err
		}
		for range count {
			sizes = append(sizes, sz)
		}
	}
	return sizes, nil
}

// packFlags are the packer flags shared by pack, layout, and tree.
type packFlags struct {
	border     int
	candidates string
}

func (f *packFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.border, "border", -1, "border in pixels on each side (default from config, 1)")
	cmd.Flags().StringVar(&f.candidates, "candidates", "", "comma-separated power-of-two atlas sizes (default from config)")
}

// apply overrides config values with flags the user set.
func (f *packFlags) apply(opts *pipeline.Options) error {
	if f.border >= 0 {
		opts.Border = uint32(f.border)
	}
	if f.candidates != "" {
		c, err := parseCandidates(f.candidates)
		if err != nil {
			return err
		}
		opts.Candidates = c
	}
	return nil
}
