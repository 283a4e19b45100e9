package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/texatlas/pkg/config"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
	"github.com/matzehuels/texatlas/pkg/pipeline"
	"github.com/matzehuels/texatlas/pkg/source"
)

// packOpts holds the flags for the pack command.
type packOpts struct {
	packFlags
	output      string
	formats     string
	compression string
	bleed       bool
	prefix      string
	strip       int
	noCache     bool
	refresh     bool
	quiet       bool
}

// packCommand creates the pack command.
func (c *CLI) packCommand() *cobra.Command {
	opts := packOpts{}

	cmd := &cobra.Command{
		Use:   "pack [dir|file...]",
		Short: "Pack sprites into an atlas image and manifest",
		Long: `Pack decodes every image in the given directories and files, packs them into
the smallest fitting power-of-two square, and writes the atlas image and a JSON
manifest next to each other.

With no arguments the sprites listed in the config file are packed.`,
		Example: `  # Pack a directory of sprites into atlas.png and atlas.json
  texatlas pack sprites/

  # Custom output, no border, edge bleed
  texatlas pack sprites/ -o build/ui.png --border 0 --bleed

  # Manifest only
  texatlas pack sprites/ --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPack(cmd.Context(), args, opts, cmd.Flags().Changed("bleed"))
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path without extension (default from config, atlas)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: png,json (default from config)")
	cmd.Flags().StringVar(&opts.compression, "compression", "", "png compression: default, speed, best, none")
	cmd.Flags().BoolVar(&opts.bleed, "bleed", false, "extrude sprite edges into the border")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "prefix added to every sprite name")
	cmd.Flags().IntVar(&opts.strip, "strip", 0, "leading path components removed from sprite names")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results and recompute")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress output")

	return cmd
}

// runPack executes the pack command.
func (c *CLI) runPack(ctx context.Context, args []string, opts packOpts, bleedSet bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	pipeOpts := pipeline.FromConfig(cfg)
	if err := opts.apply(&pipeOpts); err != nil {
		return err
	}
	if bleedSet {
		pipeOpts.Bleed = opts.bleed
	}
	if opts.formats != "" {
		pipeOpts.Formats = parseFormats(opts.formats)
	}
	if opts.compression != "" {
		pipeOpts.Compression = opts.compression
	}
	pipeOpts.Refresh = opts.refresh
	pipeOpts.Logger = loggerFromContext(ctx)

	output := opts.output
	if output == "" {
		output = cfg.Output.Path
	}
	base := basePath(output)
	if err := apperrors.ValidateOutputPath(base); err != nil {
		return err
	}
	pipeOpts.ImageName = filepath.Base(base) + "." + pipeline.FormatPNG

	var spinner *Spinner
	if !opts.quiet {
		spinner = newSpinner(ctx, "Loading sprites...")
		spinner.Start()
	}

	sprites, err := c.loadSprites(ctx, cfg, args, opts)
	if err != nil {
		spinner.StopWithError("Could not load sprites")
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		spinner.StopWithError("Could not open cache")
		return err
	}
	defer runner.Close()

	spinner.Update(fmt.Sprintf("Packing %d sprites...", len(sprites)))
	prog := newProgress(loggerFromContext(ctx))
	result, err := runner.Execute(ctx, sprites, pipeOpts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Pack failed")
		return err
	}

	spinner.Update("Writing outputs...")
	var written []string
	for _, format := range pipeOpts.Formats {
		path := base + "." + format
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			spinner.StopWithError("Could not write outputs")
			return err
		}
		written = append(written, path)
	}
	prog.done("wrote atlas", "files", len(written))

	spinner.StopWithSuccess("Packed atlas")
	if opts.quiet {
		return nil
	}
	printStats(result.Stats.Sprites, result.Stats.Dimension, result.Stats.Utilization,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	for _, path := range written {
		printFile(path)
	}
	if pipeOpts.HasFormat(pipeline.FormatJSON) {
		printNewline()
		printNextStep("Browse the layout", "texatlas inspect "+base+".json")
	}
	return nil
}

// loadSprites decodes the sprites named by args, or those listed in the
// config when args is empty.
func (c *CLI) loadSprites(ctx context.Context, cfg *config.Config, args []string, opts packOpts) ([]source.Sprite, error) {
	loader := source.NewLoader(
		source.WithPrefix(opts.prefix),
		source.WithStrip(opts.strip),
		source.WithLogger(loggerFromContext(ctx)),
	)

	if len(args) > 0 {
		return loader.Load(ctx, args...)
	}
	if len(cfg.Sprites) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
			"no sprites given: pass directories or files, or list [[sprite]] entries in %s", config.DefaultFile)
	}

	paths := make([]string, len(cfg.Sprites))
	names := make(map[string]string, len(cfg.Sprites))
	for i, sp := range cfg.Sprites {
		paths[i] = sp.Path
		if sp.Name != "" {
			names[sp.Path] = sp.Name
		}
	}
	sprites, err := loader.Load(ctx, paths...)
	if err != nil {
		return nil, err
	}

	// Explicit names in the config override path-derived ones.
	seen := make(map[string]bool, len(sprites))
	for i := range sprites {
		if name, ok := names[sprites[i].Path]; ok {
			if err := apperrors.ValidateSpriteName(name); err != nil {
				return nil, err
			}
			sprites[i].Name = name
		}
		if seen[sprites[i].Name] {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "duplicate sprite name %q", sprites[i].Name)
		}
		seen[sprites[i].Name] = true
	}
	return sprites, nil
}
