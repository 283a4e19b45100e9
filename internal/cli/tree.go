package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/texatlas/pkg/atlas"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
	"github.com/matzehuels/texatlas/pkg/pipeline"
	"github.com/matzehuels/texatlas/pkg/render/treeviz"
	"github.com/matzehuels/texatlas/pkg/source"
)

// treeCommand creates the tree command, a debug view of the packing tree.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		flags     packFlags
		output    string
		format    string
		hideEmpty bool
	)

	cmd := &cobra.Command{
		Use:   "tree <WxH...|dir|file...>",
		Short: "Render the packing tree as SVG or DOT",
		Long: `Tree packs the inputs and renders the binary space partition behind the
layout: every split, every placed sprite, and the free space left over.

Inputs are either WxH sizes or sprite directories and files. The format is
taken from the output extension (.svg or .dot) unless --format is given;
without -o the DOT source is printed.`,
		Example: `  texatlas tree 64x64 4x32x32 -o tree.svg
  texatlas tree sprites/ --hide-empty | dot -Tpng > tree.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), args, flags, output, format, hideEmpty)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: svg, dot")
	cmd.Flags().BoolVar(&hideEmpty, "hide-empty", false, "omit free leaves")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, args []string, flags packFlags, output, format string, hideEmpty bool) error {
	format, err := treeFormat(format, output)
	if err != nil {
		return err
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}
	opts := pipeline.FromConfig(cfg)
	if err := flags.apply(&opts); err != nil {
		return err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	sizes, names, err := treeInputs(ctx, args)
	if err != nil {
		return err
	}

	packer, err := atlas.New(opts.PackOptions()...)
	if err != nil {
		return apperrors.FromPack(err)
	}
	_, tree, err := packer.PackTree(sizes)
	if err != nil {
		return apperrors.FromPack(err)
	}

	data := []byte(treeviz.ToDOT(tree, treeviz.Options{Names: names, HideEmpty: hideEmpty}))
	if output == "" {
		if format == "svg" {
			if data, err = treeviz.RenderSVG(string(data)); err != nil {
				return err
			}
		}
		_, err := os.Stdout.Write(data)
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering packing tree (%d nodes)...", len(tree.Nodes)))
	spinner.Start()
	if format == "svg" {
		if data, err = treeviz.RenderSVG(string(data)); err != nil {
			if spinner.Cancelled() {
				spinner.Stop()
				return ctx.Err()
			}
			spinner.StopWithError("Could not render SVG")
			return err
		}
	}
	if err := writeFile(output, data); err != nil {
		spinner.StopWithError("Could not write tree")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered packing tree (%d nodes)", len(tree.Nodes)))
	printFile(output)
	return nil
}

// treeFormat resolves the output format from the flag or the file extension.
func treeFormat(format, output string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
		if format == "" {
			format = "dot"
		}
	}
	switch format {
	case "svg", "dot":
		return format, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported tree format %q (want svg or dot)", format)
}

// treeInputs reads sizes from WxH arguments, or sprites when any argument
// is not a size.
func treeInputs(ctx context.Context, args []string) ([]atlas.Size, []string, error) {
	if sizes, err := parseSizes(args); err == nil {
		return sizes, nil, nil
	}
	sprites, err := source.NewLoader(source.WithLogger(loggerFromContext(ctx))).Load(ctx, args...)
	if err != nil {
		return nil, nil, err
	}
	return source.Sizes(sprites), source.Names(sprites), nil
}
