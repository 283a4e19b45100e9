package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/texatlas/pkg/pipeline"
	"github.com/matzehuels/texatlas/pkg/sink"
)

// layoutCommand creates the layout command for packing bare sizes.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   packFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout WxH [WxH...]",
		Short: "Pack rectangle sizes without images",
		Long: `Layout packs bare rectangle sizes and prints where each one lands.

Sizes are given as WxH. A leading count repeats a size, so 4x32x32 is four
32x32 rectangles. Placements are listed in input order. With -o the JSON
manifest is written instead of the table.`,
		Example: `  texatlas layout 64x64 4x32x32 100x20
  texatlas layout 3x500x500 --candidates 1024,2048 -o layout.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args, flags, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON manifest to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout packs the sizes and prints or writes the result.
func (c *CLI) runLayout(ctx context.Context, args []string, flags packFlags, output string, noCache bool) error {
	sizes, err := parseSizes(args)
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

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	layout, err := runner.Pack(ctx, sizes, opts)
	if err != nil {
		return err
	}

	if output != "" {
		data, err := sink.RenderJSON(layout)
		if err != nil {
			return err
		}
		if err := writeFile(output, data); err != nil {
			return err
		}
		printSuccess("Packed %d rectangles into %dx%d", len(sizes), layout.Dimension, layout.Dimension)
		printFile(output)
		return nil
	}

	m := sink.NewManifest(layout)
	printManifestSummary(&m)
	printNewline()
	fmt.Println(entryTable(m.Entries))
	return nil
}
