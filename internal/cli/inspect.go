package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/texatlas/pkg/errors"
	"github.com/matzehuels/texatlas/pkg/sink"
)

// inspectCommand creates the inspect command for browsing a manifest.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain  bool
		sprite string
	)

	cmd := &cobra.Command{
		Use:   "inspect <atlas.json>",
		Short: "Browse the sprites of an atlas manifest",
		Long: `Inspect opens an interactive browser over the entries of an atlas manifest.

Use --plain to print a table instead, or --sprite to look up one sprite.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sink.ReadJSONFile(args[0])
			if err != nil {
				return err
			}
			switch {
			case sprite != "":
				return printEntry(m, sprite)
			case plain:
				printManifestSummary(m)
				printNewline()
				fmt.Println(entryTable(m.Entries))
				return nil
			}

			_, err = tea.NewProgram(NewEntryListModel(m), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a table instead of the interactive browser")
	cmd.Flags().StringVar(&sprite, "sprite", "", "print the entry for one sprite name")

	return cmd
}

// printEntry prints the placement of a single named sprite.
func printEntry(m *sink.Manifest, name string) error {
	e, ok := m.Lookup(name)
	if !ok {
		return apperrors.New(apperrors.ErrCodeNotFound, "sprite %q not in manifest", name)
	}
	printKeyValue("Name", e.Name)
	printKeyValue("ID", fmt.Sprint(e.ID))
	printKeyValue("Position", fmt.Sprintf("%d,%d", e.X, e.Y))
	printKeyValue("Size", fmt.Sprintf("%dx%d", e.Width, e.Height))
	printKeyValue("UV", fmt.Sprintf("%.6f,%.6f", e.U, e.V))
	printKeyValue("UV size", fmt.Sprintf("%.6fx%.6f", e.UW, e.VH))
	return nil
}
