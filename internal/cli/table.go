package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/texatlas/pkg/sink"
)

var entryHeaders = []string{"#", "Name", "X", "Y", "W", "H", "UV"}

// entryRow formats one manifest entry as a table row.
func entryRow(e sink.ManifestEntry) []string {
	name := e.Name
	if name == "" {
		name = "-"
	}
	return []string{
		fmt.Sprint(e.ID),
		name,
		fmt.Sprint(e.X),
		fmt.Sprint(e.Y),
		fmt.Sprint(e.Width),
		fmt.Sprint(e.Height),
		fmt.Sprintf("%.4f,%.4f %.4fx%.4f", e.U, e.V, e.UW, e.VH),
	}
}

// entryTable renders entries as a bordered table.
func entryTable(entries []sink.ManifestEntry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = entryRow(e)
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(entryHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}

// printManifestSummary prints the header lines shared by layout and inspect.
func printManifestSummary(m *sink.Manifest) {
	printKeyValue("Dimension", fmt.Sprintf("%dx%d", m.Dimension, m.Dimension))
	printKeyValue("Border", fmt.Sprint(m.Border))
	printKeyValue("Sprites", fmt.Sprint(len(m.Entries)))
	printKeyValue("Utilization", fmt.Sprintf("%.1f%%", m.Utilization*100))
	if m.Image != "" {
		printKeyValue("Image", m.Image)
	}
}
