package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/texatlas/pkg/sink"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// EntryListModel - Interactive manifest browser
// =============================================================================

// EntryListModel is the bubbletea model for browsing manifest entries.
// Typing "/" starts a name filter; enter or esc ends it.
type EntryListModel struct {
	Manifest *sink.Manifest
	Visible  []sink.ManifestEntry
	Cursor   int
	Offset   int
	Height   int

	Filter    string
	Filtering bool
}

// NewEntryListModel creates a browser over every entry of m.
func NewEntryListModel(m *sink.Manifest) EntryListModel {
	return EntryListModel{
		Manifest: m,
		Visible:  m.Entries,
		Height:   15,
	}
}

// Current returns the entry under the cursor.
func (m EntryListModel) Current() (sink.ManifestEntry, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Visible) {
		return sink.ManifestEntry{}, false
	}
	return m.Visible[m.Cursor], true
}

func (m EntryListModel) Init() tea.Cmd {
	return nil
}

func (m EntryListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering {
			return m.updateFilter(msg), nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "/":
			m.Filtering = true
		case "up", "k":
			m = m.move(-1)
		case "down", "j":
			m = m.move(1)
		case "pgup":
			m = m.move(-m.Height)
		case "pgdown":
			m = m.move(m.Height)
		case "home", "g":
			m = m.move(-len(m.Visible))
		case "end", "G":
			m = m.move(len(m.Visible))
		}
	case tea.WindowSizeMsg:
		// Title, help, table borders, header, detail block.
		m.Height = max(msg.Height-12, 5)
		m = m.move(0)
	}
	return m, nil
}

func (m EntryListModel) updateFilter(msg tea.KeyMsg) EntryListModel {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.Filtering = false
	case tea.KeyBackspace:
		if m.Filter != "" {
			r := []rune(m.Filter)
			m.Filter = string(r[:len(r)-1])
		}
	case tea.KeyRunes:
		m.Filter += string(msg.Runes)
	default:
		return m
	}
	m.Visible = filterEntries(m.Manifest.Entries, m.Filter)
	m.Cursor, m.Offset = 0, 0
	return m
}

// move shifts the cursor by delta, clamped, and scrolls to keep it visible.
func (m EntryListModel) move(delta int) EntryListModel {
	m.Cursor = min(max(m.Cursor+delta, 0), max(len(m.Visible)-1, 0))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

// filterEntries keeps entries whose name contains sub, case-insensitively.
func filterEntries(entries []sink.ManifestEntry, sub string) []sink.ManifestEntry {
	if sub == "" {
		return entries
	}
	sub = strings.ToLower(sub)
	var out []sink.ManifestEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), sub) {
			out = append(out, e)
		}
	}
	return out
}

func (m EntryListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Atlas %dx%d", m.Manifest.Dimension, m.Manifest.Dimension)))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d sprites · %.1f%% used", len(m.Manifest.Entries), m.Manifest.Utilization*100)))
	b.WriteString("\n")
	switch {
	case m.Filtering:
		b.WriteString(listSelectedStyle.Render("/" + m.Filter + "▏"))
	case m.Filter != "":
		b.WriteString(listDimStyle.Render("filter: " + m.Filter + "  ↑/↓ navigate  / edit filter  q quit"))
	default:
		b.WriteString(listDimStyle.Render("↑/↓ navigate  / filter  q quit"))
	}
	b.WriteString("\n\n")

	if len(m.Visible) == 0 {
		b.WriteString(listDimStyle.Render("  no matching sprites"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Visible))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, entryRow(m.Visible[i])...))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, entryHeaders...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return listNormalStyle
			}
			return listDimStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if e, ok := m.Current(); ok {
		b.WriteString(listNormalStyle.Render(fmt.Sprintf("  %s", entryRow(e)[1])))
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  pixels %d,%d..%d,%d  uv %.6f,%.6f..%.6f,%.6f",
			e.X, e.Y, e.X+e.Width, e.Y+e.Height, e.U, e.V, e.U+e.UW, e.V+e.VH)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Visible))))

	return b.String()
}
