package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/schemaflow/pkg/erd"
)

// headerRow is the row index lipgloss/table passes to StyleFunc for headers.
const headerRow = -1

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle       = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	keyStyle          = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// TableBrowser - Interactive table browser
// =============================================================================

// TableBrowser is the bubbletea model for browsing the tables of a diagram
// graph. The selected table's columns and relationships are shown below the
// list.
type TableBrowser struct {
	Graph  erd.Graph
	Cursor int
	Height int
	Offset int
}

// NewTableBrowser creates a browser over g.
func NewTableBrowser(g erd.Graph) TableBrowser {
	return TableBrowser{Graph: g, Height: 10}
}

func (m TableBrowser) Init() tea.Cmd {
	return nil
}

func (m TableBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Graph.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Graph.Nodes)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		// Leave room for the selected table's details.
		m.Height = max(msg.Height/3, 3)
	}
	return m, nil
}

func (m TableBrowser) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tables"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if len(m.Graph.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  no tables"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Graph.Nodes))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Graph.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, n.ID, fmt.Sprint(len(n.Table.Columns)), fmt.Sprint(len(edgesOf(m.Graph, n.ID)))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Table", "Columns", "Refs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Graph.Nodes))))
	b.WriteString("\n\n")
	b.WriteString(tableDetail(m.Graph, m.Graph.Nodes[m.Cursor]))

	return b.String()
}

// tableDetail renders a table's columns and the relationships touching it.
func tableDetail(g erd.Graph, n erd.Node) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(n.ID))
	b.WriteString("\n")

	rows := make([][]string, len(n.Table.Columns))
	for i, c := range n.Table.Columns {
		key := ""
		if c.IsPrimaryKey() {
			key = "PK"
		}
		rows[i] = []string{key, c.Name, c.Type, strings.Join(c.Attributes, ", ")}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Column", "Type", "Attributes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return headerStyle
			}
			if col == 0 {
				return keyStyle
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	for _, e := range edgesOf(g, n.ID) {
		line := fmt.Sprintf("  %s.%s %s %s.%s", e.Source, e.FromColumn, iconArrow, e.Target, e.ToColumn)
		if e.Label != "" {
			line += "  " + StyleValue.Render(e.Label)
		}
		if e.Dangling {
			line += "  " + StyleWarning.Render("(undeclared table)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// edgesOf returns the edges with id at either end.
func edgesOf(g erd.Graph, id string) []erd.Edge {
	var out []erd.Edge
	for _, e := range g.Edges {
		if e.Source == id || e.Target == id {
			out = append(out, e)
		}
	}
	return out
}
