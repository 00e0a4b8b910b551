package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	pkgio "github.com/matzehuels/tabbridge/pkg/io"
	"github.com/matzehuels/tabbridge/pkg/layout"
	"github.com/matzehuels/tabbridge/pkg/widget"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = StyleValue
	listDimStyle      = StyleDim
	listQueuedStyle   = lipgloss.NewStyle().Foreground(colorWarn)
)

// =============================================================================
// TreeModel - Interactive widget tree browser
// =============================================================================

// treeRow is one visible line of the tree.
type treeRow struct {
	widget *widget.Widget
	depth  int
}

// TreeModel is the bubbletea model for browsing a widget tree.
type TreeModel struct {
	Rows   []treeRow
	Cursor int
	Height int
	Offset int
	queue  *layout.Queue
}

// NewTreeModel creates a tree model listing every widget of client,
// depth first from the roots.
func NewTreeModel(client *widget.Client) TreeModel {
	m := TreeModel{Height: 15, queue: client.Queue()}
	var walk func(w *widget.Widget, depth int)
	walk = func(w *widget.Widget, depth int) {
		m.Rows = append(m.Rows, treeRow{widget: w, depth: depth})
		for _, c := range w.Children() {
			walk(c, depth+1)
		}
	}
	for _, root := range client.Registry().Roots() {
		walk(root, 0)
	}
	return m
}

// Selected returns the widget under the cursor, or nil for an empty tree.
func (m TreeModel) Selected() *widget.Widget {
	if len(m.Rows) == 0 {
		return nil
	}
	return m.Rows[m.Cursor].widget
}

// Select moves the cursor to w, if it is listed.
func (m TreeModel) Select(w *widget.Widget) TreeModel {
	for i, row := range m.Rows {
		if row.widget == w {
			m.Cursor = i
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
			break
		}
	}
	return m
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if len(m.Rows) > 0 {
				m.Cursor = len(m.Rows) - 1
				m.Offset = max(0, m.Cursor-m.Height+1)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 14
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Widget Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  no widgets"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderLayoutTable(m.Selected()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

func (m TreeModel) renderRow(i int) string {
	row := m.Rows[i]
	w := row.widget

	cursor := "  "
	if i == m.Cursor {
		cursor = "▸ "
	}
	label := w.Type()
	if id := w.ID(); id != "" {
		label += " #" + id
	}
	line := cursor + strings.Repeat("  ", row.depth) + label + listDimStyle.Render(fmt.Sprintf(" (%d)", w.CID()))
	if m.queue != nil && m.queue.Contains(w) {
		line += " " + listQueuedStyle.Render("queued")
	}

	if i == m.Cursor {
		return listSelectedStyle.Render(line)
	}
	return listNormalStyle.Render(line)
}

// renderLayoutTable shows the decoded and resolved layout of w side by
// side, one attribute per row.
func renderLayoutTable(w *widget.Widget) string {
	data := w.Layout()
	if len(data) == 0 {
		return listDimStyle.Render("  no layoutData")
	}
	decoded := pkgio.Display(layout.Decode(data))
	resolved := w.ResolvedLayout()

	keys := make([]string, 0, len(decoded))
	for _, attr := range data.Keys() {
		keys = append(keys, string(attr))
	}

	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{k, jsonString(decoded[k]), resolved[layout.Attr(k)].String()}
	}

	headerStyle := styleLabel.Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Attribute", "layoutData", "Resolved").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col == 2:
				return StyleNumber
			default:
				return StyleValue
			}
		})
	return t.Render()
}

func jsonString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
