package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/floorplan/pkg/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorText)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorFaint)
)

// =============================================================================
// ItemListModel - Interactive layout browser
// =============================================================================

// ItemListModel is the bubbletea model for browsing the items of a layout.
// Enter toggles a detail pane with the item's location bindings.
type ItemListModel struct {
	Name    string
	Items   []*layout.Item
	Cursor  int
	Height  int
	Offset  int
	Details bool
}

// NewItemListModel creates a new item list model.
func NewItemListModel(name string, items []*layout.Item) ItemListModel {
	return ItemListModel{
		Name:   name,
		Items:  items,
		Height: 15,
	}
}

func (m ItemListModel) Init() tea.Cmd {
	return nil
}

func (m ItemListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m.Details = !m.Details
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ItemListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Items) == 0 {
		b.WriteString(listDimStyle.Render("  (empty layout)"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Items))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		container := it.ContainerID
		if container == "" {
			container = "—"
		}
		rows = append(rows, []string{
			cursor,
			it.ID,
			string(it.Type),
			displayName(it),
			container,
			fmt.Sprintf("%d,%d", it.X, it.Y),
			fmt.Sprintf("%d×%d", it.Width, it.Height),
			fmt.Sprintf("%d", len(it.Identifiers())),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "ID", "Type", "Name", "Container", "Pos", "Size", "Locs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}
			if idx == m.Cursor {
				return listSelectedStyle
			}
			if m.Items[idx].Type.Structural() {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))

	if m.Details {
		b.WriteString("\n\n")
		b.WriteString(itemDetails(m.Items[m.Cursor]))
	}

	return b.String()
}

// displayName returns the item's label, falling back to its code.
func displayName(it *layout.Item) string {
	switch {
	case it.Label != "":
		return it.Label
	case it.Code != "":
		return it.Code
	}
	return "—"
}

// itemDetails renders the location bindings of it.
func itemDetails(it *layout.Item) string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(it.ID))
	if it.Category != "" {
		b.WriteString(listDimStyle.Render("  " + it.Category))
	}
	b.WriteString("\n")

	if it.LocationID != "" {
		b.WriteString("  " + listDimStyle.Render("slot ") + StyleValue.Render(it.LocationID) + "\n")
	}
	for _, key := range it.CompartmentContents.Keys() {
		b.WriteString("  " + listDimStyle.Render(key+" "))
		switch a := it.CompartmentContents[key].(type) {
		case *layout.SingleLocation:
			b.WriteString(StyleValue.Render(a.LocationID))
		case *layout.MultiLocation:
			b.WriteString(formatLevels(a.LevelLocationMappings))
		}
		b.WriteString("\n")
	}
	if len(it.Identifiers()) == 0 {
		b.WriteString(listDimStyle.Render("  no locations assigned") + "\n")
	}
	return b.String()
}

func formatLevels(levels []layout.LevelLocation) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = l.LevelID + "=" + l.LocationID
	}
	return StyleValue.Render(strings.Join(parts, "  "))
}
