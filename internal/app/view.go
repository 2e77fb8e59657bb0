package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/norganisers/internal/notes"
)

// View draws the full UI (note list + preview + footer), with the active
// popup drawn over the panes.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	layout := m.calculateLayout()
	leftPane := m.renderList(layout.LeftWidth, layout.ContentHeight)
	rightPane := m.renderPreview(layout.RightWidth, layout.ContentHeight)
	row := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
	if m.popup != nil {
		if m.popup.Kind() == PopupSearchNote {
			// Keep the list visible so the live filter can be followed.
			row = lipgloss.JoinHorizontal(lipgloss.Top, leftPane,
				m.renderPopupOverlay(layout.RightWidth, layout.ContentHeight))
		} else {
			row = m.renderPopupOverlay(m.width, layout.ContentHeight)
		}
	}
	row = padBlock(row, m.width, layout.ContentHeight)

	view := row + "\n" + m.renderFooter(m.width)
	return padBlock(view, m.width, m.height)
}

// renderList draws the note list pane: a title, the visible notes and the
// sort mode.
func (m *Model) renderList(width, height int) string {
	innerWidth := max(0, width-listPane.GetHorizontalFrameSize())
	innerHeight := max(0, height-listPane.GetVerticalFrameSize())

	title := "Notes"
	if m.store.IsFiltered() {
		title = fmt.Sprintf("Notes - %d found", m.store.Len())
	}
	lines := []string{truncate(titleStyle.Render(title), innerWidth)}

	view := m.store.Notes()
	capacity := max(0, (innerHeight-2)/listItemRows)
	start := clamp(m.listOffset, 0, max(0, len(view)-1))
	end := min(len(view), start+capacity)
	for i := start; i < end; i++ {
		lines = append(lines, m.formatListItem(view[i], i == m.selected, innerWidth)...)
	}
	if len(view) == 0 {
		empty := "(no notes)"
		if m.store.IsFiltered() {
			empty = "(no matches)"
		}
		lines = append(lines, mutedStyle.Render(empty))
	}

	body := padBlock(strings.Join(lines, "\n"), innerWidth, max(0, innerHeight-1))
	sortLine := lipgloss.PlaceHorizontal(innerWidth, lipgloss.Right, mutedStyle.Render("Sort "+m.store.SortMode().Label()))
	content := body + "\n" + truncate(sortLine, innerWidth)
	return listPane.
		Width(max(0, width-listPane.GetHorizontalBorderSize())).
		Height(max(0, height-listPane.GetVerticalBorderSize())).
		Render(content)
}

// formatListItem renders a note as "id:label" followed by its creation time
// and tag chips.
func (m *Model) formatListItem(n notes.Note, selected bool, width int) []string {
	head := strconv.Itoa(n.ID) + ":" + n.Label
	if selected {
		head = selectedStyle.Width(width).Render(truncateWithEllipsis(head, width))
	} else {
		head = truncateWithEllipsis(head, width)
	}

	meta := mutedStyle.Render(n.CreatedAt.Local().Format(CreatedAtLayout))
	for _, tag := range n.Tags {
		meta += " " + tagStyle.Render("["+tag+"]")
	}
	return []string{head, "  " + truncate(meta, max(0, width-2))}
}

// renderPreview draws the selected note's title and rendered body.
func (m *Model) renderPreview(width, height int) string {
	innerWidth := max(0, width-previewPane.GetHorizontalFrameSize())
	innerHeight := max(0, height-previewPane.GetVerticalFrameSize())

	var header string
	if n, ok := m.selectedNote(); ok {
		header = titleStyle.Render(n.Label)
	} else {
		header = mutedStyle.Render("No note selected")
	}
	content := truncate(header, innerWidth) + "\n" + m.viewport.View()
	return previewPane.
		Width(max(0, width-previewPane.GetHorizontalBorderSize())).
		Height(max(0, height-previewPane.GetVerticalBorderSize())).
		Render(padBlock(content, innerWidth, innerHeight))
}
