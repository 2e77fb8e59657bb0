package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderPopupOverlay centers the active popup in a width x height area.
func (m *Model) renderPopupOverlay(width, height int) string {
	popupWidth := min(FormPopupWidth, max(20, width-PopupPadding))
	popup := m.renderPopup(popupWidth)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, popup)
}

// renderPopup draws the form fields and, when open, the tag selector.
func (m *Model) renderPopup(width int) string {
	innerWidth := max(1, width-popupStyle.GetHorizontalFrameSize())
	state := m.popup.State()
	titles := m.popup.Kind().fieldTitles()

	lines := []string{titleStyle.Render(m.popup.Kind().String())}
	for i := 0; i < state.Form().FieldCount(); i++ {
		title := fmt.Sprintf("Field %d", i+1)
		if i < len(titles) {
			title = titles[i]
		}
		focused := i == state.Focused() && m.popup.Selector() == nil
		lines = append(lines, m.renderField(title, state, i, focused, innerWidth))
	}
	if sel := m.popup.Selector(); sel != nil {
		lines = append(lines, renderSelector(sel, innerWidth))
	}
	return popupStyle.Width(innerWidth + popupStyle.GetHorizontalPadding()).Render(strings.Join(lines, "\n"))
}

// renderField draws one bordered input. The focused field shows its cursor
// and scrolls horizontally to keep it visible.
func (m *Model) renderField(title string, state *PopupState, i int, focused bool, width int) string {
	style := fieldStyle
	if focused {
		style = focusedFieldStyle
	}
	textWidth := max(1, width-style.GetHorizontalFrameSize())
	text := []rune(state.Form().FieldContent(i))

	var line string
	if focused {
		cursor := state.Cursor(i)
		start, end := visibleWindow(text, cursor, textWidth)
		under := " "
		after := ""
		if cursor < len(text) {
			under = string(text[cursor])
			after = string(text[cursor+1 : end])
		}
		line = string(text[start:cursor]) + cursorStyle.Render(under) + after
	} else {
		line = truncateWithEllipsis(string(text), textWidth)
	}

	caption := mutedStyle.Render(title)
	if focused {
		caption = titleStyle.Render(title)
	}
	return caption + "\n" + style.Width(textWidth+style.GetHorizontalPadding()).Render(line)
}

// renderSelector draws the tag pick-list with selected items marked.
func renderSelector(sel *SelectionPopup, width int) string {
	items := sel.Items()
	header := titleStyle.Render(fmt.Sprintf("Tag Selection (%d/%d)", sel.SelectedCount(), len(items)))
	lines := []string{header}
	if len(items) == 0 {
		lines = append(lines, mutedStyle.Render("(no tags)"))
		return strings.Join(lines, "\n")
	}

	visible := SelectionPopupMaxHeight - 1
	start := 0
	if sel.Highlight() >= visible {
		start = sel.Highlight() - visible + 1
	}
	end := min(len(items), start+visible)
	for i := start; i < end; i++ {
		marker := "  "
		if sel.IsSelected(i) {
			marker = "* "
		}
		line := truncateWithEllipsis(marker+items[i], width)
		if i == sel.Highlight() {
			line = selectedStyle.Width(width).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
