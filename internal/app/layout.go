// layout.go centralizes the layout calculations for the two-pane UI.
//
// The note list takes a fixed-width pane on the left and the preview fills
// the rest. The footer height depends on whether the full help is shown.
package app

import "github.com/charmbracelet/lipgloss"

// listItemRows is the number of rows a note occupies in the list.
const listItemRows = 2

// LayoutDimensions holds all calculated layout dimensions for the UI.
type LayoutDimensions struct {
	LeftWidth      int // list pane width including border
	RightWidth     int // preview pane width including border
	ContentHeight  int // terminal height minus footer
	ListHeight     int // rows available for list items
	ViewportWidth  int // usable width inside the preview pane
	ViewportHeight int // usable height inside the preview pane, below its title
}

// calculateLayout computes all UI dimensions from the terminal size.
func (m *Model) calculateLayout() LayoutDimensions {
	leftWidth := min(DefaultListWidth, m.width/ListWidthDivider)
	rightWidth := max(0, m.width-leftWidth)
	contentHeight := max(0, m.height-m.footerHeight())

	return LayoutDimensions{
		LeftWidth:      leftWidth,
		RightWidth:     rightWidth,
		ContentHeight:  contentHeight,
		ListHeight:     max(0, contentHeight-listPane.GetVerticalFrameSize()-2),
		ViewportWidth:  max(0, rightWidth-previewPane.GetHorizontalFrameSize()),
		ViewportHeight: max(0, contentHeight-previewPane.GetVerticalFrameSize()-1),
	}
}

// footerHeight returns the rows taken by the status line and help.
func (m *Model) footerHeight() int {
	if m.width <= 0 {
		return FooterRows
	}
	return max(FooterRows, lipgloss.Height(m.renderFooter(m.width)))
}

// applyLayout resizes the preview viewport to the calculated layout.
func (m *Model) applyLayout(layout LayoutDimensions) {
	m.viewport.Width = layout.ViewportWidth
	m.viewport.Height = layout.ViewportHeight
	m.help.Width = m.width
}

// listCapacity returns how many notes fit in the list pane.
func (m *Model) listCapacity() int {
	return max(1, m.calculateLayout().ListHeight/listItemRows)
}

// adjustListOffset scrolls the list so the selected note is visible.
func (m *Model) adjustListOffset() {
	if m.selected < 0 {
		m.listOffset = 0
		return
	}
	capacity := m.listCapacity()
	if m.selected < m.listOffset {
		m.listOffset = m.selected
	}
	if m.selected >= m.listOffset+capacity {
		m.listOffset = m.selected - capacity + 1
	}
	m.listOffset = clamp(m.listOffset, 0, max(0, m.store.Len()-capacity))
}
