package app

// SelectionPopup is a multi-select pick list. The highlight clamps at both
// ends instead of wrapping.
type SelectionPopup struct {
	items     []string
	selected  map[int]struct{}
	highlight int
}

// NewSelectionPopup returns a selector over a snapshot of items with nothing
// selected and the first item highlighted.
func NewSelectionPopup(items []string) *SelectionPopup {
	return &SelectionPopup{
		items:    append([]string{}, items...),
		selected: map[int]struct{}{},
	}
}

// Items returns the candidate strings.
func (s *SelectionPopup) Items() []string {
	return s.items
}

// Highlight returns the highlighted index.
func (s *SelectionPopup) Highlight() int {
	return s.highlight
}

// Next moves the highlight down.
func (s *SelectionPopup) Next() {
	if len(s.items) == 0 {
		return
	}
	s.highlight = clamp(s.highlight+1, 0, len(s.items)-1)
}

// Prev moves the highlight up.
func (s *SelectionPopup) Prev() {
	if len(s.items) == 0 {
		return
	}
	s.highlight = clamp(s.highlight-1, 0, len(s.items)-1)
}

// Select adds the highlighted item to the selection.
func (s *SelectionPopup) Select() {
	if s.highlight < len(s.items) {
		s.selected[s.highlight] = struct{}{}
	}
}

// Unselect removes the highlighted item from the selection.
func (s *SelectionPopup) Unselect() {
	delete(s.selected, s.highlight)
}

// Toggle flips the highlighted item.
func (s *SelectionPopup) Toggle() {
	if s.IsSelected(s.highlight) {
		s.Unselect()
		return
	}
	s.Select()
}

// SelectIndices adds valid indices to the selection.
func (s *SelectionPopup) SelectIndices(indices ...int) {
	for _, i := range indices {
		if i >= 0 && i < len(s.items) {
			s.selected[i] = struct{}{}
		}
	}
}

// IsSelected reports whether item i is selected.
func (s *SelectionPopup) IsSelected(i int) bool {
	_, ok := s.selected[i]
	return ok
}

// SelectedCount returns the number of selected items.
func (s *SelectionPopup) SelectedCount() int {
	return len(s.selected)
}

// SelectedItems returns the selected strings in item order.
func (s *SelectionPopup) SelectedItems() []string {
	out := make([]string, 0, len(s.selected))
	for i, item := range s.items {
		if s.IsSelected(i) {
			out = append(out, item)
		}
	}
	return out
}
