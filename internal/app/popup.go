package app

import (
	"slices"
	"unicode/utf8"
)

// PopupKind tags the form hosted by a Popup.
type PopupKind int

const (
	PopupNewNote PopupKind = iota
	PopupSearchNote
	PopupEditNote
)

func (k PopupKind) String() string {
	switch k {
	case PopupNewNote:
		return "New note"
	case PopupSearchNote:
		return "Search notes"
	case PopupEditNote:
		return "Edit note"
	default:
		return "Unknown"
	}
}

// inputMode returns the mode that edits a popup of this kind.
func (k PopupKind) inputMode() inputMode {
	switch k {
	case PopupSearchNote:
		return modeSearchPopup
	case PopupEditNote:
		return modeEditNoteInfoPopup
	default:
		return modeNewNotePopup
	}
}

// fieldTitles returns the field captions for the kind.
func (k PopupKind) fieldTitles() []string {
	if k == PopupSearchNote {
		return []string{"Text", "Tags"}
	}
	return []string{"Label", "Tags"}
}

// PopupState pairs a Form with one character cursor per field and the
// focused field index. Cursors count characters, not bytes.
type PopupState struct {
	form    *Form
	cursors []int
	focused int
}

func newPopupState(form *Form) PopupState {
	return PopupState{
		form:    form,
		cursors: make([]int, form.FieldCount()),
	}
}

// Form returns the edited form.
func (s *PopupState) Form() *Form {
	return s.form
}

// Focused returns the focused field index.
func (s *PopupState) Focused() int {
	return s.focused
}

// Cursor returns the character cursor of field i.
func (s *PopupState) Cursor(i int) int {
	return s.cursors[i]
}

// NextField focuses the following field, wrapping to the first.
func (s *PopupState) NextField() {
	n := s.form.FieldCount()
	if n == 0 {
		return
	}
	s.focused = (s.focused + 1) % n
}

// PrevField focuses the preceding field, wrapping to the last.
func (s *PopupState) PrevField() {
	n := s.form.FieldCount()
	if n == 0 {
		return
	}
	s.focused = (n + s.focused - 1) % n
}

// AddChar inserts r at the cursor of the focused field and advances it.
func (s *PopupState) AddChar(r rune) {
	s.form.InsertInField(s.focused, s.byteIndex(), r)
	s.cursors[s.focused]++
}

// RemoveChar deletes the character before the cursor of the focused field.
func (s *PopupState) RemoveChar() {
	if s.cursors[s.focused] == 0 {
		return
	}
	s.form.RemoveInField(s.focused, s.byteIndex())
	s.cursors[s.focused]--
}

// MoveLeft moves the focused cursor one character left, stopping at 0.
func (s *PopupState) MoveLeft() {
	if s.cursors[s.focused] > 0 {
		s.cursors[s.focused]--
	}
}

// MoveRight moves the focused cursor one character right, stopping at the
// end of the field.
func (s *PopupState) MoveRight() {
	if s.cursors[s.focused] < s.fieldLen(s.focused) {
		s.cursors[s.focused]++
	}
}

// MoveHome puts the focused cursor at the start of the field.
func (s *PopupState) MoveHome() {
	s.cursors[s.focused] = 0
}

// MoveEnd puts the focused cursor after the last character.
func (s *PopupState) MoveEnd() {
	s.cursors[s.focused] = s.fieldLen(s.focused)
}

// ReplaceFocusedField overwrites the focused field and moves its cursor to
// the end.
func (s *PopupState) ReplaceFocusedField(content string) {
	s.form.ReplaceFieldContent(s.focused, content)
	s.cursors[s.focused] = utf8.RuneCountInString(content)
}

// CursorsToEnd moves every cursor after its field's last character.
func (s *PopupState) CursorsToEnd() {
	for i := range s.cursors {
		s.cursors[i] = s.fieldLen(i)
	}
}

func (s *PopupState) fieldLen(i int) int {
	return utf8.RuneCountInString(s.form.FieldContent(i))
}

// byteIndex converts the focused character cursor to a byte offset.
func (s *PopupState) byteIndex() int {
	return byteOffset(s.form.FieldContent(s.focused), s.cursors[s.focused])
}

// byteOffset returns the byte offset of the charIndex-th character of text,
// or len(text) when charIndex is past the end.
func byteOffset(text string, charIndex int) int {
	for offset := range text {
		if charIndex == 0 {
			return offset
		}
		charIndex--
	}
	return len(text)
}

// Popup hosts a form of a given kind plus an optional tag selector. While
// the selector is open, direct text editing is disabled.
type Popup struct {
	kind  PopupKind
	state PopupState

	// noteID is the note edited by a PopupEditNote.
	noteID int

	// selector edits the field focused when it opened; focus is locked
	// while it is open.
	selector *SelectionPopup
}

// NewPopup returns a popup of kind over form with cursors at field ends.
func NewPopup(kind PopupKind, form *Form) *Popup {
	p := &Popup{kind: kind, state: newPopupState(form)}
	p.state.CursorsToEnd()
	return p
}

// Kind returns the popup kind.
func (p *Popup) Kind() PopupKind {
	return p.kind
}

// State exposes the form state.
func (p *Popup) State() *PopupState {
	return &p.state
}

// Form returns the hosted form.
func (p *Popup) Form() *Form {
	return p.state.form
}

// Selector returns the open selector, or nil.
func (p *Popup) Selector() *SelectionPopup {
	return p.selector
}

func (p *Popup) NextField() {
	if p.selector == nil {
		p.state.NextField()
	}
}

func (p *Popup) PrevField() {
	if p.selector == nil {
		p.state.PrevField()
	}
}

func (p *Popup) AddChar(r rune) {
	if p.selector == nil {
		p.state.AddChar(r)
	}
}

func (p *Popup) RemoveChar() {
	if p.selector == nil {
		p.state.RemoveChar()
	}
}

// ReplaceSelectedField writes content into the focused field and moves its
// cursor to the end.
func (p *Popup) ReplaceSelectedField(content string) {
	p.state.ReplaceFocusedField(content)
}

// OpenSelector snapshots universe into a new selector bound to the focused
// field. Terms already in the field are appended when missing from the
// universe and start selected.
func (p *Popup) OpenSelector(universe []string) {
	items := append([]string{}, universe...)
	existing := ParseTags(p.state.form.FieldContent(p.state.focused))
	var preselected []int
	for _, term := range existing {
		idx := slices.Index(items, term)
		if idx < 0 {
			items = append(items, term)
			idx = len(items) - 1
		}
		preselected = append(preselected, idx)
	}
	p.selector = NewSelectionPopup(items)
	p.selector.SelectIndices(preselected...)
}

// SyncSelection writes the current selection into the selector's field.
func (p *Popup) SyncSelection() {
	if p.selector == nil {
		return
	}
	p.ReplaceSelectedField(JoinTags(p.selector.SelectedItems()))
}

// CloseSelector commits the selection into its field and discards the
// selector.
func (p *Popup) CloseSelector() {
	if p.selector == nil {
		return
	}
	p.SyncSelection()
	p.selector = nil
}
