package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/norganisers/internal/editor"
	"github.com/treykane/norganisers/internal/notes"
)

// handleWindowResize updates layout dimensions after terminal resize.
func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.applyLayout(m.calculateLayout())
	m.adjustListOffset()
	return m, m.syncPreview()
}

// dispatch runs msg and every follow-up it produces through reduce before
// returning control to Bubble Tea. Commands produced along the way are
// batched.
func (m *Model) dispatch(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	steps := 0
	for msg != nil {
		if steps == MaxMessageChain {
			appLog.Error("message chain limit reached", "last", fmt.Sprintf("%T", msg))
			break
		}
		steps++
		var cmd tea.Cmd
		msg, cmd = m.reduce(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	m.clampSelection()
	m.adjustListOffset()
	if m.running == stateExit {
		cmds = append(cmds, tea.Quit)
		return tea.Batch(cmds...)
	}
	if cmd := m.syncPreview(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// reduce applies one message to the model. It returns an optional follow-up
// message handled in the same turn and an optional command for Bubble Tea.
func (m *Model) reduce(msg tea.Msg) (tea.Msg, tea.Cmd) {
	switch msg := msg.(type) {
	case exitMsg:
		m.running = stateExit
	case clearScreenMsg:
		return nil, tea.ClearScreen
	case inputModeMsg:
		m.mode = msg.mode

	case nextNoteMsg:
		if n := m.store.Len(); n > 0 {
			m.selected = min(m.selected+1, n-1)
		}
	case prevNoteMsg:
		if m.selected > 0 {
			m.selected--
		}

	case openPopupMsg:
		return m.openPopup(msg.kind), nil
	case closePopupMsg:
		m.popup = nil
		return inputModeMsg{mode: modeNavigating}, nil
	case submitFormMsg:
		return m.submitForm(), nil

	case addCharMsg:
		if m.popup == nil {
			return nil, nil
		}
		m.popup.AddChar(msg.r)
		return m.searchIfSearching(), nil
	case insertTextMsg:
		if m.popup == nil {
			return nil, nil
		}
		for _, r := range msg.text {
			m.popup.AddChar(r)
		}
		return m.searchIfSearching(), nil
	case removeCharMsg:
		if m.popup == nil {
			return nil, nil
		}
		m.popup.RemoveChar()
		return m.searchIfSearching(), nil
	case nextFieldMsg:
		if m.popup != nil {
			m.popup.NextField()
		}
	case prevFieldMsg:
		if m.popup != nil {
			m.popup.PrevField()
		}
	case cursorLeftMsg:
		if m.popup != nil {
			m.popup.State().MoveLeft()
		}
	case cursorRightMsg:
		if m.popup != nil {
			m.popup.State().MoveRight()
		}
	case cursorHomeMsg:
		if m.popup != nil {
			m.popup.State().MoveHome()
		}
	case cursorEndMsg:
		if m.popup != nil {
			m.popup.State().MoveEnd()
		}

	case openSelectionMsg:
		if m.popup == nil {
			return nil, nil
		}
		m.popup.OpenSelector(m.store.Tags())
		return inputModeMsg{mode: modeSelectionPopup}, nil
	case nextSelectionMsg:
		if sel := m.selector(); sel != nil {
			sel.Next()
		}
	case prevSelectionMsg:
		if sel := m.selector(); sel != nil {
			sel.Prev()
		}
	case makeSelectionMsg:
		return m.changeSelection((*SelectionPopup).Select), nil
	case unmakeSelectionMsg:
		return m.changeSelection((*SelectionPopup).Unselect), nil
	case toggleSelectionMsg:
		return m.changeSelection((*SelectionPopup).Toggle), nil
	case closeSelectionMsg:
		if m.popup == nil {
			return inputModeMsg{mode: modeNavigating}, nil
		}
		m.popup.CloseSelector()
		return inputModeMsg{mode: m.popup.Kind().inputMode()}, nil

	case retrieveNotesMsg:
		if err := m.reloadNotes(); err != nil {
			return errorMsg{status: "Reloading notes failed", err: err}, nil
		}
		if m.popup != nil && m.popup.Kind() == PopupSearchNote {
			return performSearchMsg{}, nil
		}
	case performSearchMsg:
		return m.performSearch(), nil
	case cleanStateMsg:
		m.mode = modeNavigating
		m.popup = nil
		m.store.RemoveFilter()
		m.selected = 0
		m.setStatus("Ready")
	case nextSortModeMsg:
		m.store.NextSortMode()
		m.setStatus("Sort: " + m.store.SortMode().Label())
	case prevSortModeMsg:
		m.store.PrevSortMode()
		m.setStatus("Sort: " + m.store.SortMode().Label())

	case deleteNoteMsg:
		return m.deleteSelected(), nil
	case editNoteMsg:
		return m.editSelected()
	case editor.FinishedMsg:
		return m.applyEditedText(msg)
	case copyNoteMsg:
		m.copySelectedNote()
	case dataFileChangedMsg:
		appLog.Debug("data file changed on disk")
		return retrieveNotesMsg{}, m.waitForDataFileChange()

	case scrollPreviewMsg:
		m.scrollPreview(msg.action)
	case toggleHelpMsg:
		m.help.ShowAll = !m.help.ShowAll

	case errorMsg:
		if errors.Is(msg.err, notes.ErrVersionMismatch) {
			appLog.Error("incompatible data file", "error", msg.err)
			m.fatalErr = msg.err
			m.running = stateExit
			return nil, nil
		}
		m.setStatusError(msg.status, msg.err)
	}
	return nil, nil
}

// selector returns the open tag selector, or nil.
func (m *Model) selector() *SelectionPopup {
	if m.popup == nil {
		return nil
	}
	return m.popup.Selector()
}

// searchIfSearching chains a search after a search form edit.
func (m *Model) searchIfSearching() tea.Msg {
	if m.popup != nil && m.popup.Kind() == PopupSearchNote {
		return performSearchMsg{}
	}
	return nil
}

// changeSelection applies op to the selector and writes the selection into
// the bound field right away.
func (m *Model) changeSelection(op func(*SelectionPopup)) tea.Msg {
	sel := m.selector()
	if sel == nil {
		return nil
	}
	op(sel)
	m.popup.SyncSelection()
	return m.searchIfSearching()
}

// openPopup builds the popup for kind. The edit form needs a selected note.
func (m *Model) openPopup(kind PopupKind) tea.Msg {
	var popup *Popup
	switch kind {
	case PopupNewNote, PopupSearchNote:
		popup = NewPopup(kind, NewForm("", ""))
	case PopupEditNote:
		n, ok := m.selectedNote()
		if !ok {
			return nil
		}
		popup = NewPopup(kind, NewForm(n.Label, JoinTags(n.Tags)))
		popup.noteID = n.ID
	default:
		return nil
	}
	m.popup = popup
	return inputModeMsg{mode: kind.inputMode()}
}

// submitForm finalizes the popup form. Invalid note forms are ignored and
// the popup stays open; backend failures also keep it open.
func (m *Model) submitForm() tea.Msg {
	if m.popup == nil {
		return nil
	}
	form := m.popup.Form()
	switch m.popup.Kind() {
	case PopupSearchNote:
		return closePopupMsg{}
	case PopupNewNote:
		if !form.Valid(PopupNewNote) {
			return nil
		}
		if err := m.backend.AddNote(form.ToUnsavedNote(m.now())); err != nil {
			return errorMsg{status: "Adding note failed", err: err}
		}
		m.setStatus("Note added")
	case PopupEditNote:
		if !form.Valid(PopupEditNote) {
			return nil
		}
		current, ok := m.store.NoteByID(m.popup.noteID)
		if !ok {
			return errorMsg{status: "Updating note failed", err: fmt.Errorf("note %d: %w", m.popup.noteID, notes.ErrNoteNotFound)}
		}
		if err := m.backend.UpdateNote(form.ApplyToNote(current)); err != nil {
			return errorMsg{status: "Updating note failed", err: err}
		}
		m.setStatus("Note updated")
	default:
		return nil
	}

	if err := m.reloadNotes(); err != nil {
		m.popup = nil
		m.mode = modeNavigating
		return errorMsg{status: "Reloading notes failed", err: err}
	}
	return closePopupMsg{}
}

// reloadNotes replaces the store content with the backend's notes.
func (m *Model) reloadNotes() error {
	list, err := m.backend.RetrieveNotes()
	if err != nil {
		return err
	}
	m.store.UpdateNotes(list)
	appLog.Debug("reloaded notes", "count", len(list))
	return nil
}

// performSearch filters the store with the search form, or drops the filter
// when the form is blank.
func (m *Model) performSearch() tea.Msg {
	if m.popup == nil || m.popup.Kind() != PopupSearchNote {
		return nil
	}
	form := m.popup.Form()
	if form.IsEmpty() {
		m.store.RemoveFilter()
		m.selected = 0
		return nil
	}
	if m.searcher == nil {
		return errorMsg{status: "Search unavailable", err: errors.New("no search engine configured")}
	}

	ctx, cancel := context.WithTimeout(context.Background(), SearchTimeout)
	defer cancel()
	matched, err := m.searcher.Search(ctx, m.store.AllNotes(), form.SearchQuery())
	if err != nil {
		return errorMsg{status: "Search failed", err: err}
	}
	m.store.UpdateFilter(matched)
	m.selected = 0
	m.setStatus(fmt.Sprintf("%d found", len(m.store.MatchedIDs())))
	return nil
}

// deleteSelected removes the selected note from the backend.
func (m *Model) deleteSelected() tea.Msg {
	n, ok := m.selectedNote()
	if !ok {
		return nil
	}
	if err := m.backend.DeleteNote(n.ID); err != nil {
		return errorMsg{status: "Deleting note failed", err: err}
	}
	m.setStatus(fmt.Sprintf("Deleted note %d", n.ID))
	return retrieveNotesMsg{}
}

// editSelected hands the selected note body to the editor. The program is
// suspended until the editor exits.
func (m *Model) editSelected() (tea.Msg, tea.Cmd) {
	n, ok := m.selectedNote()
	if !ok {
		return nil, nil
	}
	if m.editor == nil {
		return errorMsg{status: "Editing failed", err: errors.New("no editor configured")}, nil
	}
	return nil, m.editor.Edit(n.ID, n.Text)
}

// applyEditedText persists the body returned by a clean editor exit. A
// failed session leaves the note untouched.
func (m *Model) applyEditedText(msg editor.FinishedMsg) (tea.Msg, tea.Cmd) {
	if msg.Err != nil {
		return errorMsg{status: "Editing failed", err: msg.Err}, tea.ClearScreen
	}
	current, ok := m.store.NoteByID(msg.NoteID)
	if !ok {
		return errorMsg{status: "Editing failed", err: fmt.Errorf("note %d: %w", msg.NoteID, notes.ErrNoteNotFound)}, tea.ClearScreen
	}
	if current.Text == msg.Text {
		m.setStatus("No changes")
		return nil, tea.ClearScreen
	}
	edited := current.Clone()
	edited.Text = msg.Text
	if err := m.backend.UpdateNote(edited); err != nil {
		return errorMsg{status: "Saving note failed", err: err}, tea.ClearScreen
	}
	m.setStatus("Note saved")
	return retrieveNotesMsg{}, tea.ClearScreen
}
