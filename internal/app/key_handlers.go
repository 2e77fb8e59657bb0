package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// messageForKey translates a key press into a reducer message for the
// current input mode. It never mutates the model; nil means the key is
// ignored.
func (m *Model) messageForKey(msg tea.KeyMsg) tea.Msg {
	switch {
	case m.mode == modeSelectionPopup:
		return m.selectionKeyMessage(msg)
	case m.mode.isForm():
		return m.formKeyMessage(msg)
	default:
		return m.navigationKeyMessage(msg)
	}
}

// navigationKeyMessage handles the list view. Actions are user-rebindable.
func (m *Model) navigationKeyMessage(msg tea.KeyMsg) tea.Msg {
	switch m.keys.actionFor(msg) {
	case actionNextNote:
		return nextNoteMsg{}
	case actionPrevNote:
		return prevNoteMsg{}
	case actionNewNote:
		return openPopupMsg{kind: PopupNewNote}
	case actionEditInfo:
		return openPopupMsg{kind: PopupEditNote}
	case actionEditText:
		return editNoteMsg{}
	case actionSearch:
		return openPopupMsg{kind: PopupSearchNote}
	case actionDelete:
		return deleteNoteMsg{}
	case actionNextSort:
		return nextSortModeMsg{}
	case actionPrevSort:
		return prevSortModeMsg{}
	case actionCleanState:
		return cleanStateMsg{}
	case actionCopy:
		return copyNoteMsg{}
	case actionReload:
		return retrieveNotesMsg{}
	case actionPreviewPageUp, actionPreviewPageDown, actionPreviewHalfUp, actionPreviewHalfDown:
		return scrollPreviewMsg{action: m.keys.actionFor(msg)}
	case actionHelp:
		return toggleHelpMsg{}
	case actionQuit:
		return exitMsg{}
	}
	return nil
}

// formKeyMessage handles the new, edit and search forms, which share one
// key table.
func (m *Model) formKeyMessage(msg tea.KeyMsg) tea.Msg {
	switch {
	case key.Matches(msg, m.keys.Close):
		return closePopupMsg{}
	case key.Matches(msg, m.keys.Submit):
		return submitFormMsg{}
	case key.Matches(msg, m.keys.NextField):
		return nextFieldMsg{}
	case key.Matches(msg, m.keys.PrevField):
		return prevFieldMsg{}
	case key.Matches(msg, m.keys.Backspace):
		return removeCharMsg{}
	case key.Matches(msg, m.keys.CursorLeft):
		return cursorLeftMsg{}
	case key.Matches(msg, m.keys.CursorRight):
		return cursorRightMsg{}
	case key.Matches(msg, m.keys.CursorHome):
		return cursorHomeMsg{}
	case key.Matches(msg, m.keys.CursorEnd):
		return cursorEndMsg{}
	case key.Matches(msg, m.keys.OpenSelector):
		return openSelectionMsg{}
	}

	switch msg.Type {
	case tea.KeySpace:
		return addCharMsg{r: ' '}
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && !msg.Paste {
			return addCharMsg{r: msg.Runes[0]}
		}
		if len(msg.Runes) > 0 {
			return insertTextMsg{text: string(msg.Runes)}
		}
	}
	return nil
}

// selectionKeyMessage handles the tag selector.
func (m *Model) selectionKeyMessage(msg tea.KeyMsg) tea.Msg {
	switch {
	case key.Matches(msg, m.keys.SelNext):
		return nextSelectionMsg{}
	case key.Matches(msg, m.keys.SelPrev):
		return prevSelectionMsg{}
	case key.Matches(msg, m.keys.SelSelect):
		return makeSelectionMsg{}
	case key.Matches(msg, m.keys.SelUnselect):
		return unmakeSelectionMsg{}
	case key.Matches(msg, m.keys.SelToggle):
		return toggleSelectionMsg{}
	case key.Matches(msg, m.keys.SelClose):
		return closeSelectionMsg{}
	}
	return nil
}
