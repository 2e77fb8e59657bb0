package app

import "fmt"

// copySelectedNote copies the body of the selected note to the clipboard.
func (m *Model) copySelectedNote() {
	n, ok := m.selectedNote()
	if !ok {
		m.setStatus("No note selected")
		return
	}
	if n.Text == "" {
		m.setStatus("Note is empty")
		return
	}
	if err := m.copyText(n.Text); err != nil {
		m.setStatusError("Clipboard copy failed", err, "note", n.ID)
		return
	}
	m.setStatus(fmt.Sprintf("Copied note %d (%d chars)", n.ID, len([]rune(n.Text))))
}
