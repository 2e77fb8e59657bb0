package app

import tea "github.com/charmbracelet/bubbletea"

// waitForDataFileChange blocks on the change channel and reports the next
// change as a dataFileChangedMsg. It is re-armed after every delivery.
func (m *Model) waitForDataFileChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return dataFileChangedMsg{}
	}
}
