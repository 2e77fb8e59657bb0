package app

import (
	"github.com/charmbracelet/bubbles/help"
)

// renderFooter draws the status line above the key help for the current
// input mode.
func (m *Model) renderFooter(width int) string {
	style := statusStyle
	if m.hasStatusError() {
		style = errorStyle
	}
	status := style.Render(" " + truncate(m.mode.String()+" | "+m.status, max(0, width-1)))
	return status + "\n" + m.help.View(m.helpKeyMap())
}

// helpKeyMap picks the bindings listed in the footer.
func (m *Model) helpKeyMap() help.KeyMap {
	switch {
	case m.mode == modeSelectionPopup:
		return selectionHelp{km: m.keys}
	case m.mode.isForm():
		return formHelp{km: m.keys}
	default:
		return navigationHelp{km: m.keys}
	}
}

// hasStatusError reports whether the status line shows a failure.
func (m *Model) hasStatusError() bool {
	return m.statusErr
}
