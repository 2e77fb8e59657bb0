package app

// inputMode classifies the current interaction context. It decides which
// key table translates key presses into messages.
type inputMode int

const (
	modeNavigating inputMode = iota
	modeNewNotePopup
	modeEditNoteInfoPopup
	modeSearchPopup
	modeSelectionPopup
)

func (m inputMode) String() string {
	switch m {
	case modeNewNotePopup:
		return "new note"
	case modeEditNoteInfoPopup:
		return "edit note"
	case modeSearchPopup:
		return "search"
	case modeSelectionPopup:
		return "tag selection"
	default:
		return "navigating"
	}
}

// isForm reports whether the mode edits popup fields directly.
func (m inputMode) isForm() bool {
	return m == modeNewNotePopup || m == modeEditNoteInfoPopup || m == modeSearchPopup
}

// runningState tracks whether the program should keep running.
type runningState int

const (
	stateRunning runningState = iota
	stateExit
)
