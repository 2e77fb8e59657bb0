package app

// Messages consumed by the reducer. Key handlers produce them from key
// presses; the reducer may answer one with a follow-up that is processed in
// the same turn.
type (
	exitMsg        struct{}
	clearScreenMsg struct{}
	inputModeMsg   struct{ mode inputMode }

	nextNoteMsg struct{}
	prevNoteMsg struct{}

	openPopupMsg   struct{ kind PopupKind }
	closePopupMsg  struct{}
	submitFormMsg  struct{}
	addCharMsg     struct{ r rune }
	insertTextMsg  struct{ text string }
	removeCharMsg  struct{}
	nextFieldMsg   struct{}
	prevFieldMsg   struct{}
	cursorLeftMsg  struct{}
	cursorRightMsg struct{}
	cursorHomeMsg  struct{}
	cursorEndMsg   struct{}

	openSelectionMsg   struct{}
	nextSelectionMsg   struct{}
	prevSelectionMsg   struct{}
	makeSelectionMsg   struct{}
	unmakeSelectionMsg struct{}
	toggleSelectionMsg struct{}
	closeSelectionMsg  struct{}

	retrieveNotesMsg   struct{}
	performSearchMsg   struct{}
	cleanStateMsg      struct{}
	nextSortModeMsg    struct{}
	prevSortModeMsg    struct{}
	deleteNoteMsg      struct{}
	editNoteMsg        struct{}
	copyNoteMsg        struct{}
	dataFileChangedMsg struct{}

	scrollPreviewMsg struct{ action string }
	toggleHelpMsg    struct{}
)

// errorMsg carries a recoverable failure to the status line. status is the
// user-facing summary.
type errorMsg struct {
	status string
	err    error
}
