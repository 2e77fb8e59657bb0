package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/norganisers/internal/notes"
	"github.com/treykane/norganisers/internal/search"
)

// Searcher filters notes for the search popup.
type Searcher interface {
	Search(ctx context.Context, list []notes.Note, q search.Query) (search.IDSet, error)
}

// Editor edits a note body outside the program. The returned command must
// eventually deliver an editor.FinishedMsg for noteID.
type Editor interface {
	Edit(noteID int, text string) tea.Cmd
}
