package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/norganisers/internal/config"
	"github.com/treykane/norganisers/internal/notes"
)

// Options wires the collaborators of a Model.
type Options struct {
	Backend  notes.Backend
	Searcher Searcher
	Editor   Editor
	Config   config.Config

	// Changes, when set, signals that the data file changed on disk.
	Changes <-chan struct{}

	// Now and CopyText default to time.Now and the system clipboard.
	Now      func() time.Time
	CopyText func(string) error
}

// Model holds the Bubble Tea state for the entire UI. It is the only owner
// of mutable application state; every change goes through dispatch.
type Model struct {
	// Collaborators
	backend  notes.Backend
	searcher Searcher
	editor   Editor
	changes  <-chan struct{}
	now      func() time.Time
	copyText func(string) error

	// Application state
	running  runningState
	mode     inputMode
	store    *NoteStore
	popup    *Popup
	selected int
	fatalErr error

	// UI widgets
	keys      keyMap
	help      help.Model
	viewport  viewport.Model
	status    string
	statusErr bool

	// Layout sizing
	width      int
	height     int
	listOffset int

	// Preview rendering
	previewKey  uint64
	renderCache map[uint64]string
}

// New loads the notes and prepares the initial UI model. A schema version
// mismatch is returned as an error; other load failures start the UI with
// an empty list and the error on the status line.
func New(opts Options) (*Model, error) {
	if opts.Backend == nil {
		return nil, errors.New("app: backend is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CopyText == nil {
		opts.CopyText = clipboard.WriteAll
	}

	m := &Model{
		backend:     opts.Backend,
		searcher:    opts.Searcher,
		editor:      opts.Editor,
		changes:     opts.Changes,
		now:         opts.Now,
		copyText:    opts.CopyText,
		mode:        modeNavigating,
		store:       NewNoteStore(nil),
		keys:        newKeyMap(opts.Config),
		help:        help.New(),
		viewport:    viewport.New(0, 0),
		renderCache: map[uint64]string{},
	}
	m.setStatus("Ready")

	list, err := opts.Backend.RetrieveNotes()
	switch {
	case errors.Is(err, notes.ErrVersionMismatch):
		return nil, err
	case err != nil:
		m.setStatusError("Loading notes failed", err)
	default:
		m.store.UpdateNotes(list)
		m.setStatus(fmt.Sprintf("Loaded %d notes", len(list)))
	}
	m.clampSelection()
	return m, nil
}

// Err returns the fatal error that stopped the program, if any.
func (m *Model) Err() error {
	return m.fatalErr
}

// Init starts listening for data file changes.
func (m *Model) Init() tea.Cmd {
	return m.waitForDataFileChange()
}

// Update is the Bubble Tea update loop: translate events into messages and
// hand them to dispatch.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case previewRenderedMsg:
		return m.handlePreviewRendered(msg)
	case tea.KeyMsg:
		next := m.messageForKey(msg)
		if next == nil {
			return m, nil
		}
		return m, m.dispatch(next)
	default:
		return m, m.dispatch(msg)
	}
}

// selectedNote returns the note under the list cursor.
func (m *Model) selectedNote() (notes.Note, bool) {
	if m.selected < 0 {
		return notes.Note{}, false
	}
	return m.store.Get(m.selected)
}

// clampSelection keeps the list cursor on a visible note, or -1 when the
// list is empty.
func (m *Model) clampSelection() {
	n := m.store.Len()
	if n == 0 {
		m.selected = -1
		return
	}
	m.selected = clamp(m.selected, 0, n-1)
}

