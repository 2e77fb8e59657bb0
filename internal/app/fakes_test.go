package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/norganisers/internal/editor"
	"github.com/treykane/norganisers/internal/notes"
	"github.com/treykane/norganisers/internal/search"
)

// memoryBackend is an in-memory notes.Backend with injectable failures.
type memoryBackend struct {
	notes       []notes.Note
	retrieveErr error
	addErr      error
	updateErr   error
	deleteErr   error
	calls       []string
}

func (b *memoryBackend) RetrieveNotes() ([]notes.Note, error) {
	b.calls = append(b.calls, "retrieve")
	if b.retrieveErr != nil {
		return nil, b.retrieveErr
	}
	out := make([]notes.Note, 0, len(b.notes))
	for _, n := range b.notes {
		out = append(out, n.Clone())
	}
	return out, nil
}

func (b *memoryBackend) AddNote(u notes.UnsavedNote) error {
	b.calls = append(b.calls, "add")
	if b.addErr != nil {
		return b.addErr
	}
	id := 1
	for _, n := range b.notes {
		if n.ID >= id {
			id = n.ID + 1
		}
	}
	b.notes = append(b.notes, u.WithID(id))
	return nil
}

func (b *memoryBackend) UpdateNote(n notes.Note) error {
	b.calls = append(b.calls, "update")
	if b.updateErr != nil {
		return b.updateErr
	}
	for i := range b.notes {
		if b.notes[i].ID == n.ID {
			b.notes[i] = n.Clone()
			return nil
		}
	}
	return notes.ErrNoteNotFound
}

func (b *memoryBackend) DeleteNote(id int) error {
	b.calls = append(b.calls, "delete")
	if b.deleteErr != nil {
		return b.deleteErr
	}
	kept := b.notes[:0]
	for _, n := range b.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	b.notes = kept
	return nil
}

func (b *memoryBackend) find(id int) (notes.Note, bool) {
	for _, n := range b.notes {
		if n.ID == id {
			return n, true
		}
	}
	return notes.Note{}, false
}

// substringMatcher keeps search results deterministic.
type substringMatcher struct{}

func (substringMatcher) Match(_ context.Context, term string, candidates []search.Candidate) (search.IDSet, error) {
	ids := search.IDSet{}
	for _, c := range candidates {
		if strings.Contains(c.Text, term) {
			ids[c.ID] = struct{}{}
		}
	}
	return ids, nil
}

// scriptedEditor answers every Edit with a fixed result.
type scriptedEditor struct {
	text string
	err  error
	seen []string
}

func (e *scriptedEditor) Edit(noteID int, text string) tea.Cmd {
	e.seen = append(e.seen, text)
	return func() tea.Msg {
		return editor.FinishedMsg{NoteID: noteID, Text: e.text, Err: e.err}
	}
}

func fixtureNotes() []notes.Note {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return []notes.Note{
		{ID: 0, Label: "Testing title", Text: "This is a very long string", Tags: []string{"npc", "neverwinter"}, CreatedAt: created, RelatedNotes: []int{}},
		{ID: 4, Label: "Shopping", Text: "eggs", Tags: []string{"errand"}, CreatedAt: created.Add(time.Hour), RelatedNotes: []int{}},
	}
}

type testEnv struct {
	m       *Model
	backend *memoryBackend
	editor  *scriptedEditor
	copied  []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		backend: &memoryBackend{notes: fixtureNotes()},
		editor:  &scriptedEditor{},
	}
	m, err := New(Options{
		Backend:  env.backend,
		Searcher: search.New("substring", substringMatcher{}),
		Editor:   env.editor,
		Now:      func() time.Time { return time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC) },
		CopyText: func(s string) error {
			env.copied = append(env.copied, s)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	env.m = m
	return env
}

// send dispatches msgs in order.
func (env *testEnv) send(msgs ...tea.Msg) {
	for _, msg := range msgs {
		env.m.dispatch(msg)
	}
}

// typeText dispatches one addCharMsg per rune.
func (env *testEnv) typeText(text string) {
	for _, r := range text {
		env.m.dispatch(addCharMsg{r: r})
	}
}

var errBoom = errors.New("boom")
