// Package notes defines the note entities and the persistence backends that
// store them.
package notes

import (
	"errors"
	"time"
)

// SchemaVersion is the persisted document version this build understands.
const SchemaVersion = 1

var (
	// ErrNoteNotFound is returned by UpdateNote when no stored note shares
	// the id.
	ErrNoteNotFound = errors.New("note not found")

	// ErrVersionMismatch means the persisted data was written with a
	// different schema version. It is not recoverable.
	ErrVersionMismatch = errors.New("data file schema version mismatch")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown note backend")
)

// Note is a persisted note.
type Note struct {
	ID           int       `json:"id"`
	Label        string    `json:"label"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
	Tags         []string  `json:"tags"`
	RelatedNotes []int     `json:"related_notes"`
}

// UnsavedNote is a note that has not been assigned an id yet.
type UnsavedNote struct {
	Label        string
	Text         string
	Tags         []string
	RelatedNotes []int
	CreatedAt    time.Time
}

// WithID turns the unsaved note into a Note carrying id.
func (u UnsavedNote) WithID(id int) Note {
	return Note{
		ID:           id,
		Label:        u.Label,
		Text:         u.Text,
		CreatedAt:    u.CreatedAt,
		Tags:         nonNilStrings(u.Tags),
		RelatedNotes: nonNilInts(u.RelatedNotes),
	}
}

// Clone returns a deep copy so callers can edit tags without aliasing the
// stored slice.
func (n Note) Clone() Note {
	out := n
	out.Tags = append([]string{}, n.Tags...)
	out.RelatedNotes = append([]int{}, n.RelatedNotes...)
	return out
}

// Backend is the persistence contract consumed by the application.
type Backend interface {
	RetrieveNotes() ([]Note, error)
	// AddNote stores the note under max(existing id)+1, or 1 when empty.
	AddNote(note UnsavedNote) error
	// UpdateNote replaces the stored note sharing note.ID.
	UpdateNote(note Note) error
	// DeleteNote removes the note; deleting an absent id is not an error.
	DeleteNote(id int) error
}

// nextID applies the id assignment rule shared by every backend.
func nextID(notes []Note) int {
	if len(notes) == 0 {
		return 1
	}
	maxID := notes[0].ID
	for _, n := range notes[1:] {
		if n.ID > maxID {
			maxID = n.ID
		}
	}
	return maxID + 1
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilInts(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}
