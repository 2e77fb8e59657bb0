package app

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/treykane/norganisers/internal/notes"
	"github.com/treykane/norganisers/internal/search"
)

// Field positions shared by the two-field forms.
const (
	fieldLabel = 0
	fieldTags  = 1

	fieldQuery    = 0
	fieldTagQuery = 1
)

// tagSeparator joins tags written back into a form field.
const tagSeparator = ", "

// Form is an ordered set of independently editable text fields. Field
// indices out of range are a programming error and panic.
type Form struct {
	fields []string
}

// NewForm returns a form with one field per value.
func NewForm(values ...string) *Form {
	return &Form{fields: append([]string{}, values...)}
}

// FieldCount returns the number of fields.
func (f *Form) FieldCount() int {
	return len(f.fields)
}

// FieldContent returns the text of field i.
func (f *Form) FieldContent(i int) string {
	return f.fields[i]
}

// InsertInField inserts r at byteOffset in field i.
func (f *Form) InsertInField(i, byteOffset int, r rune) {
	field := f.fields[i]
	f.fields[i] = field[:byteOffset] + string(r) + field[byteOffset:]
}

// RemoveInField removes the character ending at byteOffset in field i.
// Offset 0 is a no-op.
func (f *Form) RemoveInField(i, byteOffset int) {
	if byteOffset <= 0 {
		return
	}
	field := f.fields[i]
	_, size := utf8.DecodeLastRuneInString(field[:byteOffset])
	f.fields[i] = field[:byteOffset-size] + field[byteOffset:]
}

// ReplaceFieldContent overwrites field i.
func (f *Form) ReplaceFieldContent(i int, content string) {
	f.fields[i] = content
}

// IsEmpty reports whether every field is blank.
func (f *Form) IsEmpty() bool {
	for _, field := range f.fields {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// Valid reports whether the form may be submitted as kind. Note forms need a
// label; the search form needs at least one term.
func (f *Form) Valid(kind PopupKind) bool {
	switch kind {
	case PopupNewNote, PopupEditNote:
		return strings.TrimSpace(f.FieldContent(fieldLabel)) != ""
	case PopupSearchNote:
		return !f.SearchQuery().Empty()
	default:
		return false
	}
}

// ToUnsavedNote finalizes a new-note form. The creation time is stored in
// UTC.
func (f *Form) ToUnsavedNote(now time.Time) notes.UnsavedNote {
	return notes.UnsavedNote{
		Label:        strings.TrimSpace(f.FieldContent(fieldLabel)),
		Tags:         ParseTags(f.FieldContent(fieldTags)),
		RelatedNotes: []int{},
		CreatedAt:    now.UTC(),
	}
}

// ApplyToNote finalizes an edit form onto a copy of n.
func (f *Form) ApplyToNote(n notes.Note) notes.Note {
	edited := n.Clone()
	edited.Label = strings.TrimSpace(f.FieldContent(fieldLabel))
	edited.Tags = ParseTags(f.FieldContent(fieldTags))
	return edited
}

// SearchQuery finalizes a search form.
func (f *Form) SearchQuery() search.Query {
	return search.Query{
		Text: f.FieldContent(fieldQuery),
		Tags: f.FieldContent(fieldTagQuery),
	}
}

// ParseTags splits a comma-separated tag field, trimming each tag and
// dropping empty ones.
func ParseTags(raw string) []string {
	return search.SplitTerms(raw)
}

// JoinTags renders tags for a form field.
func JoinTags(tags []string) string {
	return strings.Join(tags, tagSeparator)
}
