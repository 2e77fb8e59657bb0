package app

import (
	"sort"

	"github.com/treykane/norganisers/internal/notes"
	"github.com/treykane/norganisers/internal/search"
)

// NoteStore owns the loaded notes and derives the filtered, sorted view the
// list shows. Storage order is never changed by filtering or sorting.
//
// Two index spaces exist: storage indices into notes and view indices into
// the projection. Every view-index lookup recomputes the projection.
type NoteStore struct {
	notes   []notes.Note
	matched search.IDSet
	tags    []string
	sort    sortMode
}

// NewNoteStore builds a store over list.
func NewNoteStore(list []notes.Note) *NoteStore {
	s := &NoteStore{}
	s.UpdateNotes(list)
	return s
}

// UpdateNotes replaces every note, clears the filter and recomputes the tag
// universe.
func (s *NoteStore) UpdateNotes(list []notes.Note) {
	s.notes = append([]notes.Note{}, list...)
	s.matched = nil
	s.tags = tagUniverse(s.notes)
}

// UpdateFilter restricts the view to notes whose id is in ids. Ids not in
// storage are dropped.
func (s *NoteStore) UpdateFilter(ids search.IDSet) {
	matched := search.IDSet{}
	for _, n := range s.notes {
		if ids.Has(n.ID) {
			matched[n.ID] = struct{}{}
		}
	}
	s.matched = matched
}

// RemoveFilter shows every note again.
func (s *NoteStore) RemoveFilter() {
	s.matched = nil
}

// IsFiltered reports whether a filter is active.
func (s *NoteStore) IsFiltered() bool {
	return s.matched != nil
}

// MatchedIDs returns the active filter, or nil.
func (s *NoteStore) MatchedIDs() search.IDSet {
	return s.matched
}

// SortMode returns the current ordering.
func (s *NoteStore) SortMode() sortMode {
	return s.sort
}

func (s *NoteStore) NextSortMode() {
	s.sort = s.sort.next()
}

func (s *NoteStore) PrevSortMode() {
	s.sort = s.sort.prev()
}

// AllNotes returns storage without filtering or sorting.
func (s *NoteStore) AllNotes() []notes.Note {
	return s.notes
}

// Notes returns the view projection.
func (s *NoteStore) Notes() []notes.Note {
	indices := s.projection()
	out := make([]notes.Note, 0, len(indices))
	for _, i := range indices {
		out = append(out, s.notes[i])
	}
	return out
}

// Len returns the number of notes in the view.
func (s *NoteStore) Len() int {
	return len(s.projection())
}

// Get returns the note at a view index.
func (s *NoteStore) Get(viewIdx int) (notes.Note, bool) {
	n, ok := s.GetMut(viewIdx)
	if !ok {
		return notes.Note{}, false
	}
	return *n, true
}

// GetMut returns the stored note at a view index for in-place mutation.
// Indices outside the current view report false.
func (s *NoteStore) GetMut(viewIdx int) (*notes.Note, bool) {
	indices := s.projection()
	if viewIdx < 0 || viewIdx >= len(indices) {
		return nil, false
	}
	return &s.notes[indices[viewIdx]], true
}

// NoteByID finds a stored note regardless of the filter.
func (s *NoteStore) NoteByID(id int) (notes.Note, bool) {
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return notes.Note{}, false
}

// Tags returns the sorted, de-duplicated tags of every stored note.
func (s *NoteStore) Tags() []string {
	return append([]string{}, s.tags...)
}

// projection returns storage indices in view order: filtered in storage
// order, then stably sorted.
func (s *NoteStore) projection() []int {
	indices := make([]int, 0, len(s.notes))
	for i, n := range s.notes {
		if s.matched == nil || s.matched.Has(n.ID) {
			indices = append(indices, i)
		}
	}

	var less func(a, b notes.Note) bool
	switch s.sort {
	case sortCreatedAsc:
		less = func(a, b notes.Note) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case sortCreatedDesc:
		less = func(a, b notes.Note) bool { return b.CreatedAt.Before(a.CreatedAt) }
	case sortLabelAsc:
		less = func(a, b notes.Note) bool { return a.Label < b.Label }
	case sortLabelDesc:
		less = func(a, b notes.Note) bool { return b.Label < a.Label }
	default:
		return indices
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return less(s.notes[indices[i]], s.notes[indices[j]])
	})
	return indices
}

func tagUniverse(list []notes.Note) []string {
	seen := map[string]struct{}{}
	tags := []string{}
	for _, n := range list {
		for _, tag := range n.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}
