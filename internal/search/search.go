// Package search filters notes by a free-text query and a comma-separated
// tag query, delegating the per-term matching to a Matcher.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/treykane/norganisers/internal/logging"
	"github.com/treykane/norganisers/internal/notes"
)

var log = logging.New("search")

// ErrNoMatcher is returned when the requested matcher is unavailable.
var ErrNoMatcher = errors.New("search matcher unavailable")

// maxParallelTerms bounds the number of matcher runs in flight.
const maxParallelTerms = 8

// IDSet is a set of note ids.
type IDSet map[int]struct{}

// NewIDSet builds a set holding ids.
func NewIDSet(ids ...int) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is in the set.
func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func (s IDSet) intersect(other IDSet) IDSet {
	out := IDSet{}
	for id := range s {
		if other.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Candidate is one searchable line belonging to a note.
type Candidate struct {
	ID   int
	Text string
}

// Line renders the candidate as "<id>: <text>" on a single line.
func (c Candidate) Line() string {
	return strconv.Itoa(c.ID) + ": " + flatten(c.Text)
}

// Matcher returns the ids of candidates matching a single term.
type Matcher interface {
	Match(ctx context.Context, term string, candidates []Candidate) (IDSet, error)
}

// Query is the content of the search form.
type Query struct {
	Text string
	Tags string
}

// Empty reports whether neither axis carries a term.
func (q Query) Empty() bool {
	return strings.TrimSpace(q.Text) == "" && len(SplitTerms(q.Tags)) == 0
}

// SplitTerms splits a comma-separated list, trimming entries and dropping
// empty ones.
func SplitTerms(raw string) []string {
	parts := strings.Split(raw, ",")
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		if term := strings.TrimSpace(part); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// NoteCandidates returns "label | text" lines keyed by note id.
func NoteCandidates(list []notes.Note) []Candidate {
	out := make([]Candidate, 0, len(list))
	for _, n := range list {
		out = append(out, Candidate{ID: n.ID, Text: n.Label + " | " + n.Text})
	}
	return out
}

// TagCandidates returns space-joined tag lines keyed by note id. Notes
// without tags are left out.
func TagCandidates(list []notes.Note) []Candidate {
	out := make([]Candidate, 0, len(list))
	for _, n := range list {
		if len(n.Tags) == 0 {
			continue
		}
		out = append(out, Candidate{ID: n.ID, Text: strings.Join(n.Tags, " ")})
	}
	return out
}

// Searcher combines per-term matches into a single id set.
type Searcher struct {
	matcher Matcher
	name    string
}

// New returns a Searcher backed by m.
func New(name string, m Matcher) *Searcher {
	return &Searcher{matcher: m, name: name}
}

// Name identifies the matcher for status messages.
func (s *Searcher) Name() string {
	return s.name
}

// Search returns the ids of notes matching q. The text term and every tag
// term run concurrently; tag terms are intersected with each other and with
// the text matches. A query with no terms matches nothing.
func (s *Searcher) Search(ctx context.Context, list []notes.Note, q Query) (IDSet, error) {
	text := strings.TrimSpace(q.Text)
	tagTerms := SplitTerms(q.Tags)
	if text == "" && len(tagTerms) == 0 {
		return IDSet{}, nil
	}

	type job struct {
		term       string
		candidates []Candidate
	}
	var jobs []job
	if text != "" {
		jobs = append(jobs, job{term: text, candidates: NoteCandidates(list)})
	}
	if len(tagTerms) > 0 {
		tagLines := TagCandidates(list)
		for _, term := range tagTerms {
			jobs = append(jobs, job{term: term, candidates: tagLines})
		}
	}

	results := make([]IDSet, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelTerms)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			ids, err := s.matcher.Match(ctx, j.term, j.candidates)
			if err != nil {
				return fmt.Errorf("search %q: %w", j.term, err)
			}
			results[i] = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matched := results[0]
	for _, ids := range results[1:] {
		matched = matched.intersect(ids)
	}
	log.Debug("search finished", "matcher", s.name, "text", text, "tags", tagTerms, "matched", len(matched))
	return matched, nil
}

func flatten(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
