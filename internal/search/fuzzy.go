package search

import (
	"context"

	"github.com/sahilm/fuzzy"
)

// Fuzzy matches terms in process with sahilm/fuzzy. The id prefix is not
// part of the matched text.
type Fuzzy struct{}

func (Fuzzy) Match(ctx context.Context, term string, candidates []Candidate) (IDSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids := IDSet{}
	for _, match := range fuzzy.FindFrom(term, candidateSource(candidates)) {
		ids[candidates[match.Index].ID] = struct{}{}
	}
	return ids, nil
}

type candidateSource []Candidate

func (s candidateSource) String(i int) string { return flatten(s[i].Text) }
func (s candidateSource) Len() int            { return len(s) }
