package search

import (
	"fmt"

	"github.com/treykane/norganisers/internal/config"
)

// ForEngine builds the Searcher named by a config search_engine value. Auto
// prefers fzf and falls back to the in-process matcher.
func ForEngine(engine string) (*Searcher, error) {
	switch config.ResolveSearchEngine(engine) {
	case config.SearchFZF:
		f, err := NewFZF()
		if err != nil {
			return nil, err
		}
		return New(config.SearchFZF, f), nil
	case config.SearchFuzzy:
		return New(config.SearchFuzzy, Fuzzy{}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoMatcher, engine)
	}
}
