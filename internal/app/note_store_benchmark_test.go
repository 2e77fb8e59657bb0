package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/treykane/norganisers/internal/notes"
	"github.com/treykane/norganisers/internal/search"
)

var benchmarkNoteStoreSink int

type storeBenchmarkDataset struct {
	name      string
	noteCount int
	hitEvery  int
}

func BenchmarkNoteStoreProjection(b *testing.B) {
	datasets := []storeBenchmarkDataset{
		{name: "medium", noteCount: 1200, hitEvery: 3},
		{name: "large", noteCount: 6000, hitEvery: 5},
	}

	for _, dataset := range datasets {
		dataset := dataset
		b.Run(dataset.name, func(b *testing.B) {
			list := seedStoreBenchmarkNotes(dataset)
			matched := search.IDSet{}
			for i := 0; i < dataset.noteCount; i += dataset.hitEvery {
				matched[i] = struct{}{}
			}

			b.Run("filtered", func(b *testing.B) {
				store := NewNoteStore(list)
				store.UpdateFilter(matched)

				b.ReportAllocs()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					benchmarkNoteStoreSink += len(store.Notes())
				}
			})

			b.Run("sorted", func(b *testing.B) {
				store := NewNoteStore(list)
				for store.SortMode() != sortLabelAsc {
					store.NextSortMode()
				}

				b.ReportAllocs()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					benchmarkNoteStoreSink += len(store.Notes())
				}
			})
		})
	}
}

func seedStoreBenchmarkNotes(dataset storeBenchmarkDataset) []notes.Note {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	list := make([]notes.Note, 0, dataset.noteCount)
	for i := 0; i < dataset.noteCount; i++ {
		// Labels run backwards so sorting has work to do.
		list = append(list, notes.Note{
			ID:           i,
			Label:        fmt.Sprintf("note %05d", dataset.noteCount-i),
			Tags:         []string{"bench", fmt.Sprintf("group-%02d", i%32)},
			RelatedNotes: []int{},
			CreatedAt:    created.Add(time.Duration(i) * time.Second),
		})
	}
	return list
}
