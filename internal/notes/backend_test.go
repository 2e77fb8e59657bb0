package notes

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"pgregory.net/rapid"
)

type backendFactory func(t testing.TB, dir string) Backend

func backendFactories() map[string]backendFactory {
	return map[string]backendFactory{
		"json": func(t testing.TB, dir string) Backend {
			b, err := Open(KindJSON, filepath.Join(dir, "notes.json"))
			if err != nil {
				t.Fatalf("open json backend: %v", err)
			}
			return b
		},
		"sqlite": func(t testing.TB, dir string) Backend {
			b, err := Open(KindSQLite, filepath.Join(dir, "notes.db"))
			if err != nil {
				t.Fatalf("open sqlite backend: %v", err)
			}
			t.Cleanup(func() { b.(*SQLiteBackend).Close() })
			return b
		},
	}
}

func sameNote(a, b Note) bool {
	return a.ID == b.ID &&
		a.Label == b.Label &&
		a.Text == b.Text &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		reflect.DeepEqual(nonNilStrings(a.Tags), nonNilStrings(b.Tags)) &&
		reflect.DeepEqual(nonNilInts(a.RelatedNotes), nonNilInts(b.RelatedNotes))
}

func sameNotes(a, b []Note) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameNote(a[i], b[i]) {
			return false
		}
	}
	return true
}

func testNote() UnsavedNote {
	return UnsavedNote{
		Label:     "Testing title 1",
		Text:      "body",
		Tags:      []string{"npc", "neverwinter"},
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBackendsAssignFirstIDWhenEmpty(t *testing.T) {
	for name, open := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			b := open(t, t.TempDir())
			if err := b.AddNote(testNote()); err != nil {
				t.Fatalf("add: %v", err)
			}
			got, err := b.RetrieveNotes()
			if err != nil {
				t.Fatalf("retrieve: %v", err)
			}
			if len(got) != 1 || got[0].ID != 1 {
				t.Fatalf("expected a single note with id 1, got %+v", got)
			}
		})
	}
}

func TestAddThenDeleteRestoresOriginalList(t *testing.T) {
	seed := Note{
		ID:           0,
		Label:        "Testing title",
		Text:         "This is a very long string",
		CreatedAt:    time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC),
		Tags:         []string{"npc", "neverwinter"},
		RelatedNotes: []int{},
	}

	for name, open := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			b := open(t, dir)
			seedBackend(t, b, seed)

			original, err := b.RetrieveNotes()
			if err != nil {
				t.Fatalf("retrieve: %v", err)
			}

			if err := b.AddNote(testNote()); err != nil {
				t.Fatalf("add: %v", err)
			}
			after, err := b.RetrieveNotes()
			if err != nil {
				t.Fatalf("retrieve: %v", err)
			}
			if len(after) != 2 || after[1].ID != 1 {
				t.Fatalf("expected new note with id 1, got %+v", after)
			}

			if err := b.DeleteNote(1); err != nil {
				t.Fatalf("delete: %v", err)
			}
			restored, err := b.RetrieveNotes()
			if err != nil {
				t.Fatalf("retrieve: %v", err)
			}
			if !sameNotes(original, restored) {
				t.Fatalf("expected %+v, got %+v", original, restored)
			}
		})
	}
}

// seedBackend stores n under its exact id, including ids AddNote would
// never assign.
func seedBackend(t *testing.T, b Backend, n Note) {
	t.Helper()
	switch backend := b.(type) {
	case *JSONBackend:
		if err := backend.write(document{Version: SchemaVersion, Notes: []Note{n}}); err != nil {
			t.Fatalf("seed json: %v", err)
		}
	case *SQLiteBackend:
		tags, related, err := encodeLists(n)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		_, err = backend.db.Exec(
			`INSERT INTO notes (id, label, text, created_at, tags, related_notes) VALUES (?, ?, ?, ?, ?, ?)`,
			n.ID, n.Label, n.Text, n.CreatedAt.Format(time.RFC3339Nano), tags, related,
		)
		if err != nil {
			t.Fatalf("seed sqlite: %v", err)
		}
	default:
		t.Fatalf("unexpected backend %T", b)
	}
}

func TestUpdateNoteReplacesFieldsAndRejectsUnknownID(t *testing.T) {
	for name, open := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			b := open(t, t.TempDir())
			if err := b.AddNote(testNote()); err != nil {
				t.Fatalf("add: %v", err)
			}
			stored, err := b.RetrieveNotes()
			if err != nil {
				t.Fatalf("retrieve: %v", err)
			}

			edited := stored[0].Clone()
			edited.Label = "Renamed"
			edited.Tags = []string{"quest"}
			edited.Text = "new body"
			if err := b.UpdateNote(edited); err != nil {
				t.Fatalf("update: %v", err)
			}
			got, err := b.RetrieveNotes()
			if err != nil {
				t.Fatalf("retrieve: %v", err)
			}
			if !sameNote(got[0], edited) {
				t.Fatalf("expected %+v, got %+v", edited, got[0])
			}

			missing := edited
			missing.ID = 42
			if err := b.UpdateNote(missing); !errors.Is(err, ErrNoteNotFound) {
				t.Fatalf("expected ErrNoteNotFound, got %v", err)
			}
		})
	}
}

func TestDeleteNoteIsIdempotent(t *testing.T) {
	for name, open := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			b := open(t, t.TempDir())
			if err := b.DeleteNote(7); err != nil {
				t.Fatalf("delete absent note: %v", err)
			}
			if err := b.AddNote(testNote()); err != nil {
				t.Fatalf("add: %v", err)
			}
			for i := 0; i < 2; i++ {
				if err := b.DeleteNote(1); err != nil {
					t.Fatalf("delete #%d: %v", i, err)
				}
			}
			got, err := b.RetrieveNotes()
			if err != nil {
				t.Fatalf("retrieve: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("expected empty store, got %+v", got)
			}
		})
	}
}

func TestJSONBackendRejectsVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	if err := os.WriteFile(path, []byte(`{"version":2,"notes":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	b := NewJSONBackend(path)
	if _, err := b.RetrieveNotes(); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
	if err := b.AddNote(testNote()); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch on add, got %v", err)
	}
}

func TestJSONBackendEnsureFileWritesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "notes.json")
	b := NewJSONBackend(path)
	if err := b.EnsureFile(); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "{\n  \"version\": 1,\n  \"notes\": []\n}\n"
	if string(data) != want {
		t.Fatalf("expected %q, got %q", want, data)
	}

	// Existing documents are left alone.
	if err := b.AddNote(testNote()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.EnsureFile(); err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	got, err := b.RetrieveNotes()
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected note to survive, got %+v", got)
	}
}

func TestSQLiteBackendRejectsVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")
	b, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := b.db.Exec(`UPDATE meta SET value = '9' WHERE key = 'version'`); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	b.Close()

	if _, err := NewSQLiteBackend(path); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	if _, err := Open("toml", filepath.Join(t.TempDir(), "x")); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestAddRetrieveRoundTrip(t *testing.T) {
	for name, open := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			b := open(t, dir)
			rapid.Check(t, func(rt *rapid.T) {
				before, err := b.RetrieveNotes()
				if err != nil {
					rt.Fatalf("retrieve: %v", err)
				}
				u := UnsavedNote{
					Label:        rapid.StringMatching(`[a-zA-Z0-9 ]{1,20}`).Draw(rt, "label"),
					Text:         rapid.StringMatching(`[\p{L}\p{N} .,\n]{0,40}`).Draw(rt, "text"),
					Tags:         rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 0, 4).Draw(rt, "tags"),
					RelatedNotes: rapid.SliceOfN(rapid.IntRange(0, 100), 0, 3).Draw(rt, "related"),
					CreatedAt:    time.Unix(rapid.Int64Range(0, 2_000_000_000).Draw(rt, "created"), 0).UTC(),
				}
				if err := b.AddNote(u); err != nil {
					rt.Fatalf("add: %v", err)
				}
				after, err := b.RetrieveNotes()
				if err != nil {
					rt.Fatalf("retrieve: %v", err)
				}
				if len(after) != len(before)+1 {
					rt.Fatalf("expected %d notes, got %d", len(before)+1, len(after))
				}
				added := after[len(after)-1]
				for _, n := range before {
					if n.ID == added.ID {
						rt.Fatalf("id %d reused", added.ID)
					}
				}
				if !sameNote(added, u.WithID(added.ID)) {
					rt.Fatalf("expected %+v, got %+v", u.WithID(added.ID), added)
				}
			})
		})
	}
}
