package notes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/treykane/norganisers/internal/logging"
)

var storeLog = logging.New("notes")

// document is the on-disk layout of the JSON backend.
type document struct {
	Version int    `json:"version"`
	Notes   []Note `json:"notes"`
}

// JSONBackend stores every note in a single JSON document.
type JSONBackend struct {
	path string
}

// NewJSONBackend returns a backend reading and writing path.
func NewJSONBackend(path string) *JSONBackend {
	return &JSONBackend{path: path}
}

// EnsureFile creates an empty document when none exists yet.
func (b *JSONBackend) EnsureFile() error {
	_, err := os.Stat(b.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	storeLog.Info("creating empty data file", "path", b.path)
	return b.write(document{Version: SchemaVersion, Notes: []Note{}})
}

func (b *JSONBackend) RetrieveNotes() ([]Note, error) {
	doc, err := b.read()
	if err != nil {
		return nil, err
	}
	return doc.Notes, nil
}

func (b *JSONBackend) AddNote(note UnsavedNote) error {
	doc, err := b.read()
	if err != nil {
		return err
	}
	created := note.WithID(nextID(doc.Notes))
	doc.Notes = append(doc.Notes, created)
	if err := b.write(doc); err != nil {
		return err
	}
	storeLog.Debug("added note", "id", created.ID, "label", created.Label)
	return nil
}

func (b *JSONBackend) UpdateNote(note Note) error {
	doc, err := b.read()
	if err != nil {
		return err
	}
	updated := false
	for i := range doc.Notes {
		if doc.Notes[i].ID == note.ID {
			doc.Notes[i] = note.Clone()
			updated = true
			break
		}
	}
	if !updated {
		return fmt.Errorf("update note %d: %w", note.ID, ErrNoteNotFound)
	}
	return b.write(doc)
}

func (b *JSONBackend) DeleteNote(id int) error {
	doc, err := b.read()
	if err != nil {
		return err
	}
	kept := doc.Notes[:0]
	for _, n := range doc.Notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	doc.Notes = kept
	return b.write(doc)
}

func (b *JSONBackend) read() (document, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return document{}, fmt.Errorf("read data file %q: %w", b.path, err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("parse data file %q: %w", b.path, err)
	}
	if doc.Version != SchemaVersion {
		return document{}, fmt.Errorf("%w: %q has version %d, want %d", ErrVersionMismatch, b.path, doc.Version, SchemaVersion)
	}
	if doc.Notes == nil {
		doc.Notes = []Note{}
	}
	return doc, nil
}

// write replaces the document atomically via a temp file in the same
// directory.
func (b *JSONBackend) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".notes-*.json")
	if err != nil {
		return fmt.Errorf("write data file %q: %w", b.path, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write data file %q: %w", b.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write data file %q: %w", b.path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write data file %q: %w", b.path, err)
	}
	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write data file %q: %w", b.path, err)
	}
	return nil
}
