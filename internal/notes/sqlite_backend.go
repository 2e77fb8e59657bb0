package notes

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS notes (
	id            INTEGER PRIMARY KEY,
	label         TEXT NOT NULL,
	text          TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	tags          TEXT NOT NULL,
	related_notes TEXT NOT NULL
);
`

// SQLiteBackend stores notes in a SQLite database.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// NewSQLiteBackend opens (creating if needed) the database at path and
// verifies its schema version.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	b := &SQLiteBackend{db: db, path: path}
	if err := b.init(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *SQLiteBackend) init() error {
	if _, err := b.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	var raw string
	err := b.db.QueryRow(`SELECT value FROM meta WHERE key = 'version'`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = b.db.Exec(`INSERT INTO meta (key, value) VALUES ('version', ?)`, strconv.Itoa(SchemaVersion))
		if err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	version, err := strconv.Atoi(raw)
	if err != nil || version != SchemaVersion {
		return fmt.Errorf("%w: %q has version %q, want %d", ErrVersionMismatch, b.path, raw, SchemaVersion)
	}
	return nil
}

// Close closes the database connection.
func (b *SQLiteBackend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func (b *SQLiteBackend) RetrieveNotes() ([]Note, error) {
	rows, err := b.db.Query(`SELECT id, label, text, created_at, tags, related_notes FROM notes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var (
			n                    Note
			createdAt            string
			tagsJSON, relatedRaw string
		)
		if err := rows.Scan(&n.ID, &n.Label, &n.Text, &createdAt, &tagsJSON, &relatedRaw); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("note %d: parse created_at: %w", n.ID, err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &n.Tags); err != nil {
			return nil, fmt.Errorf("note %d: parse tags: %w", n.ID, err)
		}
		if err := json.Unmarshal([]byte(relatedRaw), &n.RelatedNotes); err != nil {
			return nil, fmt.Errorf("note %d: parse related notes: %w", n.ID, err)
		}
		n.Tags = nonNilStrings(n.Tags)
		n.RelatedNotes = nonNilInts(n.RelatedNotes)
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (b *SQLiteBackend) AddNote(note UnsavedNote) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("begin add: %w", err)
	}
	defer tx.Rollback()

	var maxID sql.NullInt64
	if err := tx.QueryRow(`SELECT MAX(id) FROM notes`).Scan(&maxID); err != nil {
		return fmt.Errorf("read max id: %w", err)
	}
	id := 1
	if maxID.Valid {
		id = int(maxID.Int64) + 1
	}

	created := note.WithID(id)
	tags, related, err := encodeLists(created)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		`INSERT INTO notes (id, label, text, created_at, tags, related_notes) VALUES (?, ?, ?, ?, ?, ?)`,
		created.ID, created.Label, created.Text, created.CreatedAt.Format(time.RFC3339Nano), tags, related,
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add: %w", err)
	}
	storeLog.Debug("added note", "id", created.ID, "label", created.Label, "backend", "sqlite")
	return nil
}

func (b *SQLiteBackend) UpdateNote(note Note) error {
	tags, related, err := encodeLists(note)
	if err != nil {
		return err
	}
	res, err := b.db.Exec(
		`UPDATE notes SET label = ?, text = ?, created_at = ?, tags = ?, related_notes = ? WHERE id = ?`,
		note.Label, note.Text, note.CreatedAt.Format(time.RFC3339Nano), tags, related, note.ID,
	)
	if err != nil {
		return fmt.Errorf("update note %d: %w", note.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update note %d: %w", note.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update note %d: %w", note.ID, ErrNoteNotFound)
	}
	return nil
}

func (b *SQLiteBackend) DeleteNote(id int) error {
	if _, err := b.db.Exec(`DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	return nil
}

func encodeLists(n Note) (string, string, error) {
	tags, err := json.Marshal(nonNilStrings(n.Tags))
	if err != nil {
		return "", "", fmt.Errorf("encode tags: %w", err)
	}
	related, err := json.Marshal(nonNilInts(n.RelatedNotes))
	if err != nil {
		return "", "", fmt.Errorf("encode related notes: %w", err)
	}
	return string(tags), string(related), nil
}
