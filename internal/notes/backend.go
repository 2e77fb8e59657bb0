package notes

import "fmt"

// Backend kinds understood by Open.
const (
	KindJSON   = "json"
	KindSQLite = "sqlite"
)

// Open builds the backend named by kind for the data file at path. The JSON
// document is created when missing. Backends holding resources implement
// io.Closer.
func Open(kind, path string) (Backend, error) {
	switch kind {
	case KindJSON, "":
		b := NewJSONBackend(path)
		if err := b.EnsureFile(); err != nil {
			return nil, err
		}
		return b, nil
	case KindSQLite:
		return NewSQLiteBackend(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}
