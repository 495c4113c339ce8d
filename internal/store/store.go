package store

import (
	"errors"
	"fmt"

	"github.com/leca/image-store/internal/model"
)

// ErrEmptyData is returned by Add when the image payload is empty.
var ErrEmptyData = errors.New("empty image data")

// Store defines the contract shared by all image store backends.
//
// Identifiers are assigned from a counter that starts at 0 and only moves
// forward, so an identifier is never handed out twice, even after the record
// holding it has been deleted. All methods are safe for concurrent use.
type Store interface {
	// Add stores a copy of data under the next identifier and returns it.
	Add(name string, data []byte) (int64, error)

	// Get returns the record with the given id. found is false when no such
	// record is held; that is not an error.
	Get(id int64) (img model.Image, found bool, err error)

	// List returns a snapshot of all live records ordered by ascending id.
	List() ([]model.ImageSummary, error)

	// Delete removes the record with the given id and reports whether a
	// record was removed.
	Delete(id int64) (removed bool, err error)

	// Count returns the number of live records.
	Count() (int, error)

	// Close releases the resources held by the backend.
	Close() error
}

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// New constructs the store backend selected by name. dsn is only used by
// the sqlite backend.
func New(backend, dsn string) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendSQLite:
		s, err := NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", backend)
	}
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
