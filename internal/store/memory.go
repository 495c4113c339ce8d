package store

import (
	"slices"
	"sync"

	"github.com/leca/image-store/internal/model"
)

// Compile-time check that Memory implements Store.
var _ Store = (*Memory)(nil)

// Memory is the in-process Store. Records live in a map guarded by an
// RWMutex; ids keeps the live identifiers in ascending order so listing is
// deterministic without sorting.
type Memory struct {
	mu     sync.RWMutex
	next   int64
	images map[int64]model.Image
	ids    []int64
}

// NewMemory returns an empty in-memory store whose first identifier is 0.
func NewMemory() *Memory {
	return &Memory{images: make(map[int64]model.Image)}
}

// Add copies data into a new record. It fails only for empty data, in which
// case no identifier is consumed.
func (m *Memory) Add(name string, data []byte) (int64, error) {
	if len(data) == 0 {
		return 0, ErrEmptyData
	}
	img := model.Image{Name: name, Data: cloneBytes(data)}

	m.mu.Lock()
	defer m.mu.Unlock()
	img.ID = m.next
	m.next++
	m.images[img.ID] = img
	// ids are handed out in increasing order, so appending keeps m.ids sorted.
	m.ids = append(m.ids, img.ID)
	return img.ID, nil
}

// Get returns a copy of the record so callers cannot mutate stored bytes.
func (m *Memory) Get(id int64) (model.Image, bool, error) {
	m.mu.RLock()
	img, ok := m.images[id]
	m.mu.RUnlock()
	if !ok {
		return model.Image{}, false, nil
	}
	img.Data = cloneBytes(img.Data)
	return img, true, nil
}

func (m *Memory) List() ([]model.ImageSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.ImageSummary, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, m.images[id].Summary())
	}
	return out, nil
}

func (m *Memory) Delete(id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.images[id]; !ok {
		return false, nil
	}
	delete(m.images, id)
	if i, found := slices.BinarySearch(m.ids, id); found {
		m.ids = slices.Delete(m.ids, i, i+1)
	}
	return true, nil
}

func (m *Memory) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.images), nil
}

// Close is a no-op; the records go away with the process.
func (m *Memory) Close() error {
	return nil
}
