package remote

import (
	"context"
	"maps"
	"reflect"
	"sort"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// MemoryStore keeps documents in process memory. Fail makes every call
// return the given error until it is cleared with Fail(nil).
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]map[string]models.Fields
	err  error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string]map[string]models.Fields{}}
}

func (m *MemoryStore) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryStore) Set(_ context.Context, collection, id string, fields models.Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	c, ok := m.docs[collection]
	if !ok {
		c = map[string]models.Fields{}
		m.docs[collection] = c
	}
	c[id] = maps.Clone(fields)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, collection, id string) (models.Fields, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	d, ok := m.docs[collection][id]
	if !ok {
		return nil, nil
	}
	return maps.Clone(d), nil
}

func (m *MemoryStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.docs[collection], id)
	return nil
}

func (m *MemoryStore) Query(_ context.Context, collection, field string, value any) ([]models.Fields, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]string, 0, len(m.docs[collection]))
	for id, d := range m.docs[collection] {
		if reflect.DeepEqual(d[field], value) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]models.Fields, 0, len(ids))
	for _, id := range ids {
		out = append(out, maps.Clone(m.docs[collection][id]))
	}
	return out, nil
}

func (m *MemoryStore) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *MemoryStore) Close() error { return nil }

// Len reports the number of documents in a collection.
func (m *MemoryStore) Len(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs[collection])
}
