package tag

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps tags in memory. It hands out the same *Tag for a name on
// every lookup, so decoded sets reference stored tags by pointer.
type MemoryStore struct {
	mu     sync.RWMutex
	byName map[string]*Tag
}

// NewMemoryStore creates an empty in-memory tag store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byName: make(map[string]*Tag)}
}

// FindByName returns the stored tag or ErrNotFound.
func (m *MemoryStore) FindByName(_ context.Context, name string) (*Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.byName[NormalizeName(name)]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

// Create stores t. If the name is already taken, t adopts the stored identity.
func (m *MemoryStore) Create(_ context.Context, t *Tag) error {
	if t == nil {
		return ErrEmptyName
	}
	t.Name = NormalizeName(t.Name)
	if t.Name == "" {
		return ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.byName[t.Name]; ok {
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
		return nil
	}

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	m.byName[t.Name] = t
	return nil
}

// List returns all tags ordered by name.
func (m *MemoryStore) List(_ context.Context) (Set, error) {
	m.mu.RLock()
	set := make(Set, 0, len(m.byName))
	for _, t := range m.byName {
		set = append(set, t)
	}
	m.mu.RUnlock()

	slices.SortFunc(set, func(a, b *Tag) int { return strings.Compare(a.Name, b.Name) })
	return set, nil
}
