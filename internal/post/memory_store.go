package post

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tagform/internal/tag"
)

// MemoryStore keeps posts in memory and writes new tags to a tag.Store.
type MemoryStore struct {
	tags tag.Store

	mu    sync.RWMutex
	posts map[uuid.UUID]*Post
}

func NewMemoryStore(tags tag.Store) *MemoryStore {
	if tags == nil {
		panic("post: nil tag store")
	}
	return &MemoryStore{
		tags:  tags,
		posts: make(map[uuid.UUID]*Post),
	}
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.clone(), nil
}

func (m *MemoryStore) List(_ context.Context) ([]*Post, error) {
	m.mu.RLock()
	posts := make([]*Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p.clone())
	}
	m.mu.RUnlock()

	slices.SortFunc(posts, func(a, b *Post) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return posts, nil
}

func (m *MemoryStore) Save(ctx context.Context, p *Post) error {
	if p == nil {
		return ErrNilPost
	}
	if !p.IsNew() {
		if _, err := m.Get(ctx, p.ID); err != nil {
			return err
		}
	}
	if err := tag.PersistTransient(ctx, m.tags, p.Tags); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if p.IsNew() {
		p.ID = uuid.New()
		p.CreatedAt = now
	} else if existing, ok := m.posts[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		return ErrNotFound
	}
	p.UpdatedAt = now
	p.Tags = compact(p.Tags)

	m.posts[p.ID] = p.clone()
	return nil
}

// compact drops nil entries and repeated identities, keeping the first.
func compact(set tag.Set) tag.Set {
	seen := make(map[uuid.UUID]struct{}, len(set))
	out := make(tag.Set, 0, len(set))
	for _, t := range set {
		if t == nil {
			continue
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
