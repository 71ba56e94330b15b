package tag

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a named label. A zero ID means the tag has not been persisted yet.
type Tag struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// New returns a transient tag with a normalized name.
func New(name string) *Tag {
	return &Tag{Name: NormalizeName(name)}
}

// IsTransient reports whether the tag still has to be written to a store.
func (t *Tag) IsTransient() bool {
	return t.ID == uuid.Nil
}

// Set is an ordered collection of tag references owned by the enclosing entity.
type Set []*Tag

// Names returns tag names in set order, skipping nil entries.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, t := range s {
		if t == nil {
			continue
		}
		names = append(names, t.Name)
	}
	return names
}

// Transient returns the tags that have not been persisted yet.
func (s Set) Transient() Set {
	var out Set
	for _, t := range s {
		if t != nil && t.IsTransient() {
			out = append(out, t)
		}
	}
	return out
}

// IDs returns the identities of persisted tags in set order.
func (s Set) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for _, t := range s {
		if t != nil && !t.IsTransient() {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
