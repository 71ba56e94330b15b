package post

import (
	"context"

	"github.com/google/uuid"
)

// Store persists posts together with their tag links.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	// List returns posts, most recently created first.
	List(ctx context.Context) ([]*Post, error)
	// Save persists the transient tags of p, then inserts or updates p and
	// replaces its tag links. A new post gets its ID and timestamps here.
	Save(ctx context.Context, p *Post) error
}
