package post

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tagform/internal/tag"
	"github.com/dmitrymomot/tagform/pkg/pg"
)

const (
	getPostQuery   = `SELECT id, title, created_at, updated_at FROM posts WHERE id = $1`
	listPostsQuery = `SELECT id, title, created_at, updated_at FROM posts ORDER BY created_at DESC`

	insertPostQuery = `INSERT INTO posts (id, title, created_at, updated_at) VALUES ($1, $2, $3, $3)
RETURNING created_at, updated_at`

	updatePostQuery = `UPDATE posts SET title = $2, updated_at = $3 WHERE id = $1
RETURNING created_at, updated_at`

	postTagsQuery = `SELECT pt.post_id, t.id, t.name, t.created_at
FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
WHERE pt.post_id = ANY($1)
ORDER BY pt.post_id, pt.position`

	deletePostTagsQuery = `DELETE FROM post_tags WHERE post_id = $1`

	insertPostTagQuery = `INSERT INTO post_tags (post_id, tag_id, position) VALUES ($1, $2, $3)
ON CONFLICT (post_id, tag_id) DO NOTHING`
)

// PostgresStore keeps posts in the posts and post_tags tables. Save runs in a
// single transaction that also creates the post's new tags.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	var p Post
	err := s.pool.QueryRow(ctx, getPostQuery, id).Scan(&p.ID, &p.Title, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrStoreFailed, err)
	}

	if err := s.loadTags(ctx, []*Post{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Post, error) {
	rows, err := s.pool.Query(ctx, listPostsQuery)
	if err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}
	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Post, error) {
		var p Post
		err := row.Scan(&p.ID, &p.Title, &p.CreatedAt, &p.UpdatedAt)
		return &p, err
	})
	if err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}

	if err := s.loadTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// loadTags fills the tag sets of posts with one query.
func (s *PostgresStore) loadTags(ctx context.Context, posts []*Post) error {
	if len(posts) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*Post, len(posts))
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := s.pool.Query(ctx, postTagsQuery, ids)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID uuid.UUID
			t      tag.Tag
		)
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.CreatedAt); err != nil {
			return errors.Join(ErrStoreFailed, err)
		}
		if p, ok := byID[postID]; ok {
			p.Tags = append(p.Tags, &t)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, p *Post) error {
	if p == nil {
		return ErrNilPost
	}

	// Work on a copy so a rolled back transaction leaves p untouched.
	saved := p.clone()
	err := pg.WithTx(ctx, s.pool, func(ctx context.Context, tx pg.Tx) error {
		if err := tag.PersistTransient(ctx, tag.NewPostgresStore(tx), transientCopies(saved)); err != nil {
			return err
		}
		if err := upsertPost(ctx, tx, saved); err != nil {
			return err
		}
		return replaceTags(ctx, tx, saved)
	})
	if err != nil {
		return err
	}

	applyTagIDs(p.Tags, saved.Tags)
	p.ID, p.CreatedAt, p.UpdatedAt = saved.ID, saved.CreatedAt, saved.UpdatedAt
	p.Tags = compact(p.Tags)
	return nil
}

// transientCopies swaps every transient tag of p for a copy and returns the copies.
func transientCopies(p *Post) tag.Set {
	var out tag.Set
	for i, t := range p.Tags {
		if t != nil && t.IsTransient() {
			c := *t
			p.Tags[i] = &c
			out = append(out, &c)
		}
	}
	return out
}

// applyTagIDs copies identities assigned in the transaction back to the caller's tags.
func applyTagIDs(dst, src tag.Set) {
	for i, t := range dst {
		if t != nil && t.IsTransient() && src[i] != nil {
			t.ID, t.Name, t.CreatedAt = src[i].ID, src[i].Name, src[i].CreatedAt
		}
	}
}

func upsertPost(ctx context.Context, tx pg.Tx, p *Post) error {
	now := time.Now().UTC()
	if p.IsNew() {
		p.ID = uuid.New()
		err := tx.QueryRow(ctx, insertPostQuery, p.ID, p.Title, now).Scan(&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return errors.Join(ErrStoreFailed, err)
		}
		return nil
	}

	err := tx.QueryRow(ctx, updatePostQuery, p.ID, p.Title, now).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return ErrNotFound
		}
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

func replaceTags(ctx context.Context, tx pg.Tx, p *Post) error {
	if _, err := tx.Exec(ctx, deletePostTagsQuery, p.ID); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}

	batch := &pgx.Batch{}
	for i, id := range p.Tags.IDs() {
		batch.Queue(insertPostTagQuery, p.ID, id, i)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}
