package tag

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/tagform/pkg/pg"
)

// DB is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	findTagByNameQuery = `SELECT id, name, created_at FROM tags WHERE name = $1`
	listTagsQuery      = `SELECT id, name, created_at FROM tags ORDER BY name`
	// Touching name on conflict makes RETURNING yield the existing row.
	createTagQuery = `INSERT INTO tags (id, name, created_at) VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id, created_at`
)

// PostgresStore persists tags in the tags table.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a store on top of a pool or a transaction.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*Tag, error) {
	var t Tag
	err := s.db.QueryRow(ctx, findTagByNameQuery, NormalizeName(name)).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrStoreFailed, err)
	}
	return &t, nil
}

func (s *PostgresStore) Create(ctx context.Context, t *Tag) error {
	if t == nil {
		return ErrEmptyName
	}
	t.Name = NormalizeName(t.Name)
	if t.Name == "" {
		return ErrEmptyName
	}

	id := t.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	err := s.db.QueryRow(ctx, createTagQuery, id, t.Name, time.Now().UTC()).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) (Set, error) {
	rows, err := s.db.Query(ctx, listTagsQuery)
	if err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}

	set, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Tag, error) {
		var t Tag
		err := row.Scan(&t.ID, &t.Name, &t.CreatedAt)
		return &t, err
	})
	if err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}
	return set, nil
}
