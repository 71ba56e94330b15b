package tag

import "context"

// Store persists tags. Create assigns an ID to a transient tag; when another
// tag with the same name already exists, the tag adopts that identity instead
// of creating a duplicate.
type Store interface {
	Lookup
	Create(ctx context.Context, t *Tag) error
	List(ctx context.Context) (Set, error)
}

// PersistTransient writes every transient tag of the set through the store.
// Persisted tags are left untouched.
func PersistTransient(ctx context.Context, store Store, set Set) error {
	for _, t := range set.Transient() {
		if err := store.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
