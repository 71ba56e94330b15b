package tag

import (
	"context"
	"errors"
	"fmt"
)

// Lookup resolves a tag by its exact normalized name.
// Implementations return ErrNotFound when the name is unknown.
type Lookup interface {
	FindByName(ctx context.Context, name string) (*Tag, error)
}

// Codec converts between a Set and its comma-separated text form.
// It holds no state besides the lookup and is safe for concurrent use.
type Codec struct {
	lookup Lookup
}

// NewCodec creates a codec that resolves names through lookup.
func NewCodec(lookup Lookup) *Codec {
	if lookup == nil {
		panic("tag.NewCodec: nil lookup")
	}
	return &Codec{lookup: lookup}
}

// Encode renders the set as names joined by ", " in set order.
// A nil or empty set yields an empty string.
func (c *Codec) Encode(set Set) string {
	if len(set) == 0 {
		return ""
	}
	return JoinNames(set.Names())
}

// Decode parses text into a Set. Names found by the lookup are returned as the
// stored tags; unknown names become transient tags. Empty text yields an empty
// Set. Lookup errors other than ErrNotFound abort decoding.
func (c *Codec) Decode(ctx context.Context, text string) (Set, error) {
	names := SplitNames(text)
	set := make(Set, 0, len(names))

	for _, name := range names {
		t, err := c.lookup.FindByName(ctx, name)
		switch {
		case err == nil && t != nil:
			set = append(set, t)
		case err == nil, errors.Is(err, ErrNotFound):
			set = append(set, &Tag{Name: name})
		default:
			return nil, fmt.Errorf("%w: %q: %w", ErrLookupFailed, name, err)
		}
	}

	return set, nil
}

// DecodeValue is the form-binding entry point. It accepts the raw submitted
// value: a string or *string is decoded, nil is rejected because the form
// layer uses an empty string, not null, for "no tags".
func (c *Codec) DecodeValue(ctx context.Context, v any) (Set, error) {
	switch val := v.(type) {
	case nil:
		return nil, &TransformationError{Reason: "unexpected null view value"}
	case *string:
		if val == nil {
			return nil, &TransformationError{Reason: "unexpected null view value"}
		}
		return c.Decode(ctx, *val)
	case string:
		return c.Decode(ctx, val)
	default:
		return nil, &TransformationError{Reason: fmt.Sprintf("expected a string, got %T", v)}
	}
}
