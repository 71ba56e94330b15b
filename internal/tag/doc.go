// Package tag models named labels and converts tag collections to and from the
// comma-separated text used by edit forms.
//
// The Codec is the form-facing half: Encode renders a Set as "red, blue" and
// Decode turns edited text back into a Set. Decoding resolves every name through
// a Lookup; names the store already knows come back as the stored *Tag, unknown
// names become transient tags (zero ID) that the caller persists later together
// with the entity that owns them. The codec never writes to storage.
//
// # Name Normalization
//
// Tag names are trimmed, inner whitespace runs are collapsed to a single space
// and the result is NFC-normalized. Comparison is case-sensitive: "Go" and "go"
// are different tags. Stores apply the same normalization on write so lookups
// and persisted names always agree.
//
// # Usage
//
//	store := tag.NewMemoryStore()
//	codec := tag.NewCodec(store)
//
//	text := codec.Encode(post.Tags) // "red, blue"
//
//	tags, err := codec.DecodeValue(ctx, form.Tags)
//	if err != nil {
//	    // errors.Is(err, tag.ErrTransformationFailed) for null or non-string input
//	}
//
// # Storage
//
// MemoryStore keeps tags in a map and is used in tests and when no database is
// configured. PostgresStore persists tags with pgx. CachedLookup puts a Redis
// read-through cache in front of any Lookup.
package tag
