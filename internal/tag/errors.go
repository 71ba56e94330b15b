package tag

import "errors"

var (
	// ErrNotFound is returned by Lookup implementations when no tag has the given name.
	ErrNotFound = errors.New("tag not found")

	// ErrTransformationFailed matches every *TransformationError.
	ErrTransformationFailed = errors.New("tag transformation failed")

	// ErrEmptyName is returned when persisting a tag whose normalized name is empty.
	ErrEmptyName = errors.New("tag name is empty")

	ErrLookupFailed = errors.New("tag lookup failed")
	ErrStoreFailed  = errors.New("tag store operation failed")
)

// TransformationError reports a view value the codec cannot turn into a Set.
// The form layer surfaces it as a validation failure of the tags field.
type TransformationError struct {
	Reason string
}

func (e *TransformationError) Error() string {
	return "tag transformation failed: " + e.Reason
}

// Is makes errors.Is(err, ErrTransformationFailed) hold for any TransformationError.
func (e *TransformationError) Is(target error) bool {
	return target == ErrTransformationFailed
}
