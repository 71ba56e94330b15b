package validator_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tagform/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("title", "Hello"),
			validator.MaxLen("title", "Hello", 5),
			validator.Valid("tags", true),
		)
		assert.NoError(t, err)
	})

	t.Run("collects failures per field", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("title", "   "),
			validator.MaxLen("title", "   ", 2),
			validator.Valid("tags", false),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, validator.ErrValidationFailed)

		ve := validator.ExtractValidationErrors(err)
		require.Len(t, ve, 2)
		assert.Equal(t, []string{"This value should not be blank."}, ve.Get("title"))
		assert.Equal(t, "validation.invalid", ve[1].Key)
		assert.True(t, ve.Has("tags"))
		assert.False(t, ve.Has("body"))
		assert.Equal(t, "validation failed: title: This value should not be blank.; tags: This value is not valid.", err.Error())
	})

	t.Run("wrapped errors are found", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("save: %w", validator.Apply(validator.Required("title", "")))
		assert.Len(t, validator.ExtractValidationErrors(err), 1)
		assert.Nil(t, validator.ExtractValidationErrors(nil))
	})
}

func TestMaxLen(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(validator.MaxLen("t", strings.Repeat("é", 3), 3)), "counts characters, not bytes")

	err := validator.Apply(validator.MaxLen("t", "abcd", 3))
	ve := validator.ExtractValidationErrors(err)
	require.Len(t, ve, 1)
	assert.Equal(t, "This value is too long. It should have 3 characters or less.", ve[0].Message)
	assert.Equal(t, "validation.max_length", ve[0].Key)
}

func TestValidationErrors_Empty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "validation failed", validator.ValidationErrors{}.Error())
}
