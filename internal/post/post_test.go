package post_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tagform/internal/post"
	"github.com/dmitrymomot/tagform/pkg/validator"
)

func TestValidateTitle(t *testing.T) {
	t.Parallel()

	assert.NoError(t, post.ValidateTitle("Hello"))
	assert.NoError(t, post.ValidateTitle(strings.Repeat("ü", post.MaxTitleLength)))

	for name, title := range map[string]string{
		"blank":        "  ",
		"too long":     strings.Repeat("a", post.MaxTitleLength+1),
		"invalid utf8": "\xffHello",
	} {
		t.Run(name, func(t *testing.T) {
			err := post.ValidateTitle(title)
			assert.ErrorIs(t, err, validator.ErrValidationFailed)
			assert.True(t, validator.ExtractValidationErrors(err).Has("title"))
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	p := post.New("  Hello  ", nil)
	assert.Equal(t, "Hello", p.Title)
	assert.True(t, p.IsNew())
}
