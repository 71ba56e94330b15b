package tag_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tagform/internal/tag"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "   ", want: ""},
		{in: " red ", want: "red"},
		{in: "dark \t  red", want: "dark red"},
		{in: "Red", want: "Red"},
		{in: "\xff\xfered", want: "red"},
		{in: "\xff\xfe", want: ""},
		{in: "café", want: "café"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tag.NormalizeName(tt.in))
		})
	}
}

func TestSplitNames(t *testing.T) {
	t.Parallel()

	assert.Empty(t, tag.SplitNames(""))
	assert.Empty(t, tag.SplitNames(" , ,"))
	assert.Equal(t, []string{"red", "blue"}, tag.SplitNames("red, blue, red"))
	assert.Equal(t, []string{"x"}, tag.SplitNames("\xff\xfe, x"))
	assert.Equal(t, []string{"café"}, tag.SplitNames("café, café"))
}

func TestSet(t *testing.T) {
	t.Parallel()

	persisted := tag.New("red")
	persisted.ID = uuid.New()
	transient := tag.New("blue")
	set := tag.Set{persisted, nil, transient}

	assert.Equal(t, []string{"red", "blue"}, set.Names())
	assert.Equal(t, tag.Set{transient}, set.Transient())
	assert.Len(t, set.IDs(), 1)
	assert.Equal(t, persisted.ID, set.IDs()[0])
}
