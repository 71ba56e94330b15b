// Package post stores posts and the tag sets they own.
//
// A post's tags are resolved by tag.Codec when a form is submitted. Tags the
// codec could not find are transient; Store.Save writes them through a
// tag.Store before linking them to the post.
package post

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tagform/internal/tag"
	"github.com/dmitrymomot/tagform/pkg/validator"
)

// MaxTitleLength is the longest title a post can have, in characters.
const MaxTitleLength = 200

type Post struct {
	ID        uuid.UUID
	Title     string
	Tags      tag.Set
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New returns an unsaved post.
func New(title string, tags tag.Set) *Post {
	return &Post{Title: strings.TrimSpace(title), Tags: tags}
}

// ValidateTitle checks a trimmed title. Failures are validator.ValidationErrors
// on the "title" field.
func ValidateTitle(title string) error {
	return validator.Apply(
		validator.Required("title", title),
		validator.Valid("title", utf8.ValidString(title)),
		validator.MaxLen("title", title, MaxTitleLength),
	)
}

func (p *Post) IsNew() bool {
	return p.ID == uuid.Nil
}

// clone copies p with its own tag slice. Tag pointers are shared.
func (p *Post) clone() *Post {
	c := *p
	c.Tags = append(tag.Set(nil), p.Tags...)
	return &c
}
