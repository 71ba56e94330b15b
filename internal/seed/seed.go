// Package seed loads tag and post fixtures from YAML.
//
//	tags:
//	  - go
//	  - postgres
//	posts:
//	  - title: Hello
//	    tags: go, web
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/tagform/internal/post"
	"github.com/dmitrymomot/tagform/internal/tag"
	"github.com/dmitrymomot/tagform/pkg/logger"
)

var (
	ErrInvalidFixtures = errors.New("invalid fixtures")
	ErrApplyFailed     = errors.New("failed to apply fixtures")
)

type Fixtures struct {
	Tags  []string      `yaml:"tags"`
	Posts []PostFixture `yaml:"posts"`
}

// PostFixture describes a post. Tags uses the same comma-separated form as
// the post edit form.
type PostFixture struct {
	Title string `yaml:"title"`
	Tags  string `yaml:"tags"`
}

// Result counts what Apply wrote.
type Result struct {
	Tags  int
	Posts int
}

// Decode reads fixtures from r.
func Decode(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return &fx, nil
		}
		return nil, errors.Join(ErrInvalidFixtures, err)
	}
	for i, raw := range fx.Tags {
		if _, err := tagName(raw); err != nil {
			return nil, fmt.Errorf("%w: tag %d: %w", ErrInvalidFixtures, i, err)
		}
	}
	for i, p := range fx.Posts {
		if err := post.ValidateTitle(strings.TrimSpace(p.Title)); err != nil {
			return nil, fmt.Errorf("%w: post %d: %w", ErrInvalidFixtures, i, err)
		}
	}
	return &fx, nil
}

// LoadFile reads fixtures from a YAML file.
func LoadFile(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidFixtures, err)
	}
	defer f.Close()
	return Decode(f)
}

// tagName normalizes a single fixture tag. Each entry is one tag, so a
// separator inside it is an error rather than a list.
func tagName(raw string) (string, error) {
	name := tag.NormalizeName(raw)
	switch {
	case name == "":
		return "", tag.ErrEmptyName
	case strings.Contains(name, ","):
		return "", fmt.Errorf("tag %q contains a comma", name)
	}
	return name, nil
}

// Seeder writes fixtures to the tag and post stores.
type Seeder struct {
	tags  tag.Store
	posts post.Store
	codec *tag.Codec
	log   *slog.Logger
}

func New(tags tag.Store, posts post.Store, log *slog.Logger) *Seeder {
	if log == nil {
		log = logger.Discard()
	}
	return &Seeder{
		tags:  tags,
		posts: posts,
		codec: tag.NewCodec(tags),
		log:   log.With(logger.Component("seed")),
	}
}

// Apply creates the listed tags, then every post with its tags decoded by
// the codec. Existing tags are reused; posts are always created.
func (s *Seeder) Apply(ctx context.Context, fx *Fixtures) (Result, error) {
	var res Result
	if fx == nil {
		return res, nil
	}

	for i, raw := range fx.Tags {
		name, err := tagName(raw)
		if err != nil {
			return res, fmt.Errorf("%w: tag %d: %w", ErrInvalidFixtures, i, err)
		}
		if _, err := s.tags.FindByName(ctx, name); err == nil {
			continue
		} else if !errors.Is(err, tag.ErrNotFound) {
			return res, errors.Join(ErrApplyFailed, err)
		}
		if err := s.tags.Create(ctx, tag.New(name)); err != nil {
			return res, errors.Join(ErrApplyFailed, err)
		}
		res.Tags++
	}

	for _, pf := range fx.Posts {
		set, err := s.codec.Decode(ctx, pf.Tags)
		if err != nil {
			return res, errors.Join(ErrApplyFailed, err)
		}
		res.Tags += len(set.Transient())

		p := post.New(pf.Title, set)
		if err := s.posts.Save(ctx, p); err != nil {
			return res, errors.Join(ErrApplyFailed, err)
		}
		res.Posts++
		s.log.DebugContext(ctx, "post seeded",
			slog.String("post_id", p.ID.String()),
			logger.Tags(p.Tags.Names()),
		)
	}

	s.log.InfoContext(ctx, "fixtures applied",
		slog.Int("tags", res.Tags),
		slog.Int("posts", res.Posts),
	)
	return res, nil
}
