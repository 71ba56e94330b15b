package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tagform/handler"
	"github.com/dmitrymomot/tagform/internal/post"
	"github.com/dmitrymomot/tagform/internal/tag"
	"github.com/dmitrymomot/tagform/pkg/logger"
	"github.com/dmitrymomot/tagform/pkg/validator"
)

const postsPath = "/posts"

type postIDRequest struct {
	ID string `path:"id"`
}

type savePostRequest struct {
	ID    string  `path:"id"`
	Title string  `form:"title"`
	Tags  *string `form:"tags"`
}

func (a *App) listPosts(ctx handler.Context, _ struct{}) handler.Response {
	posts, err := a.posts.List(ctx)
	if err != nil {
		return handler.Error(err)
	}

	rows := make([]postRow, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, postRow{Post: p, Tags: a.codec.Encode(p.Tags)})
	}
	return handler.Templ(postListPage(rows))
}

func (a *App) newPost(_ handler.Context, _ struct{}) handler.Response {
	return handler.Templ(postFormPage(postFormView{Action: postsPath}))
}

func (a *App) editPost(ctx handler.Context, req postIDRequest) handler.Response {
	p, err := a.findPost(ctx, req.ID)
	if err != nil {
		return handler.Error(err)
	}

	return handler.Templ(postFormPage(postFormView{
		Action: postsPath + "/" + p.ID.String(),
		Title:  p.Title,
		Tags:   a.codec.Encode(p.Tags),
	}))
}

// savePost creates a post when the route has no id and updates it otherwise.
// Unknown tag names become new tags when the post is stored.
func (a *App) savePost(ctx handler.Context, req savePostRequest) handler.Response {
	p := post.New("", nil)
	action := postsPath
	if req.ID != "" {
		existing, err := a.findPost(ctx, req.ID)
		if err != nil {
			return handler.Error(err)
		}
		p = existing
		action = postsPath + "/" + p.ID.String()
	}

	title := strings.TrimSpace(req.Title)
	tags, err := a.codec.DecodeValue(ctx, req.Tags)
	if err != nil && !errors.Is(err, tag.ErrTransformationFailed) {
		return handler.Error(err)
	}
	tagsOK := err == nil && req.Tags != nil && utf8.ValidString(*req.Tags)

	verr := handler.NewValidationError()
	err = validator.Apply(
		validator.Required("title", title),
		validator.Valid("title", utf8.ValidString(title)),
		validator.MaxLen("title", title, post.MaxTitleLength),
		validator.Valid("tags", tagsOK),
	)
	for _, fe := range validator.ExtractValidationErrors(err) {
		verr.Add(fe.Field, fe.Message)
	}

	if !verr.IsEmpty() {
		a.log.DebugContext(ctx, "post form rejected", logger.Error(verr))
		view := postFormView{Action: action, Title: req.Title, Errors: verr}
		if req.Tags != nil {
			view.Tags = *req.Tags
		}
		return handler.TemplPartialStatus(http.StatusBadRequest,
			postForm(view),
			postFormPage(view),
			handler.WithTarget("#post-form"),
		)
	}

	p.Title = title
	p.Tags = tags
	if err := a.posts.Save(ctx, p); err != nil {
		return handler.Error(err)
	}

	a.log.InfoContext(ctx, "post saved",
		slog.String("post_id", p.ID.String()),
		logger.Tags(p.Tags.Names()),
	)
	return handler.Redirect(postsPath)
}

func (a *App) findPost(ctx handler.Context, rawID string) (*post.Post, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, handler.ErrNotFound
	}
	p, err := a.posts.Get(ctx, id)
	if errors.Is(err, post.ErrNotFound) {
		return nil, handler.ErrNotFound
	}
	return p, err
}
