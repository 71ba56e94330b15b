package web

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.924 generate -f views.templ

import (
	"github.com/dmitrymomot/tagform/handler"
	"github.com/dmitrymomot/tagform/internal/post"
)

type homeView struct {
	Name     string
	Age      string
	Fruits   []string
	Greeting string
}

type loginView struct {
	LastUsername string
	Error        string
	LoggedInAs   string
}

type postRow struct {
	Post *post.Post
	Tags string
}

type postFormView struct {
	Action string
	Title  string
	Tags   string
	Errors handler.ValidationError
}
