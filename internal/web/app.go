// Package web serves the tagform pages: greeting, addition, admin login and
// the post editor built on tag.Codec.
package web

import (
	"log/slog"

	"github.com/dmitrymomot/tagform/handler"
	"github.com/dmitrymomot/tagform/internal/greeting"
	"github.com/dmitrymomot/tagform/internal/post"
	"github.com/dmitrymomot/tagform/internal/tag"
	"github.com/dmitrymomot/tagform/pkg/cookie"
	"github.com/dmitrymomot/tagform/pkg/httpserver"
	"github.com/dmitrymomot/tagform/pkg/logger"
	"github.com/dmitrymomot/tagform/pkg/ratelimiter"
)

// App holds the dependencies of every page handler.
type App struct {
	cfg          Config
	log          *slog.Logger
	greeter      *greeting.Service
	codec        *tag.Codec
	posts        post.Store
	cookies      *cookie.Manager
	checks       []httpserver.Check
	ipHeaders    []string
	throttle     loginThrottle
	errorHandler handler.ErrorHandler[handler.Context]
}

// Deps are the collaborators App needs. Tags is the lookup used by the post
// form; it may be a cache in front of the store Posts writes to.
type Deps struct {
	Log     *slog.Logger
	Greeter *greeting.Service
	Tags    tag.Lookup
	Posts   post.Store
	Cookies *cookie.Manager
	// Checks back the readiness probe.
	Checks []httpserver.Check
	// ClientIPHeaders are the proxy headers trusted for the client address.
	ClientIPHeaders []string
	// LoginLimiter throttles failed admin logins per client IP. Nil disables it.
	LoginLimiter *ratelimiter.Bucket
}

func New(cfg Config, deps Deps) *App {
	log := deps.Log
	if log == nil {
		log = logger.Discard()
	}
	greeter := deps.Greeter
	if greeter == nil {
		greeter = greeting.New(log, cfg.GreetingFrom)
	}

	log = log.With(logger.Component("web"))

	return &App{
		cfg:       cfg,
		log:       log,
		greeter:   greeter,
		codec:     tag.NewCodec(deps.Tags),
		posts:     deps.Posts,
		cookies:   deps.Cookies,
		checks:    deps.Checks,
		ipHeaders: deps.ClientIPHeaders,
		throttle:  loginThrottle{limiter: deps.LoginLimiter, log: log},
		errorHandler: handler.NewErrorHandler(log, handler.ErrorHandlerConfig{
			ErrorPage:  errorPage,
			ErrorToast: errorToast,
		}),
	}
}
