package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tagform/handler"
	"github.com/dmitrymomot/tagform/pkg/binder"
	"github.com/dmitrymomot/tagform/pkg/clientip"
	"github.com/dmitrymomot/tagform/pkg/httpserver"
	"github.com/dmitrymomot/tagform/pkg/requestid"
)

// Handle returns the application router.
func (a *App) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.Middleware(a.ipHeaders...), a.accessLog)

	r.Get("/", handler.Wrap(a.index,
		handler.WithErrorHandler[handler.Context, struct{}](a.errorHandler),
	))

	home := handler.Wrap(a.home,
		handler.WithBinders[handler.Context, homeRequest](
			binder.Path(chi.URLParam),
			binder.Query(),
		),
		handler.WithErrorHandler[handler.Context, homeRequest](a.errorHandler),
	)
	r.Get("/home", home)
	r.Get("/home/{name}", home)

	r.Get(`/add/{n1:\d+}/{n2:\d+}`, handler.Wrap(a.add,
		handler.WithBinders[handler.Context, addRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, addRequest](a.errorHandler),
	))

	r.Get(loginPath, handler.Wrap(a.loginForm,
		handler.WithErrorHandler[handler.Context, struct{}](a.errorHandler),
	))
	r.Post(loginPath, handler.Wrap(a.login,
		handler.WithBinders[handler.Context, loginRequest](binder.Form()),
		handler.WithErrorHandler[handler.Context, loginRequest](a.errorHandler),
	))
	r.Post("/logout-admin", handler.Wrap(a.logout,
		handler.WithErrorHandler[handler.Context, struct{}](a.errorHandler),
	))

	r.Route(postsPath, func(r chi.Router) {
		r.Get("/", handler.Wrap(a.listPosts,
			handler.WithErrorHandler[handler.Context, struct{}](a.errorHandler),
		))

		r.Group(func(r chi.Router) {
			r.Get("/new", handler.Wrap(a.newPost,
				handler.WithErrorHandler[handler.Context, struct{}](a.errorHandler),
				handler.WithDecorators(requireAdmin[struct{}](a.cookies)),
			))
			r.Get("/{id}/edit", handler.Wrap(a.editPost,
				handler.WithBinders[handler.Context, postIDRequest](binder.Path(chi.URLParam)),
				handler.WithErrorHandler[handler.Context, postIDRequest](a.errorHandler),
				handler.WithDecorators(requireAdmin[postIDRequest](a.cookies)),
			))

			save := handler.Wrap(a.savePost,
				handler.WithBinders[handler.Context, savePostRequest](
					binder.Path(chi.URLParam),
					binder.Form(),
				),
				handler.WithErrorHandler[handler.Context, savePostRequest](a.errorHandler),
				handler.WithDecorators(requireAdmin[savePostRequest](a.cookies)),
			)
			r.Post("/", save)
			r.Post("/{id}", save)
		})
	})

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(a.log, a.checks...))

	r.NotFound(handler.Wrap(a.notFound,
		handler.WithErrorHandler[handler.Context, struct{}](a.errorHandler),
	))

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// accessLog records one line per request after it completes.
func (a *App) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		a.log.LogAttrs(r.Context(), slog.LevelDebug, "request handled",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
