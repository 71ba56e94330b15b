package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tagform/handler"
	"github.com/dmitrymomot/tagform/pkg/binder"
)

type mockResponse struct {
	statusCode int
	body       string
	renderErr  error
}

func (m mockResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if m.renderErr != nil {
		return m.renderErr
	}
	w.WriteHeader(m.statusCode)
	_, _ = w.Write([]byte(m.body))
	return nil
}

type saveRequest struct {
	ID    string  `path:"id"`
	Title string  `form:"title"`
	Tags  *string `form:"tags"`
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("basic handler without options", func(t *testing.T) {
		t.Parallel()
		h := handler.HandlerFunc[handler.Context, string](func(ctx handler.Context, req string) handler.Response {
			assert.NotNil(t, ctx)
			assert.Empty(t, req)
			return mockResponse{statusCode: http.StatusOK, body: "success"}
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "success", rec.Body.String())
	})

	t.Run("render error", func(t *testing.T) {
		t.Parallel()
		h := handler.HandlerFunc[handler.Context, string](func(handler.Context, string) handler.Response {
			return mockResponse{renderErr: errors.New("render failed")}
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "render failed")
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		h := handler.HandlerFunc[handler.Context, string](func(handler.Context, string) handler.Response {
			return nil
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "handler returned nil response")
	})

	t.Run("error response with HTTPError", func(t *testing.T) {
		t.Parallel()
		h := handler.HandlerFunc[handler.Context, string](func(handler.Context, string) handler.Response {
			return handler.Error(handler.ErrNotFound)
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "not_found")
	})

	t.Run("error response with ValidationError", func(t *testing.T) {
		t.Parallel()
		h := handler.HandlerFunc[handler.Context, string](func(handler.Context, string) handler.Response {
			return handler.Error(handler.ValidationError{"tags": {"is required"}})
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "tags: is required")
	})
}

func TestWrap_Binders(t *testing.T) {
	t.Parallel()

	pathID := func(_ *http.Request, name string) string {
		if name == "id" {
			return "7"
		}
		return ""
	}

	var got saveRequest
	h := handler.HandlerFunc[handler.Context, saveRequest](func(_ handler.Context, req saveRequest) handler.Response {
		got = req
		return mockResponse{statusCode: http.StatusNoContent}
	})
	wrapped := handler.Wrap(h,
		handler.WithBinders[handler.Context, saveRequest](binder.Path(pathID), binder.Form()),
	)

	t.Run("form body", func(t *testing.T) {
		form := url.Values{"title": {"Hello"}, "tags": {"red, blue"}}
		req := httptest.NewRequest(http.MethodPost, "/posts/7", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		wrapped(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "7", got.ID)
		assert.Equal(t, "Hello", got.Title)
		require.NotNil(t, got.Tags)
		assert.Equal(t, "red, blue", *got.Tags)
	})

	t.Run("form binder skipped on GET", func(t *testing.T) {
		rec := httptest.NewRecorder()
		wrapped(rec, httptest.NewRequest(http.MethodGet, "/posts/7", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "7", got.ID)
		assert.Nil(t, got.Tags)
	})

	t.Run("bind failure is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/posts/7", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		wrapped(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "bad_request")
	})
}

func TestWrap_Options(t *testing.T) {
	t.Parallel()

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()
		var handled error
		h := handler.HandlerFunc[handler.Context, string](func(handler.Context, string) handler.Response {
			return handler.Error(handler.ErrForbidden)
		})
		wrapped := handler.Wrap(h, handler.WithErrorHandler[handler.Context, string](func(ctx handler.Context, err error) {
			handled = err
			ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		wrapped(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.ErrorIs(t, handled, handler.ErrForbidden)
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()
		var order []string
		decorator := func(name string) handler.Decorator[handler.Context, string] {
			return func(next handler.HandlerFunc[handler.Context, string]) handler.HandlerFunc[handler.Context, string] {
				return func(ctx handler.Context, req string) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}
		h := handler.HandlerFunc[handler.Context, string](func(handler.Context, string) handler.Response {
			order = append(order, "handler")
			return mockResponse{statusCode: http.StatusOK}
		})

		wrapped := handler.Wrap(h, handler.WithDecorators(decorator("first"), decorator("second")))
		wrapped(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, []string{"first", "second", "handler"}, order)
	})

	t.Run("decorator can short-circuit", func(t *testing.T) {
		t.Parallel()
		var guard handler.Decorator[handler.Context, string] = func(next handler.HandlerFunc[handler.Context, string]) handler.HandlerFunc[handler.Context, string] {
			return func(handler.Context, string) handler.Response {
				return handler.Redirect("/login-admin")
			}
		}
		h := handler.HandlerFunc[handler.Context, string](func(handler.Context, string) handler.Response {
			t.Fatal("handler must not run")
			return nil
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h, handler.WithDecorators(guard))(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login-admin", rec.Header().Get("Location"))
	})
}

type adminContext interface {
	handler.Context
	AdminName() string
}

func TestWrap_ContextType(t *testing.T) {
	t.Parallel()

	h := handler.HandlerFunc[adminContext, string](func(adminContext, string) handler.Response {
		t.Fatal("handler must not run")
		return nil
	})
	wrapped := handler.Wrap(h)

	assert.Panics(t, func() {
		wrapped(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
