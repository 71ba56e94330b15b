package web_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/tagform/internal/post"
	"github.com/dmitrymomot/tagform/internal/tag"
	"github.com/dmitrymomot/tagform/internal/web"
	"github.com/dmitrymomot/tagform/pkg/clientip"
	"github.com/dmitrymomot/tagform/pkg/cookie"
	"github.com/dmitrymomot/tagform/pkg/httpserver"
	"github.com/dmitrymomot/tagform/pkg/logger"
	"github.com/dmitrymomot/tagform/pkg/ratelimiter"
	"github.com/dmitrymomot/tagform/pkg/requestid"
)

const adminPassword = "s3cret-pass"

type testApp struct {
	handler http.Handler
	tags    *tag.MemoryStore
	posts   *post.MemoryStore
	logs    *bytes.Buffer
}

func newTestApp(t *testing.T, opts ...func(*web.Deps)) *testApp {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cookies, err := cookie.New([]string{"0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)

	var logs bytes.Buffer
	tags := tag.NewMemoryStore()
	posts := post.NewMemoryStore(tags)

	deps := web.Deps{
		Log: logger.New(
			logger.WithOutput(&logs),
			logger.WithLevel(slog.LevelDebug),
			logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
		),
		Tags:            tags,
		Posts:           posts,
		Cookies:         cookies,
		ClientIPHeaders: []string{"X-Real-IP"},
	}
	for _, opt := range opts {
		opt(&deps)
	}

	app := web.New(web.Config{
		GreetingFrom:      "tagform",
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
	}, deps)

	return &testApp{handler: app.Handle(), tags: tags, posts: posts, logs: &logs}
}

func withChecks(checks ...httpserver.Check) func(*web.Deps) {
	return func(d *web.Deps) { d.Checks = checks }
}

func withLoginLimiter(t *testing.T, capacity int) func(*web.Deps) {
	t.Helper()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
		Capacity:       capacity,
		RefillRate:     1,
		RefillInterval: 5 * time.Minute,
	})
	require.NoError(t, err)
	return func(d *web.Deps) { d.LoginLimiter = limiter }
}

func (a *testApp) do(t *testing.T, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) loginAsAdmin(t *testing.T) []*http.Cookie {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/login-admin", url.Values{"_username": {"admin"}, "_password": {adminPassword}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	return rec.Result().Cookies()
}

func TestHome(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		rec := app.do(t, http.MethodGet, "/home", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Hello toto</h1>")
		assert.Contains(t, body, "Age: 10")
		assert.Contains(t, body, "Hello toto from tagform")
		for _, fruit := range []string{"pommes", "poires", "oranges", "grenades"} {
			assert.Contains(t, body, "<li>"+fruit+"</li>")
		}
		assert.Contains(t, app.logs.String(), "toto greeted by tagform")
	})

	t.Run("name and age", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		rec := app.do(t, http.MethodGet, "/home/alice?age=33", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Hello alice</h1>")
		assert.Contains(t, rec.Body.String(), "Age: 33")
		assert.Contains(t, app.logs.String(), "alice greeted by tagform")
	})

	t.Run("name is escaped", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		rec := app.do(t, http.MethodGet, "/home/"+url.PathEscape("<b>"), nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "&lt;b&gt;")
		assert.NotContains(t, rec.Body.String(), "Hello <b>")
	})
}

func TestAdd(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	tests := []struct {
		name     string
		target   string
		status   int
		contains string
	}{
		{name: "sum", target: "/add/2/3", status: http.StatusOK, contains: "2 + 3 = 5"},
		{name: "zeros", target: "/add/0/0", status: http.StatusOK, contains: "0 + 0 = 0"},
		{name: "non numeric", target: "/add/a/3", status: http.StatusNotFound, contains: "not_found"},
		{name: "negative", target: "/add/-1/3", status: http.StatusNotFound},
		{name: "operand overflow", target: "/add/99999999999999999999999/1", status: http.StatusBadRequest},
		{name: "sum overflow", target: "/add/18446744073709551615/1", status: http.StatusBadRequest, contains: "add.sum_overflow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := app.do(t, http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.status, rec.Code)
			if tt.contains != "" {
				assert.Contains(t, rec.Body.String(), tt.contains)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("empty form", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		rec := app.do(t, http.MethodGet, "/login-admin", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `name="_username" value=""`)
		assert.NotContains(t, rec.Body.String(), `class="error"`)
	})

	t.Run("failure shows last username and error once", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		rec := app.do(t, http.MethodPost, "/login-admin", url.Values{"_username": {"mallory"}, "_password": {"guess"}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login-admin", rec.Header().Get("Location"))

		page := app.do(t, http.MethodGet, "/login-admin", nil, rec.Result().Cookies()...)
		require.Equal(t, http.StatusOK, page.Code)
		assert.Contains(t, page.Body.String(), `value="mallory"`)
		assert.Contains(t, page.Body.String(), "Invalid credentials.")

		cleared := page.Result().Cookies()
		require.Len(t, cleared, 1)
		assert.Equal(t, -1, cleared[0].MaxAge)
		assert.Contains(t, app.logs.String(), "admin login failed")
	})

	t.Run("wrong password for admin", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		rec := app.do(t, http.MethodPost, "/login-admin", url.Values{"_username": {"admin"}, "_password": {"nope"}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login-admin", rec.Header().Get("Location"))
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		rec := app.do(t, http.MethodPost, "/login-admin", url.Values{"_username": {"admin"}, "_password": {adminPassword}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/posts", rec.Header().Get("Location"))

		page := app.do(t, http.MethodGet, "/login-admin", nil, rec.Result().Cookies()...)
		assert.Contains(t, page.Body.String(), "Signed in as admin")
	})

	t.Run("failed attempts are throttled per client ip", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, withLoginLimiter(t, 2))
		bad := url.Values{"_username": {"admin"}, "_password": {"nope"}}

		for range 2 {
			rec := app.do(t, http.MethodPost, "/login-admin", bad)
			require.Equal(t, http.StatusSeeOther, rec.Code)
		}

		// the right password is refused while throttled
		rec := app.do(t, http.MethodPost, "/login-admin", url.Values{"_username": {"admin"}, "_password": {adminPassword}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login-admin", rec.Header().Get("Location"))

		page := app.do(t, http.MethodGet, "/login-admin", nil, rec.Result().Cookies()...)
		assert.Contains(t, page.Body.String(), "Too many failed login attempts, please try again in 5 minute(s).")
		assert.Contains(t, app.logs.String(), "admin login throttled")
		assert.Contains(t, app.logs.String(), `"client_ip":"192.0.2.1"`)

		// another client is unaffected
		req := httptest.NewRequest(http.MethodPost, "/login-admin", strings.NewReader(url.Values{"_username": {"admin"}, "_password": {adminPassword}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Real-IP", "203.0.113.7")
		other := httptest.NewRecorder()
		app.handler.ServeHTTP(other, req)
		assert.Equal(t, "/posts", other.Header().Get("Location"))
	})

	t.Run("logout", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		app.loginAsAdmin(t)

		rec := app.do(t, http.MethodPost, "/logout-admin", nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "admin", cookies[0].Name)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})
}

func TestPosts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("editing requires admin", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)

		rec := app.do(t, http.MethodGet, "/posts/new", nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login-admin", rec.Header().Get("Location"))

		rec = app.do(t, http.MethodPost, "/posts", url.Values{"title": {"x"}, "tags": {"a"}})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login-admin", rec.Header().Get("Location"))

		forged := &http.Cookie{Name: "admin", Value: "YWRtaW4=|forged"}
		rec = app.do(t, http.MethodGet, "/posts/new", nil, forged)
		assert.Equal(t, "/login-admin", rec.Header().Get("Location"))
	})

	t.Run("create reuses stored tags and persists new ones", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		admin := app.loginAsAdmin(t)
		red := tag.New("red")
		require.NoError(t, app.tags.Create(ctx, red))

		form := app.do(t, http.MethodGet, "/posts/new", nil, admin...)
		require.Equal(t, http.StatusOK, form.Code)
		assert.Contains(t, form.Body.String(), `name="tags" value=""`)

		rec := app.do(t, http.MethodPost, "/posts", url.Values{"title": {"Hello"}, "tags": {"red, red,  blue ,"}}, admin...)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/posts", rec.Header().Get("Location"))

		posts, err := app.posts.List(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "Hello", posts[0].Title)
		assert.Equal(t, []string{"red", "blue"}, posts[0].Tags.Names())
		assert.Same(t, red, posts[0].Tags[0])

		blue, err := app.tags.FindByName(ctx, "blue")
		require.NoError(t, err)
		assert.Equal(t, blue.ID, posts[0].Tags[1].ID)

		list := app.do(t, http.MethodGet, "/posts", nil)
		require.Equal(t, http.StatusOK, list.Code)
		assert.Contains(t, list.Body.String(), `<td class="tags">red, blue</td>`)
	})

	t.Run("edit round trips the tag text", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		admin := app.loginAsAdmin(t)

		p := post.New("Draft", tag.Set{tag.New("go"), tag.New("web")})
		require.NoError(t, app.posts.Save(ctx, p))

		edit := app.do(t, http.MethodGet, "/posts/"+p.ID.String()+"/edit", nil, admin...)
		require.Equal(t, http.StatusOK, edit.Code)
		assert.Contains(t, edit.Body.String(), `name="tags" value="go, web"`)
		assert.Contains(t, edit.Body.String(), `action="/posts/`+p.ID.String()+`"`)

		rec := app.do(t, http.MethodPost, "/posts/"+p.ID.String(), url.Values{"title": {"Final"}, "tags": {"web, sql"}}, admin...)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		got, err := app.posts.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Final", got.Title)
		assert.Equal(t, []string{"web", "sql"}, got.Tags.Names())
	})

	t.Run("empty tags clear the set", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		admin := app.loginAsAdmin(t)

		rec := app.do(t, http.MethodPost, "/posts", url.Values{"title": {"Bare"}, "tags": {""}}, admin...)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		posts, err := app.posts.List(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Empty(t, posts[0].Tags)
	})

	t.Run("missing tags field is a validation error", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		admin := app.loginAsAdmin(t)

		rec := app.do(t, http.MethodPost, "/posts", url.Values{"title": {"Kept"}}, admin...)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "This value is not valid.")
		assert.Contains(t, rec.Body.String(), `value="Kept"`)

		posts, err := app.posts.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("tags that are not valid utf-8 are rejected", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		admin := app.loginAsAdmin(t)

		rec := app.do(t, http.MethodPost, "/posts", url.Values{"title": {"Bytes"}, "tags": {"\xff\xfe, x"}}, admin...)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "This value is not valid.")

		_, err := app.tags.FindByName(ctx, "x")
		assert.ErrorIs(t, err, tag.ErrNotFound)
		posts, err := app.posts.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("title validation", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		admin := app.loginAsAdmin(t)

		rec := app.do(t, http.MethodPost, "/posts", url.Values{"title": {"   "}, "tags": {"new"}}, admin...)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "This value should not be blank.")
		assert.Contains(t, rec.Body.String(), `name="tags" value="new"`)

		rec = app.do(t, http.MethodPost, "/posts", url.Values{"title": {strings.Repeat("é", post.MaxTitleLength+1)}, "tags": {""}}, admin...)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "This value is too long.")

		_, err := app.tags.FindByName(ctx, "new")
		assert.ErrorIs(t, err, tag.ErrNotFound)
	})

	t.Run("unknown posts", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t)
		admin := app.loginAsAdmin(t)

		for _, target := range []string{"/posts/not-a-uuid/edit", "/posts/7f1b7b1e-6c1f-4d3a-9a57-0b8f2f4e5a11/edit"} {
			rec := app.do(t, http.MethodGet, target, nil, admin...)
			assert.Equal(t, http.StatusNotFound, rec.Code, target)
		}

		rec := app.do(t, http.MethodPost, "/posts/7f1b7b1e-6c1f-4d3a-9a57-0b8f2f4e5a11", url.Values{"title": {"x"}, "tags": {"x"}}, admin...)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestInfrastructureRoutes(t *testing.T) {
	t.Parallel()

	t.Run("index", func(t *testing.T) {
		t.Parallel()
		rec := newTestApp(t).do(t, http.MethodGet, "/", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `href="/home"`)
		assert.NotEmpty(t, rec.Header().Get(requestid.Header))
	})

	t.Run("unknown route renders error page", func(t *testing.T) {
		t.Parallel()
		rec := newTestApp(t).do(t, http.MethodGet, "/nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Error 404")
		assert.Contains(t, rec.Body.String(), "Request ID: ")
	})

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()
		rec := newTestApp(t).do(t, http.MethodGet, "/health/live", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ALIVE", rec.Body.String())
	})

	t.Run("readiness", func(t *testing.T) {
		t.Parallel()
		ok := httpserver.Check{Name: "ok", Fn: func(context.Context) error { return nil }}
		down := httpserver.Check{Name: "postgres", Fn: func(context.Context) error { return errors.New("connection refused") }}

		rec := newTestApp(t, withChecks(ok)).do(t, http.MethodGet, "/health/ready", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		app := newTestApp(t, withChecks(ok, down))
		rec = app.do(t, http.MethodGet, "/health/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, app.logs.String(), "readiness check failed")
	})
}
