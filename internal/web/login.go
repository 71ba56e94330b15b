package web

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/tagform/handler"
	"github.com/dmitrymomot/tagform/pkg/cookie"
	"github.com/dmitrymomot/tagform/pkg/logger"
)

const (
	loginPath      = "/login-admin"
	adminCookie    = "admin"
	loginFlashKey  = "login"
	adminCookieTTL = 8 * 60 * 60

	errBadCredentials = "Invalid credentials."
)

// loginFlash carries the last attempt from the POST to the next GET.
type loginFlash struct {
	Username string `json:"username"`
	Error    string `json:"error"`
}

type loginRequest struct {
	Username string `form:"_username"`
	Password string `form:"_password"`
}

func (a *App) loginForm(ctx handler.Context, _ struct{}) handler.Response {
	var flash loginFlash
	err := a.cookies.GetFlash(ctx.ResponseWriter(), ctx.Request(), loginFlashKey, &flash)
	if err != nil && !errors.Is(err, cookie.ErrCookieNotFound) {
		a.log.DebugContext(ctx, "unreadable login flash", logger.Error(err))
	}

	admin, _ := a.cookies.GetSigned(ctx.Request(), adminCookie)

	return handler.Templ(loginPage(loginView{
		LastUsername: flash.Username,
		Error:        flash.Error,
		LoggedInAs:   admin,
	}))
}

func (a *App) login(ctx handler.Context, req loginRequest) handler.Response {
	w := ctx.ResponseWriter()

	if msg, blocked := a.throttle.blocked(ctx); blocked {
		a.log.WarnContext(ctx, "admin login throttled", logger.Username(req.Username))
		return a.loginFailed(ctx, req.Username, msg)
	}

	if !a.checkCredentials(req.Username, req.Password) {
		a.throttle.failed(ctx)
		a.log.WarnContext(ctx, "admin login failed", logger.Username(req.Username))
		return a.loginFailed(ctx, req.Username, errBadCredentials)
	}

	a.throttle.succeeded(ctx)
	a.cookies.SetSigned(w, adminCookie, req.Username, cookie.WithMaxAge(adminCookieTTL))
	a.log.InfoContext(ctx, "admin logged in", logger.Username(req.Username))
	return handler.Redirect(postsPath)
}

// loginFailed stores the attempt for the next GET and redirects there.
func (a *App) loginFailed(ctx handler.Context, username, msg string) handler.Response {
	err := a.cookies.SetFlash(ctx.ResponseWriter(), loginFlashKey, loginFlash{Username: username, Error: msg})
	if err != nil {
		return handler.Error(err)
	}
	return handler.Redirect(loginPath)
}

func (a *App) logout(ctx handler.Context, _ struct{}) handler.Response {
	a.cookies.Delete(ctx.ResponseWriter(), adminCookie)
	return handler.Redirect(loginPath)
}

// checkCredentials always runs bcrypt when a hash is configured so a wrong
// username costs as much as a wrong password.
func (a *App) checkCredentials(username, password string) bool {
	if a.cfg.AdminPasswordHash == "" || username == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.cfg.AdminUsername)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(a.cfg.AdminPasswordHash), []byte(password)) == nil
	return userOK && passOK
}

// requireAdmin redirects to the login page unless the signed admin cookie is present.
func requireAdmin[R any](cookies *cookie.Manager) handler.Decorator[handler.Context, R] {
	return func(next handler.HandlerFunc[handler.Context, R]) handler.HandlerFunc[handler.Context, R] {
		return func(ctx handler.Context, req R) handler.Response {
			if _, err := cookies.GetSigned(ctx.Request(), adminCookie); err != nil {
				return handler.Redirect(loginPath)
			}
			return next(ctx, req)
		}
	}
}
