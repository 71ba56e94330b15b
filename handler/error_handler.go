package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/tagform/pkg/logger"
	"github.com/dmitrymomot/tagform/pkg/requestid"
)

const genericErrorMessage = "An error occurred processing your request"

// ErrorPageParams is what an error page component receives.
type ErrorPageParams struct {
	Error      string
	StatusCode int
	RequestID  string
	RetryURL   string
}

// ErrorToastParams is what a toast component receives. Type is "warning"
// for client errors and "error" otherwise.
type ErrorToastParams struct {
	Message   string
	Type      string
	RequestID string
}

// ErrorHandlerConfig selects the components NewErrorHandler renders.
type ErrorHandlerConfig struct {
	// ErrorPage renders a full page for regular requests.
	ErrorPage func(ErrorPageParams) templ.Component
	// ErrorToast is patched into the page for DataStar requests.
	ErrorToast func(ErrorToastParams) templ.Component
	// ToastTarget defaults to "#toast-container".
	ToastTarget string
	// ToastMode defaults to PatchPrepend.
	ToastMode datastar.ElementPatchMode
}

// failure is an error reduced to what the client is shown.
type failure struct {
	status  int
	message string
}

func classify(err error) failure {
	f := failure{status: http.StatusInternalServerError, message: genericErrorMessage}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		f = failure{status: httpErr.Code, message: httpErr.Key}
	}
	var verr ValidationError
	if errors.As(err, &verr) {
		f = failure{status: http.StatusBadRequest, message: validationSummary(verr)}
	}
	return f
}

func (f failure) clientError() bool {
	return f.status >= http.StatusBadRequest && f.status < http.StatusInternalServerError
}

func (f failure) level() slog.Level {
	if f.clientError() {
		return slog.LevelWarn
	}
	return slog.LevelError
}

func (f failure) kind() string {
	if f.clientError() {
		return "warning"
	}
	return "error"
}

// validationSummary lists "field: message" pairs ordered by field.
func validationSummary(verr ValidationError) string {
	fields := make([]string, 0, len(verr))
	for field := range verr {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var parts []string
	for _, field := range fields {
		for _, msg := range verr[field] {
			parts = append(parts, field+": "+msg)
		}
	}
	if len(parts) == 0 {
		return "Validation failed"
	}
	return strings.Join(parts, "; ")
}

type errorRenderer struct {
	log *slog.Logger
	cfg ErrorHandlerConfig
}

// NewErrorHandler logs every handler error with the request id and answers
// with cfg.ErrorPage, or with cfg.ErrorToast for DataStar requests.
// Without components it falls back to a plain-text error for regular
// requests and writes nothing for DataStar ones.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	if cfg.ToastTarget == "" {
		cfg.ToastTarget = "#toast-container"
	}
	if cfg.ToastMode == "" {
		cfg.ToastMode = PatchPrepend
	}

	r := &errorRenderer{
		log: log.With(logger.Component("error_handler")),
		cfg: cfg,
	}
	return r.handle
}

func (e *errorRenderer) handle(ctx Context, err error) {
	req := ctx.Request()
	id := requestid.FromContext(req.Context())
	f := classify(err)

	e.log.LogAttrs(req.Context(), f.level(), "request error",
		logger.RequestID(id),
		logger.Error(err),
		slog.Int("status_code", f.status),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Bool("is_datastar", IsDataStar(req)),
	)

	var resp Response
	switch {
	case IsDataStar(req) && e.cfg.ErrorToast != nil:
		resp = Templ(
			e.cfg.ErrorToast(ErrorToastParams{Message: f.message, Type: f.kind(), RequestID: id}),
			WithTarget(e.cfg.ToastTarget),
			WithPatchMode(e.cfg.ToastMode),
		)
	case IsDataStar(req):
		e.log.Warn("no error toast component configured for DataStar request", logger.RequestID(id))
		return
	case e.cfg.ErrorPage != nil:
		resp = TemplStatus(f.status, e.cfg.ErrorPage(ErrorPageParams{
			Error:      f.message,
			StatusCode: f.status,
			RequestID:  id,
			RetryURL:   req.URL.Path,
		}))
	default:
		e.log.Warn("no error page component configured", logger.RequestID(id))
		http.Error(ctx.ResponseWriter(), f.message, f.status)
		return
	}

	if rerr := resp.Render(ctx.ResponseWriter(), req); rerr != nil {
		e.log.Error("failed to render error response",
			logger.RequestID(id),
			logger.Error(rerr),
			logger.Event("render_error"),
		)
	}
}
