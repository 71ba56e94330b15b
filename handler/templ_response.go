package handler

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// TemplOption is an alias for datastar's PatchElementOption
type TemplOption = datastar.PatchElementOption

// WithTarget sets the target selector for where the component should be rendered
func WithTarget(selector string) TemplOption {
	return datastar.WithSelector(selector)
}

// WithPatchMode sets how the component should be merged into the DOM
func WithPatchMode(mode datastar.ElementPatchMode) TemplOption {
	return datastar.WithMode(mode)
}

type templResponse struct {
	component templ.Component
	status    int
	options   []datastar.PatchElementOption
}

// Render outputs component via SSE for DataStar or HTML for regular requests
func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		return datastar.NewSSE(w, r).PatchElementTempl(t.component, t.options...)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if t.status != 0 {
		w.WriteHeader(t.status)
	}
	return t.component.Render(r.Context(), w)
}

// Templ creates a response from a templ component.
//
//	return handler.Templ(views.PostList(posts))
//
//	return handler.Templ(views.Toast(msg),
//		handler.WithTarget("#toast-container"),
//		handler.WithPatchMode(handler.PatchPrepend),
//	)
func Templ(component templ.Component, opts ...TemplOption) Response {
	return templResponse{
		component: component,
		options:   opts,
	}
}

// TemplStatus is Templ with an explicit status code for regular requests.
// SSE responses always use 200.
func TemplStatus(status int, component templ.Component, opts ...TemplOption) Response {
	return templResponse{
		component: component,
		status:    status,
		options:   opts,
	}
}

type templPartialResponse struct {
	partial templ.Component
	full    templ.Component
	status  int
	options []datastar.PatchElementOption
}

func (t templPartialResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		return datastar.NewSSE(w, r).PatchElementTempl(t.partial, t.options...)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if t.status != 0 {
		w.WriteHeader(t.status)
	}
	return t.full.Render(r.Context(), w)
}

// TemplPartial renders only partial for DataStar requests and full otherwise.
func TemplPartial(partial, full templ.Component, opts ...TemplOption) Response {
	return templPartialResponse{
		partial: partial,
		full:    full,
		options: opts,
	}
}

// TemplPartialStatus is TemplPartial with a status code for regular requests.
func TemplPartialStatus(status int, partial, full templ.Component, opts ...TemplOption) Response {
	return templPartialResponse{
		partial: partial,
		full:    full,
		status:  status,
		options: opts,
	}
}
