// Package handler provides typed HTTP handlers for the tagform web layer.
//
// A HandlerFunc receives a Context and a request struct populated by binders,
// and returns a Response that renders itself:
//
//	type editPostRequest struct {
//		ID string `path:"id"`
//	}
//
//	func editPost(ctx handler.Context, req editPostRequest) handler.Response {
//		post, err := posts.Get(ctx, req.ID)
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.Templ(views.PostForm(post))
//	}
//
//	r.Get("/posts/{id}/edit", handler.Wrap(editPost,
//		handler.WithBinders[handler.Context, editPostRequest](binder.Path(chi.URLParam)),
//		handler.WithErrorHandler[handler.Context, editPostRequest](errorHandler),
//	))
//
// Binders that do not apply to a request return binder.ErrBinderNotApplicable
// and are skipped. Errors returned by binders or by Response.Render go to the
// configured ErrorHandler.
//
// # DataStar
//
// Requests that accept text/event-stream are treated as DataStar requests.
// Templ responses are then sent as element patches and redirects as client
// side navigation.
//
// # Errors
//
// HTTPError carries a status code and a message key. ValidationError maps form
// fields to messages and is always reported with 400 Bad Request.
// NewErrorHandler builds an ErrorHandler that logs with the request id and
// renders either an error page or a toast.
package handler
