package binder

import "net/http"

// Query creates a binder for URL query parameters.
//
//	type homeRequest struct {
//		Age *int `query:"age"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrInvalidQuery)
	}
}
