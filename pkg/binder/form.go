package binder

import (
	"mime"
	"net/http"
	"strings"
)

// DefaultMaxMemory is the default maximum memory used for parsing multipart forms (10MB).
const DefaultMaxMemory = 10 << 20

// Form creates a binder for application/x-www-form-urlencoded and
// multipart/form-data bodies. Requests without a body, such as GET, are
// reported as ErrBinderNotApplicable. Query parameters are not merged in.
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if !hasBody(r) {
			return ErrBinderNotApplicable
		}

		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return wrapf(ErrMissingContentType, "expected application/x-www-form-urlencoded or multipart/form-data")
		}

		mediaType, params, err := mime.ParseMediaType(contentType)
		if err != nil {
			return wrapf(ErrInvalidForm, "malformed content type")
		}

		var values map[string][]string
		switch mediaType {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return wrapf(ErrInvalidForm, "%v", err)
			}
			values = r.PostForm

		case "multipart/form-data":
			if params["boundary"] == "" {
				return wrapf(ErrInvalidForm, "missing boundary in content type")
			}
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				return wrapf(ErrInvalidForm, "%v", err)
			}
			values = r.MultipartForm.Value

		default:
			return wrapf(ErrUnsupportedMediaType, "got %s, expected application/x-www-form-urlencoded or multipart/form-data", mediaType)
		}

		return bindToStruct(v, "form", values, ErrInvalidForm)
	}
}

func hasBody(r *http.Request) bool {
	switch strings.ToUpper(r.Method) {
	case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
		return false
	}
	return r.Body != nil && r.Body != http.NoBody
}
