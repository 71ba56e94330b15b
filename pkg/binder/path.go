package binder

import (
	"net/http"
	"reflect"
)

// Path creates a binder for path parameters. extractor returns the raw value
// of a named parameter, e.g. chi.URLParam. Empty values are not bound.
//
//	binder.Path(chi.URLParam)
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return ErrBinderNotApplicable
		}

		names, err := taggedNames(v, "path", ErrInvalidPath)
		if err != nil {
			return err
		}

		values := make(map[string][]string, len(names))
		for _, name := range names {
			if value := extractor(r, name); value != "" {
				values[name] = []string{value}
			}
		}
		return bindToStruct(v, "path", values, ErrInvalidPath)
	}
}

// taggedNames lists the parameter names of v's fields tagged with tagName.
func taggedNames(v any, tagName string, bindErr error) ([]string, error) {
	rv, err := structValue(v, bindErr)
	if err != nil {
		return nil, err
	}

	var names []string
	rt := rv.Type()
	for i := range rt.NumField() {
		if name, skip := parseFieldTag(rt.Field(i), tagName); !skip {
			names = append(names, name)
		}
	}
	return names, nil
}

func structValue(v any, bindErr error) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return reflect.Value{}, wrapf(bindErr, "target must be a non-nil pointer")
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, wrapf(bindErr, "target must be a pointer to struct")
	}
	return rv, nil
}
