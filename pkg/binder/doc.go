// Package binder populates request structs from HTTP requests.
//
// Each binder reads one source and honours one struct tag:
//
//   - Path(extractor): `path:"name"`, values come from the router
//   - Query(): `query:"name"`
//   - Form(): `form:"name"`, urlencoded or multipart bodies
//
// Fields without the binder's tag, or tagged "-", are left alone. A pointer
// field stays nil when the parameter is absent, which lets handlers tell a
// missing field from an empty one:
//
//	type savePostRequest struct {
//		ID    string  `path:"id"`
//		Title string  `form:"title"`
//		Tags  *string `form:"tags"`
//	}
//
// Supported field types are string, signed and unsigned integers, floats,
// bool, pointers to those, and slices of those. Slice values may also be
// comma-separated.
package binder
