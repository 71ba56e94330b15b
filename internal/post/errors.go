package post

import "errors"

var (
	ErrNotFound    = errors.New("post not found")
	ErrNilPost     = errors.New("post is nil")
	ErrStoreFailed = errors.New("post store operation failed")
)
