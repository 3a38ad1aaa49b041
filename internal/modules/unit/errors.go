package unit

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("unit not found")
)
