package feed

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("feed not found")
	ErrUnitNotFound = errors.New("unit not found")
)
