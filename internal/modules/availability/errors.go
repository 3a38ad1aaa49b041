package availability

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnitNotFound = errors.New("unit not found")
	ErrFeedOwned    = errors.New("block is owned by a sync feed")
)
