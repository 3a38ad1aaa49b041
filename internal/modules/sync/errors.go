package sync

import "errors"

var (
	ErrFeedNotFound = errors.New("feed not found")
	ErrUnitNotFound = errors.New("unit not found")
)
