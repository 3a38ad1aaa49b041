package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("booking not found")
	ErrUnitNotFound            = errors.New("unit not found")
	ErrNotAvailable            = errors.New("range not available")
	ErrOverbooking             = errors.New("overbooking constraint violation")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
