package booking

import (
	"context"
	"time"

	"lodgesync/internal/domain"
)

// BookingRepository defines the persistence operations for direct bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUnit(ctx context.Context, unitID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	CancelWithReason(ctx context.Context, id int64, reason string) error
}

type UnitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
}

// AvailabilityChecker validates a requested range against the authoritative
// calendar (bookings and blocks both count).
type AvailabilityChecker interface {
	IsRangeFree(ctx context.Context, unitID int64, start, end time.Time) (bool, error)
}
