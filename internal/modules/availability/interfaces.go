package availability

import (
	"context"
	"time"

	"lodgesync/internal/domain"
)

type UnitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
}

type BlockRepository interface {
	Create(ctx context.Context, b *domain.DateBlock) error
	GetByID(ctx context.Context, id int64) (*domain.DateBlock, error)
	ListByUnit(ctx context.Context, unitID int64) ([]domain.DateBlock, error)
	Delete(ctx context.Context, id int64) error
}

type BookingRepository interface {
	ListOccupying(ctx context.Context, unitID int64, statuses []domain.BookingStatus) ([]domain.Booking, error)
	CountOverlapping(ctx context.Context, unitID int64, start, end time.Time) (int64, error)
	CreateFromBlock(ctx context.Context, blockID int64, b *domain.Booking) error
}
