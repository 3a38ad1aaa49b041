package export

import (
	"context"

	"lodgesync/internal/domain"
)

type UnitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
	GetByExportToken(ctx context.Context, token string) (*domain.Unit, error)
}

type BookingRepository interface {
	ListOccupying(ctx context.Context, unitID int64, statuses []domain.BookingStatus) ([]domain.Booking, error)
}

type BlockRepository interface {
	ListByUnit(ctx context.Context, unitID int64) ([]domain.DateBlock, error)
}
