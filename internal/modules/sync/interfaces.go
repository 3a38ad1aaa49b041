package sync

import (
	"context"
	"time"

	"lodgesync/internal/domain"
)

// FeedRepository defines the sync feed operations the orchestrator needs.
type FeedRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SyncFeed, error)
	ListActive(ctx context.Context, unitID *int64) ([]domain.SyncFeed, error)
	UpdateStats(ctx context.Context, id int64, syncedAt time.Time, imported int, lastErr string) error
}

type UnitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
}

// BlockRepository defines the date block operations the Reconciler's plan
// is applied through.
type BlockRepository interface {
	ListByFeed(ctx context.Context, feedID int64) ([]domain.DateBlock, error)
	Create(ctx context.Context, b *domain.DateBlock) error
	UpdateRange(ctx context.Context, id int64, start, end time.Time, reason string) error
	Delete(ctx context.Context, id int64) error
}

// BookingRepository supplies the confirmed bookings the conflict check runs
// against.
type BookingRepository interface {
	ListOccupying(ctx context.Context, unitID int64, statuses []domain.BookingStatus) ([]domain.Booking, error)
}

// Fetcher retrieves a raw calendar document from a feed URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
