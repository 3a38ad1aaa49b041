package feed

import (
	"context"

	"lodgesync/internal/domain"
)

type FeedRepository interface {
	Create(ctx context.Context, f *domain.SyncFeed) error
	GetByID(ctx context.Context, id int64) (*domain.SyncFeed, error)
	List(ctx context.Context) ([]domain.SyncFeed, error)
	ListByUnit(ctx context.Context, unitID int64) ([]domain.SyncFeed, error)
	Update(ctx context.Context, f *domain.SyncFeed) error
	Delete(ctx context.Context, id int64) error
}

type UnitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
}
