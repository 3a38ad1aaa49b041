package unit

import (
	"context"

	"lodgesync/internal/domain"
)

type UnitRepository interface {
	Create(ctx context.Context, u *domain.Unit) error
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
	List(ctx context.Context) ([]domain.Unit, error)
	Update(ctx context.Context, u *domain.Unit) error
	Delete(ctx context.Context, id int64) error
}
