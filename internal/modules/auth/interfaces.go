package auth

import (
	"context"

	"lodgesync/internal/domain"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
