package unit

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lodgesync/internal/domain"
)

type Service struct {
	units UnitRepository
}

func NewService(units UnitRepository) *Service {
	return &Service{units: units}
}

func (s *Service) Create(ctx context.Context, req CreateUnitRequest) (*domain.Unit, error) {
	if req.Name == "" || req.Capacity < 1 {
		return nil, ErrValidation
	}

	u := &domain.Unit{
		Name:        req.Name,
		Capacity:    req.Capacity,
		Active:      true,
		ExportToken: newExportToken(),
	}
	if err := s.units.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Unit, error) {
	u, err := s.units.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Unit, error) {
	return s.units.List(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateUnitRequest) (*domain.Unit, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		u.Name = *req.Name
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, ErrValidation
		}
		u.Capacity = *req.Capacity
	}
	if req.Active != nil {
		u.Active = *req.Active
	}

	if err := s.units.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.units.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// RotateExportToken replaces the unit's export token. The old public
// calendar URL stops working immediately; channel managers must be given
// the new one.
func (s *Service) RotateExportToken(ctx context.Context, id int64) (*domain.Unit, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.ExportToken = newExportToken()
	if err := s.units.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func newExportToken() string {
	return uuid.NewString()
}
