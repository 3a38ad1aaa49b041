package feed

import (
	"context"
	"errors"
	"net/url"

	"gorm.io/gorm"

	"lodgesync/internal/domain"
)

type Service struct {
	feeds FeedRepository
	units UnitRepository
}

func NewService(feeds FeedRepository, units UnitRepository) *Service {
	return &Service{feeds: feeds, units: units}
}

func (s *Service) Create(ctx context.Context, req CreateFeedRequest) (*domain.SyncFeed, error) {
	if !validFeedURL(req.URL) {
		return nil, ErrValidation
	}

	if _, err := s.units.GetByID(ctx, req.UnitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	f := &domain.SyncFeed{
		UnitID:  req.UnitID,
		Channel: req.Channel,
		URL:     req.URL,
		Active:  active,
	}
	if err := s.feeds.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.SyncFeed, error) {
	f, err := s.feeds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// List returns all feeds, or one unit's feeds when unitID is non-nil.
func (s *Service) List(ctx context.Context, unitID *int64) ([]domain.SyncFeed, error) {
	if unitID != nil {
		return s.feeds.ListByUnit(ctx, *unitID)
	}
	return s.feeds.List(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateFeedRequest) (*domain.SyncFeed, error) {
	f, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Channel != nil && *req.Channel != "" {
		f.Channel = *req.Channel
	}
	if req.URL != nil {
		if !validFeedURL(*req.URL) {
			return nil, ErrValidation
		}
		f.URL = *req.URL
	}
	if req.Active != nil {
		f.Active = *req.Active
	}

	if err := s.feeds.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes a feed and, through the repository transaction, every
// block it imported.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.feeds.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func validFeedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
