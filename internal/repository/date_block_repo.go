package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"lodgesync/internal/domain"
)

type DateBlockRepository struct {
	db *gorm.DB
}

func NewDateBlockRepository(db *gorm.DB) *DateBlockRepository {
	return &DateBlockRepository{db: db}
}

type dateBlockModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	UnitID      int64     `gorm:"column:unit_id;index"`
	StartDay    time.Time `gorm:"column:start_day"`
	EndDay      time.Time `gorm:"column:end_day"`
	Reason      string    `gorm:"column:reason"`
	Source      string    `gorm:"column:source"`
	FeedID      *int64    `gorm:"column:feed_id;index"`
	ExternalUID *string   `gorm:"column:external_uid"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (dateBlockModel) TableName() string { return "date_blocks" }

func toDomainBlock(m dateBlockModel) *domain.DateBlock {
	var uid string
	if m.ExternalUID != nil {
		uid = *m.ExternalUID
	}

	return &domain.DateBlock{
		ID:          m.ID,
		UnitID:      m.UnitID,
		Start:       m.StartDay,
		End:         m.EndDay,
		Reason:      m.Reason,
		Source:      m.Source,
		FeedID:      m.FeedID,
		ExternalUID: uid,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toBlockModel(b *domain.DateBlock) dateBlockModel {
	var uid *string
	if b.ExternalUID != "" {
		v := b.ExternalUID
		uid = &v
	}

	return dateBlockModel{
		ID:          b.ID,
		UnitID:      b.UnitID,
		StartDay:    b.Start,
		EndDay:      b.End,
		Reason:      b.Reason,
		Source:      b.Source,
		FeedID:      b.FeedID,
		ExternalUID: uid,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (r *DateBlockRepository) Create(ctx context.Context, b *domain.DateBlock) error {
	m := toBlockModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBlock(m)
	return nil
}

func (r *DateBlockRepository) GetByID(ctx context.Context, id int64) (*domain.DateBlock, error) {
	var m dateBlockModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBlock(m), nil
}

func (r *DateBlockRepository) ListByUnit(ctx context.Context, unitID int64) ([]domain.DateBlock, error) {
	var ms []dateBlockModel
	tx := r.db.WithContext(ctx).Where("unit_id = ?", unitID).Order("start_day").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.DateBlock, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBlock(m))
	}
	return out, nil
}

// ListByFeed returns the blocks the given feed imported, i.e. those whose
// provenance pair names the feed.
func (r *DateBlockRepository) ListByFeed(ctx context.Context, feedID int64) ([]domain.DateBlock, error) {
	var ms []dateBlockModel
	tx := r.db.WithContext(ctx).Where("feed_id = ?", feedID).Order("start_day").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.DateBlock, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBlock(m))
	}
	return out, nil
}

func (r *DateBlockRepository) UpdateRange(ctx context.Context, id int64, start, end time.Time, reason string) error {
	res := r.db.WithContext(ctx).Model(&dateBlockModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"start_day":  start,
			"end_day":    end,
			"reason":     reason,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DateBlockRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&dateBlockModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DateBlockRepository) DeleteByFeed(ctx context.Context, feedID int64) error {
	return r.db.WithContext(ctx).Where("feed_id = ?", feedID).Delete(&dateBlockModel{}).Error
}
