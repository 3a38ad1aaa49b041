package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"lodgesync/internal/domain"
)

type SyncFeedRepository struct {
	db *gorm.DB
}

func NewSyncFeedRepository(db *gorm.DB) *SyncFeedRepository {
	return &SyncFeedRepository{db: db}
}

type syncFeedModel struct {
	ID             int64      `gorm:"column:id;primaryKey"`
	UnitID         int64      `gorm:"column:unit_id;index"`
	Channel        string     `gorm:"column:channel"`
	URL            string     `gorm:"column:url"`
	Active         bool       `gorm:"column:active"`
	LastSyncAt     *time.Time `gorm:"column:last_sync_at"`
	ImportedEvents int        `gorm:"column:imported_events"`
	LastError      *string    `gorm:"column:last_error"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (syncFeedModel) TableName() string { return "sync_feeds" }

func toDomainFeed(m syncFeedModel) *domain.SyncFeed {
	var lastErr string
	if m.LastError != nil {
		lastErr = *m.LastError
	}

	return &domain.SyncFeed{
		ID:             m.ID,
		UnitID:         m.UnitID,
		Channel:        m.Channel,
		URL:            m.URL,
		Active:         m.Active,
		LastSyncAt:     m.LastSyncAt,
		ImportedEvents: m.ImportedEvents,
		LastError:      lastErr,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toFeedModel(f *domain.SyncFeed) syncFeedModel {
	var lastErr *string
	if f.LastError != "" {
		v := f.LastError
		lastErr = &v
	}

	return syncFeedModel{
		ID:             f.ID,
		UnitID:         f.UnitID,
		Channel:        f.Channel,
		URL:            f.URL,
		Active:         f.Active,
		LastSyncAt:     f.LastSyncAt,
		ImportedEvents: f.ImportedEvents,
		LastError:      lastErr,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func (r *SyncFeedRepository) Create(ctx context.Context, f *domain.SyncFeed) error {
	m := toFeedModel(f)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*f = *toDomainFeed(m)
	return nil
}

func (r *SyncFeedRepository) GetByID(ctx context.Context, id int64) (*domain.SyncFeed, error) {
	var m syncFeedModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainFeed(m), nil
}

func (r *SyncFeedRepository) List(ctx context.Context) ([]domain.SyncFeed, error) {
	var ms []syncFeedModel
	tx := r.db.WithContext(ctx).Order("created_at DESC").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.SyncFeed, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainFeed(m))
	}
	return out, nil
}

func (r *SyncFeedRepository) ListByUnit(ctx context.Context, unitID int64) ([]domain.SyncFeed, error) {
	var ms []syncFeedModel
	tx := r.db.WithContext(ctx).Where("unit_id = ?", unitID).Order("created_at DESC").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.SyncFeed, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainFeed(m))
	}
	return out, nil
}

// ListActive returns active feeds, optionally narrowed to one unit.
func (r *SyncFeedRepository) ListActive(ctx context.Context, unitID *int64) ([]domain.SyncFeed, error) {
	q := r.db.WithContext(ctx).Where("active = ?", true)
	if unitID != nil {
		q = q.Where("unit_id = ?", *unitID)
	}
	var ms []syncFeedModel
	tx := q.Order("id").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.SyncFeed, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainFeed(m))
	}
	return out, nil
}

func (r *SyncFeedRepository) Update(ctx context.Context, f *domain.SyncFeed) error {
	m := toFeedModel(f)
	return r.db.WithContext(ctx).Save(&m).Error
}

// UpdateStats records the outcome of a sync attempt. lastErr == "" clears a
// previous error.
func (r *SyncFeedRepository) UpdateStats(ctx context.Context, id int64, syncedAt time.Time, imported int, lastErr string) error {
	var errCol *string
	if lastErr != "" {
		errCol = &lastErr
	}
	return r.db.WithContext(ctx).Model(&syncFeedModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_sync_at":    syncedAt,
			"imported_events": imported,
			"last_error":      errCol,
			"updated_at":      time.Now().UTC(),
		}).Error
}

// Delete removes the feed together with the blocks it imported.
func (r *SyncFeedRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feed_id = ?", id).Delete(&dateBlockModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&syncFeedModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
