package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"lodgesync/internal/domain"
)

type UnitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

type unitModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Capacity    int       `gorm:"column:capacity"`
	Active      bool      `gorm:"column:active"`
	ExportToken string    `gorm:"column:export_token;uniqueIndex"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (unitModel) TableName() string { return "units" }

func toDomainUnit(m unitModel) *domain.Unit {
	return &domain.Unit{
		ID:          m.ID,
		Name:        m.Name,
		Capacity:    m.Capacity,
		Active:      m.Active,
		ExportToken: m.ExportToken,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toUnitModel(u *domain.Unit) unitModel {
	return unitModel{
		ID:          u.ID,
		Name:        u.Name,
		Capacity:    u.Capacity,
		Active:      u.Active,
		ExportToken: u.ExportToken,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (r *UnitRepository) Create(ctx context.Context, u *domain.Unit) error {
	m := toUnitModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUnit(m)
	return nil
}

func (r *UnitRepository) GetByID(ctx context.Context, id int64) (*domain.Unit, error) {
	var m unitModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUnit(m), nil
}

func (r *UnitRepository) GetByExportToken(ctx context.Context, token string) (*domain.Unit, error) {
	var m unitModel
	tx := r.db.WithContext(ctx).Where("export_token = ?", token).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUnit(m), nil
}

func (r *UnitRepository) List(ctx context.Context) ([]domain.Unit, error) {
	var ms []unitModel
	tx := r.db.WithContext(ctx).Order("id").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Unit, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainUnit(m))
	}
	return out, nil
}

func (r *UnitRepository) Update(ctx context.Context, u *domain.Unit) error {
	m := toUnitModel(u)
	return r.db.WithContext(ctx).Save(&m).Error
}

// Delete removes the unit and everything it owns in one transaction.
func (r *UnitRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM date_blocks WHERE unit_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM sync_feeds WHERE unit_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM bookings WHERE unit_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&unitModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
