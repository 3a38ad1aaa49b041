package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"lodgesync/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	UnitID             int64      `gorm:"column:unit_id"`
	Arrival            time.Time  `gorm:"column:arrival"`
	Departure          time.Time  `gorm:"column:departure"`
	GuestName          string     `gorm:"column:guest_name"`
	GuestEmail         string     `gorm:"column:guest_email"`
	GuestPhone         string     `gorm:"column:guest_phone"`
	Guests             int        `gorm:"column:guests"`
	Notes              *string    `gorm:"column:notes"`
	Status             string     `gorm:"column:status"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var notes, reason string
	if m.Notes != nil {
		notes = *m.Notes
	}
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}

	return &domain.Booking{
		ID:                 m.ID,
		UnitID:             m.UnitID,
		Arrival:            m.Arrival,
		Departure:          m.Departure,
		GuestName:          m.GuestName,
		GuestEmail:         m.GuestEmail,
		GuestPhone:         m.GuestPhone,
		Guests:             m.Guests,
		Notes:              notes,
		Status:             domain.BookingStatus(m.Status),
		CancellationReason: reason,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		CancelledAt:        m.CancelledAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var notes, reason *string
	if b.Notes != "" {
		v := b.Notes
		notes = &v
	}
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}

	return bookingModel{
		ID:                 b.ID,
		UnitID:             b.UnitID,
		Arrival:            b.Arrival,
		Departure:          b.Departure,
		GuestName:          b.GuestName,
		GuestEmail:         b.GuestEmail,
		GuestPhone:         b.GuestPhone,
		Guests:             b.Guests,
		Notes:              notes,
		Status:             string(b.Status),
		CancellationReason: reason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		CancelledAt:        b.CancelledAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) ListByUnit(ctx context.Context, unitID int64) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).Where("unit_id = ?", unitID).Order("arrival").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// ListOccupying returns the unit's bookings in any of the given statuses,
// ordered by arrival.
func (r *BookingRepository) ListOccupying(ctx context.Context, unitID int64, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("unit_id = ? AND status IN ?", unitID, statuses).
		Order("arrival").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// CountOverlapping counts non-cancelled bookings whose [arrival, departure)
// range intersects [start, end).
func (r *BookingRepository) CountOverlapping(ctx context.Context, unitID int64, start, end time.Time) (int64, error) {
	var cnt int64
	q := `
SELECT COUNT(1)
FROM bookings
WHERE unit_id = ?
  AND status NOT IN ('cancelled')
  AND arrival < ?
  AND ? < departure
`
	tx := r.db.WithContext(ctx).Raw(q, unitID, end, start).Scan(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookingRepository) CancelWithReason(ctx context.Context, id int64, reason string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":              string(domain.BookingCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        now,
			"updated_at":          now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateFromBlock atomically replaces a date block with a booking carrying
// the block's exact unit and date range. Either both halves happen or
// neither does.
func (r *BookingRepository) CreateFromBlock(ctx context.Context, blockID int64, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blk dateBlockModel
		if err := tx.First(&blk, blockID).Error; err != nil {
			return err
		}

		b.UnitID = blk.UnitID
		b.Arrival = blk.StartDay
		b.Departure = blk.EndDay

		m := toBookingModel(b)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		res := tx.Delete(&dateBlockModel{}, blockID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		*b = *toDomainBooking(m)
		return nil
	})
}
