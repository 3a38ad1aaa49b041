package availability

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"lodgesync/internal/domain"
	"lodgesync/internal/pkg/unitlock"
)

// maxRangeDays caps a single range query. Two years covers every calendar
// widget and channel manager observed in the wild.
const maxRangeDays = 731

// Service is the availability store: the single source of truth for
// "is unit U available on day D". All writes go through the per-unit lock
// registry shared with the sync orchestrator; reads do not take the lock
// and are stale-tolerant.
type Service struct {
	units    UnitRepository
	blocks   BlockRepository
	bookings BookingRepository
	locks    *unitlock.Registry
}

func NewService(units UnitRepository, blocks BlockRepository, bookings BookingRepository, locks *unitlock.Registry) *Service {
	return &Service{
		units:    units,
		blocks:   blocks,
		bookings: bookings,
		locks:    locks,
	}
}

// QueryRange resolves a per-day status for [from, to). Precedence per day:
// booked > blocked > available. Cancelled bookings never count.
func (s *Service) QueryRange(ctx context.Context, unitID int64, from, to time.Time) ([]DayAvailability, error) {
	if !to.After(from) {
		return nil, ErrValidation
	}
	from, to = domain.Day(from), domain.Day(to)
	if int(to.Sub(from).Hours()/24) > maxRangeDays {
		return nil, ErrValidation
	}

	if _, err := s.units.GetByID(ctx, unitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}

	bookings, err := s.bookings.ListOccupying(ctx, unitID, []domain.BookingStatus{
		domain.BookingPending,
		domain.BookingConfirmed,
		domain.BookingCompleted,
	})
	if err != nil {
		return nil, err
	}

	blocks, err := s.blocks.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}

	out := make([]DayAvailability, 0, int(to.Sub(from).Hours()/24))
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		status := domain.DayAvailable
		for _, b := range blocks {
			if !day.Before(b.Start) && day.Before(b.End) {
				status = domain.DayBlocked
				break
			}
		}
		for _, b := range bookings {
			if !day.Before(b.Arrival) && day.Before(b.Departure) {
				status = domain.DayBooked
				break
			}
		}
		out = append(out, DayAvailability{Day: day.Format(domain.DayFormat), Status: status})
	}
	return out, nil
}

// IsRangeFree reports whether [start, end) is clear of occupying bookings
// and blocks, for validating a new direct booking.
func (s *Service) IsRangeFree(ctx context.Context, unitID int64, start, end time.Time) (bool, error) {
	cnt, err := s.bookings.CountOverlapping(ctx, unitID, start, end)
	if err != nil {
		return false, err
	}
	if cnt > 0 {
		return false, nil
	}

	blocks, err := s.blocks.ListByUnit(ctx, unitID)
	if err != nil {
		return false, err
	}
	for _, b := range blocks {
		if domain.Overlaps(start, end, b.Start, b.End) {
			return false, nil
		}
	}
	return true, nil
}

// CreateManualBlock records a staff-entered block. Manual blocks carry no
// provenance pair and are invisible to sync.
func (s *Service) CreateManualBlock(ctx context.Context, unitID int64, start, end time.Time, reason string) (*domain.DateBlock, error) {
	if !end.After(start) {
		return nil, ErrValidation
	}
	if _, err := s.units.GetByID(ctx, unitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}

	b := &domain.DateBlock{
		UnitID: unitID,
		Start:  domain.Day(start),
		End:    domain.Day(end),
		Reason: reason,
		Source: domain.SourceManual,
	}

	err := s.locks.Do(unitID, func() error {
		return s.blocks.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBlock removes a manual block. Feed-owned blocks may only be deleted
// by the reconciler on upstream removal, or converted.
func (s *Service) DeleteBlock(ctx context.Context, blockID int64) error {
	b, err := s.blocks.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if b.FeedOwned() {
		return ErrFeedOwned
	}

	return s.locks.Do(b.UnitID, func() error {
		return s.blocks.Delete(ctx, blockID)
	})
}

// ListBlocks returns every block of a unit, manual and imported.
func (s *Service) ListBlocks(ctx context.Context, unitID int64) ([]domain.DateBlock, error) {
	return s.blocks.ListByUnit(ctx, unitID)
}

// ConvertBlockToBooking atomically replaces a block with a pending booking
// over the block's exact range. Either the booking exists and the block is
// gone, or nothing changed.
func (s *Service) ConvertBlockToBooking(ctx context.Context, blockID int64, guest GuestDetails) (*domain.Booking, error) {
	if guest.Name == "" {
		return nil, ErrValidation
	}

	blk, err := s.blocks.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	b := &domain.Booking{
		GuestName:  guest.Name,
		GuestEmail: guest.Email,
		GuestPhone: guest.Phone,
		Guests:     guest.Guests,
		Notes:      guest.Notes,
		Status:     domain.BookingPending,
	}

	err = s.locks.Do(blk.UnitID, func() error {
		return s.bookings.CreateFromBlock(ctx, blockID, b)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}
