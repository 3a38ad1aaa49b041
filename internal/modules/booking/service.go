package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"lodgesync/internal/domain"
	"lodgesync/internal/pkg/unitlock"
)

// Service handles direct bookings. Every mutation runs under the unit's
// write lock, the same one the sync orchestrator and block edits use, so a
// booking can never be written while a sync plan is being applied.
type Service struct {
	bookings     BookingRepository
	units        UnitRepository
	availability AvailabilityChecker
	locks        *unitlock.Registry
}

func NewService(bookings BookingRepository, units UnitRepository, availability AvailabilityChecker, locks *unitlock.Registry) *Service {
	return &Service{
		bookings:     bookings,
		units:        units,
		availability: availability,
		locks:        locks,
	}
}

func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	arrival, err := domain.ParseDay(req.Arrival)
	if err != nil {
		return nil, ErrValidation
	}
	departure, err := domain.ParseDay(req.Departure)
	if err != nil {
		return nil, ErrValidation
	}
	if !departure.After(arrival) {
		return nil, ErrValidation
	}
	if arrival.Before(domain.Day(time.Now().UTC())) {
		return nil, ErrValidation
	}

	u, err := s.units.GetByID(ctx, req.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	if !u.Active || req.Guests > u.Capacity {
		return nil, ErrValidation
	}

	b := &domain.Booking{
		UnitID:     req.UnitID,
		Arrival:    arrival,
		Departure:  departure,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		Guests:     req.Guests,
		Notes:      req.Notes,
		Status:     domain.BookingPending,
	}

	// The availability check and the insert must be one critical section:
	// a sync apply on the same unit could otherwise claim the range in
	// between.
	err = s.locks.Do(req.UnitID, func() error {
		ok, err := s.availability.IsRangeFree(ctx, req.UnitID, arrival, departure)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotAvailable
		}
		return s.bookings.Create(ctx, b)
	})
	if err != nil {
		// On PostgreSQL an overlapping insert from another process
		// surfaces as an exclusion violation.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" && pgErr.ConstraintName == "idx_no_overbooking" {
			return nil, ErrOverbooking
		}
		return nil, err
	}

	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) ListByUnit(ctx context.Context, unitID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUnit(ctx, unitID)
}

// UpdateStatus applies a staff status transition. Allowed moves:
// pending->confirmed, pending/confirmed->cancelled, confirmed->completed.
// Completed bookings are immutable.
func (s *Service) UpdateStatus(ctx context.Context, id int64, newStatus domain.BookingStatus, reason string) (*domain.Booking, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Re-read and re-check under the unit lock: the status must not move
	// between the check and the write, and a transition to confirmed must
	// not interleave with a sync apply reading confirmed bookings.
	err = s.locks.Do(b.UnitID, func() error {
		cur, err := s.bookings.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !allowedTransition(cur.Status, newStatus) {
			return ErrInvalidStatusTransition
		}
		if newStatus == domain.BookingCancelled {
			return s.bookings.CancelWithReason(ctx, id, reason)
		}
		return s.bookings.UpdateStatus(ctx, id, newStatus)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func allowedTransition(from, to domain.BookingStatus) bool {
	switch from {
	case domain.BookingPending:
		return to == domain.BookingConfirmed || to == domain.BookingCancelled
	case domain.BookingConfirmed:
		return to == domain.BookingCompleted || to == domain.BookingCancelled
	default:
		return false
	}
}
