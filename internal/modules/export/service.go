package export

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lodgesync/internal/domain"
	"lodgesync/internal/ical"
)

var ErrNotFound = errors.New("calendar not found")

// uidDomain namespaces exported event UIDs. UIDs are derived from record
// ids, so repeated exports of unchanged state emit identical events.
const uidDomain = "lodgesync"

// Service is the export publisher: it turns a unit's authoritative calendar
// into the outbound ICS document consumed by channel platforms.
type Service struct {
	units    UnitRepository
	bookings BookingRepository
	blocks   BlockRepository
	baseURL  string
}

// NewService builds the publisher. baseURL is the externally reachable root
// used to compose export URLs, e.g. "https://book.example.com".
func NewService(units UnitRepository, bookings BookingRepository, blocks BlockRepository, baseURL string) *Service {
	return &Service{
		units:    units,
		bookings: bookings,
		blocks:   blocks,
		baseURL:  baseURL,
	}
}

// ExportByToken renders the calendar document for the unit owning the
// capability token. Channel platforms fetch this unattended, so the token
// is the only credential.
func (s *Service) ExportByToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNotFound
	}

	u, err := s.units.GetByExportToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	return s.render(ctx, u)
}

// render serializes every non-cancelled booking and every block, manual or
// imported, because a consuming channel needs the full true availability.
func (s *Service) render(ctx context.Context, u *domain.Unit) (string, error) {
	bookings, err := s.bookings.ListOccupying(ctx, u.ID, []domain.BookingStatus{
		domain.BookingPending,
		domain.BookingConfirmed,
		domain.BookingCompleted,
	})
	if err != nil {
		return "", err
	}

	blocks, err := s.blocks.ListByUnit(ctx, u.ID)
	if err != nil {
		return "", err
	}

	intervals := make([]ical.Interval, 0, len(bookings)+len(blocks))
	for _, b := range bookings {
		intervals = append(intervals, ical.Interval{
			UID:     fmt.Sprintf("booking-%d@%s", b.ID, uidDomain),
			Start:   b.Arrival,
			End:     b.Departure,
			Summary: "Reserved - " + b.GuestName,
		})
	}
	for _, b := range blocks {
		summary := "Occupied (" + b.Source + ")"
		if !b.FeedOwned() {
			summary = "Blocked - " + b.Reason
		}
		intervals = append(intervals, ical.Interval{
			UID:     fmt.Sprintf("block-%d@%s", b.ID, uidDomain),
			Start:   b.Start,
			End:     b.End,
			Summary: summary,
		})
	}

	return ical.Serialize(u.Name, intervals), nil
}

// ExportURL returns the public calendar URL for a unit, for staff to paste
// into a channel's calendar-import settings.
func (s *Service) ExportURL(ctx context.Context, unitID int64) (string, error) {
	u, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return fmt.Sprintf("%s/api/v1/calendar/%s.ics", s.baseURL, u.ExportToken), nil
}
