package export

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lodgesync/internal/domain"
	"lodgesync/internal/ical"
)

type mockUnitRepo struct {
	mock.Mock
}

func (m *mockUnitRepo) GetByID(ctx context.Context, id int64) (*domain.Unit, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*domain.Unit); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUnitRepo) GetByExportToken(ctx context.Context, token string) (*domain.Unit, error) {
	args := m.Called(ctx, token)
	if u, ok := args.Get(0).(*domain.Unit); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) ListOccupying(ctx context.Context, unitID int64, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, unitID, statuses)
	if b, ok := args.Get(0).([]domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockBlockRepo struct {
	mock.Mock
}

func (m *mockBlockRepo) ListByUnit(ctx context.Context, unitID int64) ([]domain.DateBlock, error) {
	args := m.Called(ctx, unitID)
	if b, ok := args.Get(0).([]domain.DateBlock); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const testToken = "7f9a6c2e-token"

func exportUnit() *domain.Unit {
	return &domain.Unit{ID: 1, Name: "Casa Mare", Capacity: 4, Active: true, ExportToken: testToken}
}

func TestExportByToken(t *testing.T) {
	units := new(mockUnitRepo)
	units.On("GetByExportToken", mock.Anything, testToken).Return(exportUnit(), nil)

	feedID := int64(2)
	bookings := new(mockBookingRepo)
	bookings.On("ListOccupying", mock.Anything, int64(1), mock.Anything).Return([]domain.Booking{
		{ID: 10, UnitID: 1, Arrival: day(2025, 7, 1), Departure: day(2025, 7, 4), GuestName: "Marco Bianchi", Status: domain.BookingConfirmed},
	}, nil)

	blocks := new(mockBlockRepo)
	blocks.On("ListByUnit", mock.Anything, int64(1)).Return([]domain.DateBlock{
		{ID: 20, UnitID: 1, Start: day(2025, 8, 1), End: day(2025, 8, 3), Reason: "maintenance", Source: domain.SourceManual},
		{ID: 21, UnitID: 1, Start: day(2025, 9, 5), End: day(2025, 9, 8), Reason: "Reserved", Source: "airbnb", FeedID: &feedID, ExternalUID: "ev-1"},
	}, nil)

	svc := NewService(units, bookings, blocks, "https://book.example.com")

	doc, err := svc.ExportByToken(context.Background(), testToken)
	require.NoError(t, err)

	assert.Contains(t, doc, "BEGIN:VCALENDAR")
	assert.Contains(t, doc, "Reserved - Marco Bianchi")
	assert.Contains(t, doc, "Blocked - maintenance")
	assert.Contains(t, doc, "Occupied (airbnb)")

	// Consumers must be able to round-trip the document.
	parsed, err := ical.Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, parsed.Events, 3)
	assert.Zero(t, parsed.Skipped)

	byUID := map[string]ical.ExternalEvent{}
	for _, ev := range parsed.Events {
		byUID[ev.UID] = ev
	}
	b, ok := byUID["booking-10@lodgesync"]
	require.True(t, ok)
	assert.True(t, b.Start.Equal(day(2025, 7, 1)))
	assert.True(t, b.End.Equal(day(2025, 7, 4)))
	_, ok = byUID["block-20@lodgesync"]
	assert.True(t, ok)
	_, ok = byUID["block-21@lodgesync"]
	assert.True(t, ok)
}

func TestExportByToken_StableAcrossRuns(t *testing.T) {
	units := new(mockUnitRepo)
	units.On("GetByExportToken", mock.Anything, testToken).Return(exportUnit(), nil)

	bookings := new(mockBookingRepo)
	bookings.On("ListOccupying", mock.Anything, int64(1), mock.Anything).Return([]domain.Booking{
		{ID: 10, UnitID: 1, Arrival: day(2025, 7, 1), Departure: day(2025, 7, 4), GuestName: "Marco", Status: domain.BookingConfirmed},
	}, nil)

	blocks := new(mockBlockRepo)
	blocks.On("ListByUnit", mock.Anything, int64(1)).Return([]domain.DateBlock{}, nil)

	svc := NewService(units, bookings, blocks, "https://book.example.com")

	first, err := svc.ExportByToken(context.Background(), testToken)
	require.NoError(t, err)
	second, err := svc.ExportByToken(context.Background(), testToken)
	require.NoError(t, err)

	// DTSTAMP aside, unchanged state must yield the same events.
	assert.Equal(t, stripDtstamp(first), stripDtstamp(second))
}

func stripDtstamp(doc string) string {
	var kept []string
	for _, line := range strings.Split(doc, "\r\n") {
		if strings.HasPrefix(line, "DTSTAMP") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\r\n")
}

func TestExportByToken_UnknownToken(t *testing.T) {
	units := new(mockUnitRepo)
	units.On("GetByExportToken", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(units, new(mockBookingRepo), new(mockBlockRepo), "https://book.example.com")

	_, err := svc.ExportByToken(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportByToken_EmptyToken(t *testing.T) {
	svc := NewService(new(mockUnitRepo), new(mockBookingRepo), new(mockBlockRepo), "https://book.example.com")

	_, err := svc.ExportByToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportByToken_EmptyCalendar(t *testing.T) {
	units := new(mockUnitRepo)
	units.On("GetByExportToken", mock.Anything, testToken).Return(exportUnit(), nil)

	bookings := new(mockBookingRepo)
	bookings.On("ListOccupying", mock.Anything, int64(1), mock.Anything).Return([]domain.Booking{}, nil)

	blocks := new(mockBlockRepo)
	blocks.On("ListByUnit", mock.Anything, int64(1)).Return([]domain.DateBlock{}, nil)

	svc := NewService(units, bookings, blocks, "https://book.example.com")

	doc, err := svc.ExportByToken(context.Background(), testToken)
	require.NoError(t, err)
	assert.Contains(t, doc, "BEGIN:VCALENDAR")
	assert.NotContains(t, doc, "BEGIN:VEVENT")
}

func TestExportURL(t *testing.T) {
	units := new(mockUnitRepo)
	units.On("GetByID", mock.Anything, int64(1)).Return(exportUnit(), nil)

	svc := NewService(units, new(mockBookingRepo), new(mockBlockRepo), "https://book.example.com")

	url, err := svc.ExportURL(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "https://book.example.com/api/v1/calendar/"+testToken+".ics", url)
}

func TestExportURL_UnknownUnit(t *testing.T) {
	units := new(mockUnitRepo)
	units.On("GetByID", mock.Anything, int64(9)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(units, new(mockBookingRepo), new(mockBlockRepo), "https://book.example.com")

	_, err := svc.ExportURL(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}
