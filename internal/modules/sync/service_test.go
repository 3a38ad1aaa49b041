package sync

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lodgesync/internal/domain"
	"lodgesync/internal/ical"
	"lodgesync/internal/pkg/unitlock"
)

type mockFeedRepo struct {
	mock.Mock
}

func (m *mockFeedRepo) GetByID(ctx context.Context, id int64) (*domain.SyncFeed, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(*domain.SyncFeed); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFeedRepo) ListActive(ctx context.Context, unitID *int64) ([]domain.SyncFeed, error) {
	args := m.Called(ctx, unitID)
	if f, ok := args.Get(0).([]domain.SyncFeed); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFeedRepo) UpdateStats(ctx context.Context, id int64, syncedAt time.Time, imported int, lastErr string) error {
	args := m.Called(ctx, id, syncedAt, imported, lastErr)
	return args.Error(0)
}

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

type mockBlockRepo struct {
	mock.Mock
}

func (m *mockBlockRepo) ListByFeed(ctx context.Context, feedID int64) ([]domain.DateBlock, error) {
	args := m.Called(ctx, feedID)
	if b, ok := args.Get(0).([]domain.DateBlock); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBlockRepo) Create(ctx context.Context, b *domain.DateBlock) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBlockRepo) UpdateRange(ctx context.Context, id int64, start, end time.Time, reason string) error {
	args := m.Called(ctx, id, start, end, reason)
	return args.Error(0)
}

func (m *mockBlockRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
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

func feedDoc(uid string, start, end time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTAMP:20250101T000000Z",
		fmt.Sprintf("DTSTART;VALUE=DATE:%s", start.Format("20060102")),
		fmt.Sprintf("DTEND;VALUE=DATE:%s", end.Format("20060102")),
		"SUMMARY:Reserved",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

func TestSyncFeed_NotFound(t *testing.T) {
	feeds := new(mockFeedRepo)
	feeds.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(feeds, new(mockUnitRepo), new(mockBlockRepo), new(mockBookingRepo), ical.NewFetcher(time.Second), unitlock.New(), 2)

	_, err := svc.SyncFeed(context.Background(), 99)
	assert.ErrorIs(t, err, ErrFeedNotFound)
}

func TestSyncFeed_ImportsNewEvent(t *testing.T) {
	start := time.Now().UTC().AddDate(0, 0, 30)
	end := start.AddDate(0, 0, 3)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		fmt.Fprint(w, feedDoc("booking-abc@airbnb.com", start, end))
	}))
	defer srv.Close()

	feed := &domain.SyncFeed{ID: 1, UnitID: 7, Channel: "airbnb", URL: srv.URL, Active: true}

	feeds := new(mockFeedRepo)
	feeds.On("GetByID", mock.Anything, int64(1)).Return(feed, nil)
	feeds.On("UpdateStats", mock.Anything, int64(1), mock.Anything, 1, "").Return(nil)

	blocks := new(mockBlockRepo)
	blocks.On("ListByFeed", mock.Anything, int64(1)).Return([]domain.DateBlock{}, nil)
	blocks.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.DateBlock) bool {
		return b.UnitID == 7 && b.ExternalUID == "booking-abc@airbnb.com" && b.Source == "airbnb"
	})).Return(nil)

	bookings := new(mockBookingRepo)
	bookings.On("ListOccupying", mock.Anything, int64(7), mock.Anything).Return([]domain.Booking{}, nil)

	svc := NewService(feeds, new(mockUnitRepo), blocks, bookings, ical.NewFetcher(5*time.Second), unitlock.New(), 2)

	res, err := svc.SyncFeed(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, res.Error)
	assert.Equal(t, 1, res.EventsFound)
	assert.Equal(t, 1, res.Created)
	assert.Zero(t, res.Updated)
	assert.Zero(t, res.Deleted)

	feeds.AssertExpectations(t)
	blocks.AssertExpectations(t)
}

func TestSyncFeed_FetchErrorRecordedInStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	feed := &domain.SyncFeed{ID: 3, UnitID: 1, Channel: "booking", URL: srv.URL, Active: true}

	feeds := new(mockFeedRepo)
	feeds.On("GetByID", mock.Anything, int64(3)).Return(feed, nil)
	feeds.On("UpdateStats", mock.Anything, int64(3), mock.Anything, mock.Anything, mock.MatchedBy(func(lastErr string) bool {
		return lastErr != ""
	})).Return(nil)

	svc := NewService(feeds, new(mockUnitRepo), new(mockBlockRepo), new(mockBookingRepo), ical.NewFetcher(5*time.Second), unitlock.New(), 2)

	res, err := svc.SyncFeed(context.Background(), 3)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Error)

	feeds.AssertExpectations(t)
}

func TestSyncAll_FeedFailuresAreIsolated(t *testing.T) {
	start := time.Now().UTC().AddDate(0, 0, 14)
	end := start.AddDate(0, 0, 2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken":
			http.Error(w, "upstream error", http.StatusInternalServerError)
		default:
			fmt.Fprint(w, feedDoc("ev-"+strings.TrimPrefix(r.URL.Path, "/"), start, end))
		}
	}))
	defer srv.Close()

	active := []domain.SyncFeed{
		{ID: 1, UnitID: 1, Channel: "airbnb", URL: srv.URL + "/one", Active: true},
		{ID: 2, UnitID: 2, Channel: "booking", URL: srv.URL + "/broken", Active: true},
		{ID: 3, UnitID: 3, Channel: "vrbo", URL: srv.URL + "/three", Active: true},
	}

	feeds := new(mockFeedRepo)
	feeds.On("ListActive", mock.Anything, (*int64)(nil)).Return(active, nil)
	feeds.On("UpdateStats", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	blocks := new(mockBlockRepo)
	blocks.On("ListByFeed", mock.Anything, mock.Anything).Return([]domain.DateBlock{}, nil)
	blocks.On("Create", mock.Anything, mock.Anything).Return(nil)

	bookings := new(mockBookingRepo)
	bookings.On("ListOccupying", mock.Anything, mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)

	svc := NewService(feeds, new(mockUnitRepo), blocks, bookings, ical.NewFetcher(5*time.Second), unitlock.New(), 2)

	res, err := svc.SyncAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Attempted)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Errored)
	require.Len(t, res.Feeds, 3)

	for _, fr := range res.Feeds {
		if fr.FeedID == 2 {
			assert.NotEmpty(t, fr.Error)
		} else {
			assert.Empty(t, fr.Error)
			assert.Equal(t, 1, fr.Created)
		}
	}
}

func TestSyncUnit_NoActiveFeeds(t *testing.T) {
	unitID := int64(5)
	units := new(mockUnitRepo)
	units.On("GetByID", mock.Anything, unitID).Return(&domain.Unit{ID: unitID, Active: true}, nil)

	feeds := new(mockFeedRepo)
	feeds.On("ListActive", mock.Anything, &unitID).Return([]domain.SyncFeed{}, nil)

	svc := NewService(feeds, units, new(mockBlockRepo), new(mockBookingRepo), ical.NewFetcher(time.Second), unitlock.New(), 2)

	res, err := svc.SyncUnit(context.Background(), unitID)
	require.NoError(t, err)
	assert.Zero(t, res.Attempted)
}

func TestSyncUnit_UnknownUnit(t *testing.T) {
	units := new(mockUnitRepo)
	units.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	feeds := new(mockFeedRepo)

	svc := NewService(feeds, units, new(mockBlockRepo), new(mockBookingRepo), ical.NewFetcher(time.Second), unitlock.New(), 2)

	_, err := svc.SyncUnit(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUnitNotFound)
	feeds.AssertNotCalled(t, "ListActive", mock.Anything, mock.Anything)
}
