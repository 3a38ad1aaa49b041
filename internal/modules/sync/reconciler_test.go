package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodgesync/internal/domain"
	"lodgesync/internal/ical"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var testToday = day(2025, time.June, 1)

func testFeed() *domain.SyncFeed {
	return &domain.SyncFeed{ID: 10, UnitID: 1, Channel: "airbnb", URL: "https://example.com/cal.ics", Active: true}
}

func ownedBlock(id int64, uid string, start, end time.Time) domain.DateBlock {
	feedID := int64(10)
	return domain.DateBlock{
		ID:          id,
		UnitID:      1,
		Start:       start,
		End:         end,
		Reason:      "Reserved",
		Source:      "airbnb",
		FeedID:      &feedID,
		ExternalUID: uid,
	}
}

func TestBuildPlan_CreatesNewEvents(t *testing.T) {
	events := []ical.ExternalEvent{
		{UID: "ev-1", Start: day(2025, time.July, 1), End: day(2025, time.July, 4), Summary: "Reserved"},
	}

	p := buildPlan(testFeed(), events, nil, nil, testToday)

	require.Len(t, p.creates, 1)
	assert.Empty(t, p.updates)
	assert.Empty(t, p.deletes)
	assert.Empty(t, p.conflicts)

	b := p.creates[0]
	assert.Equal(t, int64(1), b.UnitID)
	assert.Equal(t, "airbnb", b.Source)
	require.NotNil(t, b.FeedID)
	assert.Equal(t, int64(10), *b.FeedID)
	assert.Equal(t, "ev-1", b.ExternalUID)
}

func TestBuildPlan_IdempotentResync(t *testing.T) {
	events := []ical.ExternalEvent{
		{UID: "ev-1", Start: day(2025, time.July, 1), End: day(2025, time.July, 4), Summary: "Reserved"},
		{UID: "ev-2", Start: day(2025, time.August, 2), End: day(2025, time.August, 5), Summary: "Reserved"},
	}
	owned := []domain.DateBlock{
		ownedBlock(1, "ev-1", day(2025, time.July, 1), day(2025, time.July, 4)),
		ownedBlock(2, "ev-2", day(2025, time.August, 2), day(2025, time.August, 5)),
	}

	p := buildPlan(testFeed(), events, owned, nil, testToday)

	assert.True(t, p.empty(), "unchanged remote document must produce an empty plan")
	assert.Empty(t, p.conflicts)
}

func TestBuildPlan_UpdatesChangedDates(t *testing.T) {
	events := []ical.ExternalEvent{
		{UID: "ev-1", Start: day(2025, time.July, 2), End: day(2025, time.July, 6), Summary: "Reserved"},
	}
	owned := []domain.DateBlock{
		ownedBlock(1, "ev-1", day(2025, time.July, 1), day(2025, time.July, 4)),
	}

	p := buildPlan(testFeed(), events, owned, nil, testToday)

	require.Len(t, p.updates, 1)
	assert.Equal(t, int64(1), p.updates[0].ID)
	assert.Equal(t, day(2025, time.July, 2), p.updates[0].Start)
	assert.Equal(t, day(2025, time.July, 6), p.updates[0].End)
	assert.Empty(t, p.creates)
	assert.Empty(t, p.deletes)
}

func TestBuildPlan_DeletesUpstreamRemovals(t *testing.T) {
	owned := []domain.DateBlock{
		ownedBlock(1, "gone-upstream", day(2025, time.July, 1), day(2025, time.July, 4)),
	}

	p := buildPlan(testFeed(), nil, owned, nil, testToday)

	require.Len(t, p.deletes, 1)
	assert.Equal(t, int64(1), p.deletes[0])
}

func TestBuildPlan_ConflictWithConfirmedBooking(t *testing.T) {
	events := []ical.ExternalEvent{
		{UID: "ev-clash", Start: day(2025, time.July, 2), End: day(2025, time.July, 5), Summary: "Reserved"},
	}
	bookings := []domain.Booking{
		{ID: 77, UnitID: 1, Arrival: day(2025, time.July, 4), Departure: day(2025, time.July, 8), Status: domain.BookingConfirmed},
	}

	p := buildPlan(testFeed(), events, nil, bookings, testToday)

	assert.Empty(t, p.creates, "conflicting event must not be applied")
	require.Len(t, p.conflicts, 1)
	c := p.conflicts[0]
	assert.Equal(t, int64(77), c.BookingID)
	assert.Equal(t, "ev-clash", c.ExternalUID)
	assert.Equal(t, int64(1), c.UnitID)
}

func TestBuildPlan_ExclusiveEndDateIsNotAConflict(t *testing.T) {
	// Event ends the day the booking starts: checkout day is free.
	events := []ical.ExternalEvent{
		{UID: "ev-adjacent", Start: day(2025, time.July, 1), End: day(2025, time.July, 4), Summary: "Reserved"},
	}
	bookings := []domain.Booking{
		{ID: 5, UnitID: 1, Arrival: day(2025, time.July, 4), Departure: day(2025, time.July, 7), Status: domain.BookingConfirmed},
	}

	p := buildPlan(testFeed(), events, nil, bookings, testToday)

	assert.Empty(t, p.conflicts)
	assert.Len(t, p.creates, 1)
}

func TestBuildPlan_ConflictingUpdateLeavesStaleRange(t *testing.T) {
	events := []ical.ExternalEvent{
		{UID: "ev-1", Start: day(2025, time.July, 5), End: day(2025, time.July, 9), Summary: "Reserved"},
	}
	owned := []domain.DateBlock{
		ownedBlock(1, "ev-1", day(2025, time.July, 1), day(2025, time.July, 4)),
	}
	bookings := []domain.Booking{
		{ID: 9, UnitID: 1, Arrival: day(2025, time.July, 8), Departure: day(2025, time.July, 12), Status: domain.BookingConfirmed},
	}

	p := buildPlan(testFeed(), events, owned, bookings, testToday)

	assert.Empty(t, p.updates, "stale range must be left untouched on conflict")
	assert.Empty(t, p.deletes, "block must not be deleted while its UID is still remote")
	require.Len(t, p.conflicts, 1)
	assert.Equal(t, int64(9), p.conflicts[0].BookingID)
}

func TestBuildPlan_ManualBlocksInvisible(t *testing.T) {
	// Manual blocks are not passed in as feed-owned; the plan can only
	// ever touch blocks whose provenance names this feed. Simulate a feed
	// that went empty and verify only feed-owned blocks are deleted.
	owned := []domain.DateBlock{
		ownedBlock(1, "ev-1", day(2025, time.July, 1), day(2025, time.July, 4)),
	}

	p := buildPlan(testFeed(), nil, owned, nil, testToday)

	require.Len(t, p.deletes, 1)
	assert.Equal(t, int64(1), p.deletes[0])
}

func TestBuildPlan_SkipsPastEvents(t *testing.T) {
	events := []ical.ExternalEvent{
		{UID: "past", Start: day(2025, time.May, 1), End: day(2025, time.May, 4), Summary: "Old"},
		{UID: "future", Start: day(2025, time.July, 1), End: day(2025, time.July, 4), Summary: "Reserved"},
	}

	p := buildPlan(testFeed(), events, nil, nil, testToday)

	assert.Equal(t, 1, p.skipped)
	require.Len(t, p.creates, 1)
	assert.Equal(t, "future", p.creates[0].ExternalUID)
}

func TestBuildPlan_DuplicateUIDsSkipped(t *testing.T) {
	events := []ical.ExternalEvent{
		{UID: "dup", Start: day(2025, time.July, 1), End: day(2025, time.July, 4), Summary: "Reserved"},
		{UID: "dup", Start: day(2025, time.August, 1), End: day(2025, time.August, 4), Summary: "Reserved"},
	}

	p := buildPlan(testFeed(), events, nil, nil, testToday)

	assert.Equal(t, 1, p.skipped)
	assert.Len(t, p.creates, 1)
}

func TestBuildPlan_ReasonRefreshWithoutDateChange(t *testing.T) {
	events := []ical.ExternalEvent{
		{UID: "ev-1", Start: day(2025, time.July, 1), End: day(2025, time.July, 4), Summary: "Reserved (updated)"},
	}
	owned := []domain.DateBlock{
		ownedBlock(1, "ev-1", day(2025, time.July, 1), day(2025, time.July, 4)),
	}

	p := buildPlan(testFeed(), events, owned, nil, testToday)

	require.Len(t, p.updates, 1)
	assert.Equal(t, "Reserved (updated)", p.updates[0].Reason)
	assert.Equal(t, day(2025, time.July, 1), p.updates[0].Start)
}
