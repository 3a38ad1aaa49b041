package sync

import (
	"time"

	"lodgesync/internal/domain"
	"lodgesync/internal/ical"
)

// The reconciler turns one feed's freshly parsed events into a plan of safe
// local mutations. It only ever sees blocks whose provenance pair names the
// feed; manual blocks and bookings are invisible to the UID matching and
// therefore unconditionally preserved. Applying the same remote document
// twice yields an empty plan the second time.

type blockUpdate struct {
	ID     int64
	Start  time.Time
	End    time.Time
	Reason string
}

type plan struct {
	creates   []domain.DateBlock
	updates   []blockUpdate
	deletes   []int64
	conflicts []Conflict
	skipped   int
}

func (p *plan) empty() bool {
	return len(p.creates) == 0 && len(p.updates) == 0 && len(p.deletes) == 0
}

// buildPlan diffs remote events against the feed's previously imported
// blocks. bookings must be the unit's confirmed/completed bookings; an event
// overlapping one of them is recorded as a conflict and not applied. Events
// that ended before today are skipped, so stale blocks for them age out via
// the delete path.
func buildPlan(feed *domain.SyncFeed, events []ical.ExternalEvent, owned []domain.DateBlock, bookings []domain.Booking, today time.Time) plan {
	var p plan

	byUID := make(map[string]domain.DateBlock, len(owned))
	for _, b := range owned {
		byUID[b.ExternalUID] = b
	}

	remote := make(map[string]struct{}, len(events))

	for _, ev := range events {
		if !ev.End.After(today) {
			p.skipped++
			continue
		}
		if _, dup := remote[ev.UID]; dup {
			p.skipped++
			continue
		}
		remote[ev.UID] = struct{}{}

		reason := ev.Summary
		if reason == "" {
			reason = "Reserved via " + feed.Channel
		}

		existing, ok := byUID[ev.UID]
		if !ok {
			if id, clash := overlapsBooking(bookings, ev.Start, ev.End); clash {
				p.conflicts = append(p.conflicts, Conflict{
					UnitID:      feed.UnitID,
					ExternalUID: ev.UID,
					Start:       ev.Start,
					End:         ev.End,
					BookingID:   id,
				})
				continue
			}
			feedID := feed.ID
			p.creates = append(p.creates, domain.DateBlock{
				UnitID:      feed.UnitID,
				Start:       ev.Start,
				End:         ev.End,
				Reason:      reason,
				Source:      feed.Channel,
				FeedID:      &feedID,
				ExternalUID: ev.UID,
			})
			continue
		}

		if !existing.Start.Equal(ev.Start) || !existing.End.Equal(ev.End) {
			if id, clash := overlapsBooking(bookings, ev.Start, ev.End); clash {
				// Leave the stale range untouched.
				p.conflicts = append(p.conflicts, Conflict{
					UnitID:      feed.UnitID,
					ExternalUID: ev.UID,
					Start:       ev.Start,
					End:         ev.End,
					BookingID:   id,
				})
				continue
			}
			p.updates = append(p.updates, blockUpdate{
				ID:     existing.ID,
				Start:  ev.Start,
				End:    ev.End,
				Reason: reason,
			})
			continue
		}

		if existing.Reason != reason {
			// Dates unchanged, so no conflict check needed.
			p.updates = append(p.updates, blockUpdate{
				ID:     existing.ID,
				Start:  existing.Start,
				End:    existing.End,
				Reason: reason,
			})
		}
	}

	// Upstream removals: feed-owned blocks whose UID is gone remotely.
	for _, b := range owned {
		if _, ok := remote[b.ExternalUID]; !ok {
			p.deletes = append(p.deletes, b.ID)
		}
	}

	return p
}

func overlapsBooking(bookings []domain.Booking, start, end time.Time) (int64, bool) {
	for _, b := range bookings {
		if domain.Overlaps(start, end, b.Arrival, b.Departure) {
			return b.ID, true
		}
	}
	return 0, false
}
