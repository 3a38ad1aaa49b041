package sync

import "time"

// Conflict describes an imported event that was held back because it
// overlaps a confirmed booking. The event is not applied; staff review it.
type Conflict struct {
	UnitID      int64     `json:"unit_id"`
	ExternalUID string    `json:"external_uid"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	BookingID   int64     `json:"booking_id"`
}

// FeedResult is the outcome of syncing one feed.
type FeedResult struct {
	FeedID      int64      `json:"feed_id"`
	FeedChannel string     `json:"feed_channel"`
	EventsFound int        `json:"events_found"`
	Created     int        `json:"created"`
	Updated     int        `json:"updated"`
	Deleted     int        `json:"deleted"`
	Skipped     int        `json:"skipped"`
	Conflicts   []Conflict `json:"conflicts,omitempty"`
	Error       string     `json:"error,omitempty"`
}

func (r *FeedResult) ok() bool { return r.Error == "" }

// BatchResult aggregates a multi-feed sync. One feed's failure never aborts
// its siblings; the batch always completes and reports.
type BatchResult struct {
	Attempted int          `json:"attempted"`
	Succeeded int          `json:"succeeded"`
	Errored   int          `json:"errored"`
	Feeds     []FeedResult `json:"feeds"`
}

func aggregate(results []FeedResult) BatchResult {
	out := BatchResult{Attempted: len(results), Feeds: results}
	for _, r := range results {
		if r.ok() {
			out.Succeeded++
		} else {
			out.Errored++
		}
	}
	return out
}
