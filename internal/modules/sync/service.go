package sync

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"lodgesync/internal/domain"
	"lodgesync/internal/ical"
	"lodgesync/internal/pkg/unitlock"
)

const defaultWorkers = 4

// Service is the sync orchestrator: fetch -> parse -> reconcile -> apply,
// for one feed, one unit's feeds, or all feeds. Batch syncs run with a
// bounded worker pool and per-feed failure isolation.
type Service struct {
	feeds    FeedRepository
	units    UnitRepository
	blocks   BlockRepository
	bookings BookingRepository
	fetcher  Fetcher
	locks    *unitlock.Registry
	workers  int
}

func NewService(
	feeds FeedRepository,
	units UnitRepository,
	blocks BlockRepository,
	bookings BookingRepository,
	fetcher Fetcher,
	locks *unitlock.Registry,
	workers int,
) *Service {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Service{
		feeds:    feeds,
		units:    units,
		blocks:   blocks,
		bookings: bookings,
		fetcher:  fetcher,
		locks:    locks,
		workers:  workers,
	}
}

// SyncFeed syncs exactly one feed. Inactive feeds are allowed here: batch
// syncs skip them, but an explicit per-feed trigger always runs.
func (s *Service) SyncFeed(ctx context.Context, feedID int64) (FeedResult, error) {
	feed, err := s.feeds.GetByID(ctx, feedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FeedResult{}, ErrFeedNotFound
		}
		return FeedResult{}, err
	}
	return s.syncOne(ctx, feed), nil
}

// SyncUnit syncs every active feed of one unit.
func (s *Service) SyncUnit(ctx context.Context, unitID int64) (BatchResult, error) {
	if _, err := s.units.GetByID(ctx, unitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BatchResult{}, ErrUnitNotFound
		}
		return BatchResult{}, err
	}

	feeds, err := s.feeds.ListActive(ctx, &unitID)
	if err != nil {
		return BatchResult{}, err
	}
	return s.syncBatch(ctx, feeds), nil
}

// SyncAll syncs every active feed across all units.
func (s *Service) SyncAll(ctx context.Context) (BatchResult, error) {
	feeds, err := s.feeds.ListActive(ctx, nil)
	if err != nil {
		return BatchResult{}, err
	}
	return s.syncBatch(ctx, feeds), nil
}

func (s *Service) syncBatch(ctx context.Context, feeds []domain.SyncFeed) BatchResult {
	results := make([]FeedResult, len(feeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range feeds {
		g.Go(func() error {
			// Failures stay inside the FeedResult; a bad feed never
			// aborts its siblings.
			results[i] = s.syncOne(gctx, &feeds[i])
			return nil
		})
	}
	_ = g.Wait()

	return aggregate(results)
}

func (s *Service) syncOne(ctx context.Context, feed *domain.SyncFeed) FeedResult {
	res := FeedResult{FeedID: feed.ID, FeedChannel: feed.Channel}

	fail := func(err error) FeedResult {
		res.Error = err.Error()
		log.Printf("sync feed_id=%d channel=%s error=%q", feed.ID, feed.Channel, res.Error)
		if uerr := s.feeds.UpdateStats(ctx, feed.ID, time.Now().UTC(), feed.ImportedEvents, res.Error); uerr != nil {
			log.Printf("sync feed_id=%d stats update failed: %v", feed.ID, uerr)
		}
		return res
	}

	body, err := s.fetcher.Fetch(ctx, feed.URL)
	if err != nil {
		return fail(err)
	}

	parsed, err := ical.Parse(body)
	if err != nil {
		return fail(err)
	}
	res.EventsFound = len(parsed.Events)
	res.Skipped = parsed.Skipped

	owned, err := s.blocks.ListByFeed(ctx, feed.ID)
	if err != nil {
		return fail(err)
	}

	confirmed, err := s.bookings.ListOccupying(ctx, feed.UnitID, []domain.BookingStatus{
		domain.BookingConfirmed,
		domain.BookingCompleted,
	})
	if err != nil {
		return fail(err)
	}

	p := buildPlan(feed, parsed.Events, owned, confirmed, domain.Day(time.Now().UTC()))
	res.Skipped += p.skipped
	res.Conflicts = p.conflicts

	if err := s.apply(ctx, feed.UnitID, &p, &res); err != nil {
		return fail(err)
	}

	imported := len(owned) + res.Created - res.Deleted
	if err := s.feeds.UpdateStats(ctx, feed.ID, time.Now().UTC(), imported, ""); err != nil {
		log.Printf("sync feed_id=%d stats update failed: %v", feed.ID, err)
	}

	log.Printf("sync feed_id=%d channel=%s events=%d created=%d updated=%d deleted=%d conflicts=%d",
		feed.ID, feed.Channel, res.EventsFound, res.Created, res.Updated, res.Deleted, len(res.Conflicts))
	return res
}

// apply executes the plan under the unit's write lock, so a concurrent
// manual edit or another sync on the same unit cannot interleave.
func (s *Service) apply(ctx context.Context, unitID int64, p *plan, res *FeedResult) error {
	if p.empty() {
		return nil
	}

	return s.locks.Do(unitID, func() error {
		for i := range p.creates {
			if err := s.blocks.Create(ctx, &p.creates[i]); err != nil {
				return err
			}
			res.Created++
		}
		for _, u := range p.updates {
			if err := s.blocks.UpdateRange(ctx, u.ID, u.Start, u.End, u.Reason); err != nil {
				return err
			}
			res.Updated++
		}
		for _, id := range p.deletes {
			if err := s.blocks.Delete(ctx, id); err != nil {
				return err
			}
			res.Deleted++
		}
		return nil
	})
}
