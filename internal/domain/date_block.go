package domain

import "time"

// SourceManual marks a block entered by staff. Imported blocks carry the
// originating feed's channel name instead.
const SourceManual = "manual"

type DateBlock struct {
	ID     int64 `json:"id"`
	UnitID int64 `json:"unit_id" validate:"required" gorm:"index"`

	Start  time.Time `json:"start" validate:"required" gorm:"column:start_day"`
	End    time.Time `json:"end" validate:"required" gorm:"column:end_day"`
	Reason string    `json:"reason"`
	Source string    `json:"source"`

	// Provenance pair. Set only on blocks imported from a feed; the pair
	// ties the block to the upstream event so re-sync is idempotent.
	// Manual blocks have a nil FeedID and are never touched by sync.
	FeedID      *int64 `json:"feed_id,omitempty" gorm:"index"`
	ExternalUID string `json:"external_uid,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeedOwned reports whether the block was imported from a feed and is
// therefore owned exclusively by the Reconciler.
func (b *DateBlock) FeedOwned() bool {
	return b.FeedID != nil
}
