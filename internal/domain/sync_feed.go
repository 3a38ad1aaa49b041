package domain

import "time"

// SyncFeed is an inbound subscription to one external channel's calendar.
type SyncFeed struct {
	ID      int64  `json:"id"`
	UnitID  int64  `json:"unit_id" validate:"required" gorm:"index"`
	Channel string `json:"channel" validate:"required"`
	URL     string `json:"url" validate:"required,url"`
	Active  bool   `json:"active"`

	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
	ImportedEvents int        `json:"imported_events"`
	LastError      string     `json:"last_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
