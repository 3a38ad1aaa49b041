package domain

import "time"

type Unit struct {
	ID       int64  `json:"id"`
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity" validate:"gte=1"`
	Active   bool   `json:"active"`

	// ExportToken is the unguessable path segment of the unit's public
	// calendar export URL. Rotating it invalidates the old URL.
	ExportToken string `json:"export_token,omitempty" gorm:"uniqueIndex"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
