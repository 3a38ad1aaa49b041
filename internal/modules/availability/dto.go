package availability

import "lodgesync/internal/domain"

type CreateBlockRequest struct {
	UnitID int64  `json:"unit_id" binding:"required"`
	Start  string `json:"start" binding:"required"`
	End    string `json:"end" binding:"required"`
	Reason string `json:"reason"`
}

type ConvertBlockRequest struct {
	GuestName  string `json:"guest_name" binding:"required"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
	Guests     int    `json:"guests"`
	Notes      string `json:"notes"`
}

// GuestDetails carries the guest identity attached to a converted block.
type GuestDetails struct {
	Name   string
	Email  string
	Phone  string
	Guests int
	Notes  string
}

// DayAvailability is the resolved status of one calendar day.
type DayAvailability struct {
	Day    string           `json:"day"`
	Status domain.DayStatus `json:"status"`
}
