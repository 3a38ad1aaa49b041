package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type Booking struct {
	ID     int64 `json:"id"`
	UnitID int64 `json:"unit_id" validate:"required" gorm:"index"`

	// Arrival is inclusive, Departure exclusive: the departure day itself
	// is free for a new check-in.
	Arrival   time.Time `json:"arrival" validate:"required"`
	Departure time.Time `json:"departure" validate:"required"`

	GuestName  string `json:"guest_name" validate:"required"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
	Guests     int    `json:"guests"`
	Notes      string `json:"notes,omitempty" gorm:"type:text"`

	Status             BookingStatus `json:"status"`
	CancellationReason string        `json:"cancellation_reason,omitempty" gorm:"type:text"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// Occupies reports whether the booking claims its date range on the
// calendar. Cancelled bookings never occupy.
func (b *Booking) Occupies() bool {
	return b.Status != BookingCancelled
}
