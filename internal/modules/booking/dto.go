package booking

type CreateBookingRequest struct {
	UnitID     int64  `json:"unit_id" binding:"required"`
	Arrival    string `json:"arrival" binding:"required"`
	Departure  string `json:"departure" binding:"required"`
	GuestName  string `json:"guest_name" binding:"required"`
	GuestEmail string `json:"guest_email" binding:"omitempty,email"`
	GuestPhone string `json:"guest_phone"`
	Guests     int    `json:"guests" binding:"required,gte=1"`
	Notes      string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}
