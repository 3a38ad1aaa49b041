package domain

import "time"

// DayFormat is the wire format for calendar days everywhere in the API.
const DayFormat = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string into a UTC midnight time.Time.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

// Day truncates t to a UTC calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// share at least one day. End days are exclusive: a departure on the same
// day as another arrival is not an overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

type DayStatus string

const (
	DayAvailable DayStatus = "available"
	DayBlocked   DayStatus = "blocked"
	DayBooked    DayStatus = "booked"
)
