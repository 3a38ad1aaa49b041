// Package ical is the calendar codec: it converts between the ICS documents
// exchanged with external channels and the normalized event records the rest
// of the engine works with. All intervals use an inclusive start day and an
// exclusive end day, matching the DTEND convention of DATE-valued VEVENTs.
package ical

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// ExternalEvent is the normalized form of one VEVENT from a channel feed.
type ExternalEvent struct {
	UID     string
	Start   time.Time // inclusive, UTC midnight
	End     time.Time // exclusive, UTC midnight
	Summary string
}

// ParseResult carries the usable events plus the count of malformed VEVENTs
// that were skipped. Skipped events are a warning, not a failure.
type ParseResult struct {
	Events  []ExternalEvent
	Skipped int
}

// Parse decodes an ICS document. A document that cannot be parsed at all is
// an error; individual events lacking a UID or valid dates are skipped and
// counted.
func Parse(body []byte) (*ParseResult, error) {
	if len(body) == 0 {
		return nil, errors.New("empty calendar document")
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	res := &ParseResult{Events: make([]ExternalEvent, 0)}

	for _, ve := range cal.Events() {
		ev, ok := parseEvent(ve)
		if !ok {
			res.Skipped++
			continue
		}
		res.Events = append(res.Events, ev)
	}

	return res, nil
}

func parseEvent(ve *ics.VEvent) (ExternalEvent, bool) {
	var out ExternalEvent

	uid := ve.GetProperty(ics.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, false
	}
	out.UID = uid.Value

	start, ok := propertyDay(ve.GetProperty(ics.ComponentPropertyDtStart))
	if !ok {
		return out, false
	}
	end, ok := propertyDay(ve.GetProperty(ics.ComponentPropertyDtEnd))
	if !ok {
		// Some channels emit single-night events without DTEND.
		end = start.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		return out, false
	}
	out.Start = start
	out.End = end

	if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}

	return out, true
}

// propertyDay extracts the calendar day from a DTSTART/DTEND property,
// accepting DATE, local DATE-TIME and UTC DATE-TIME forms.
func propertyDay(p *ics.IANAProperty) (time.Time, bool) {
	if p == nil || p.Value == "" {
		return time.Time{}, false
	}

	v := strings.TrimSpace(p.Value)
	v = strings.TrimSuffix(v, "Z")
	if i := strings.IndexByte(v, 'T'); i >= 0 {
		v = v[:i]
	}

	t, err := time.Parse("20060102", v)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// Interval is one occupied date range to publish in an outbound document.
type Interval struct {
	UID     string
	Start   time.Time // inclusive
	End     time.Time // exclusive
	Summary string
}

// Serialize produces the outbound ICS document for one unit's calendar.
// UIDs are supplied by the caller and must be stable across exports so that
// consuming channels can detect unchanged events.
func Serialize(calendarName string, intervals []Interval) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//lodgesync//Availability Calendar//EN")
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName(calendarName)

	stamp := time.Now().UTC()

	for _, iv := range intervals {
		ev := cal.AddEvent(iv.UID)
		ev.SetAllDayStartAt(iv.Start)
		ev.SetAllDayEndAt(iv.End)
		ev.SetDtStampTime(stamp)
		ev.SetSummary(iv.Summary)
		ev.SetStatus(ics.ObjectStatusConfirmed)
		ev.SetTimeTransparency(ics.TransparencyOpaque)
	}

	return cal.Serialize()
}
