package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	ics "github.com/arran4/golang-ical"
)

// ── iCalendar parser ────────────────────────────────────────
//
// Turns RFC 5545 content into candidate slots. Each VEVENT with a SUMMARY,
// a DTSTART and a DTEND becomes one candidate; recurrence rules are not
// expanded. Floating times are read as UTC unless a TZID parameter names a zone.
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize = 5 * 1024 * 1024
	// matches the slots.title column
	icsMaxTitleLen = 200
)

var errIncompleteCalendar = errors.New("input is not a complete VCALENDAR")

// parsedEvent one importable VEVENT
type parsedEvent struct {
	Title string
	Start time.Time
	End   time.Time
}

// parseICS returns the importable events and the number of VEVENTs skipped
func parseICS(reader io.Reader) ([]parsedEvent, int, error) {
	raw, err := io.ReadAll(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, 0, fmt.Errorf("read calendar: %w", err)
	}
	if !isCompleteCalendar(raw) {
		return nil, 0, errIncompleteCalendar
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, fmt.Errorf("parse calendar: %w", err)
	}

	var (
		events  []parsedEvent
		skipped int
	)
	for _, comp := range cal.Events() {
		evt, ok := parseVEvent(comp)
		if !ok {
			skipped++
			continue
		}
		events = append(events, evt)
	}
	return events, skipped, nil
}

// isCompleteCalendar reports whether raw opens and closes a VCALENDAR.
// Truncated uploads fail here instead of parsing as an empty calendar.
func isCompleteCalendar(raw []byte) bool {
	lines := strings.FieldsFunc(strings.ToUpper(string(raw)), func(r rune) bool { return r == '\r' || r == '\n' })
	if len(lines) < 2 {
		return false
	}
	return strings.TrimSpace(lines[0]) == "BEGIN:VCALENDAR" &&
		strings.TrimSpace(lines[len(lines)-1]) == "END:VCALENDAR"
}

func parseVEvent(evt *ics.VEvent) (parsedEvent, bool) {
	// the parser yields nil for a VEVENT it could not close
	if evt == nil {
		return parsedEvent{}, false
	}

	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil {
		return parsedEvent{}, false
	}
	title := strings.TrimSpace(summary.Value)
	if title == "" || utf8.RuneCountInString(title) > icsMaxTitleLen {
		return parsedEvent{}, false
	}

	start, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart)
	if err != nil {
		return parsedEvent{}, false
	}
	end, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd)
	if err != nil {
		return parsedEvent{}, false
	}
	if !end.After(start) {
		return parsedEvent{}, false
	}

	return parsedEvent{
		Title: title,
		Start: start,
		End:   end,
	}, true
}

// parseICSDateTime reads a date or date-time property as a UTC instant
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range formats {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") || tzid == "" {
			return t.UTC(), nil
		}
		loc, err := time.LoadLocation(tzid)
		if err != nil {
			return t.UTC(), nil
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unparseable date %q", val)
}
