package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/Sarwan-Projects/SlotSwapper/internal/model"
)

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:ok-1\r\n" +
	"SUMMARY:Design review\r\n" +
	"DTSTART:20260302T090000Z\r\n" +
	"DTEND:20260302T100000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:ok-2\r\n" +
	"SUMMARY:Berlin sync\r\n" +
	"DTSTART;TZID=Europe/Berlin:20260302T140000\r\n" +
	"DTEND;TZID=Europe/Berlin:20260302T143000\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:no-end\r\n" +
	"SUMMARY:Open ended\r\n" +
	"DTSTART:20260303T090000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:backwards\r\n" +
	"SUMMARY:Backwards\r\n" +
	"DTSTART:20260303T100000Z\r\n" +
	"DTEND:20260303T090000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:untitled\r\n" +
	"DTSTART:20260304T090000Z\r\n" +
	"DTEND:20260304T100000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func setupTestCalendarService() (CalendarService, *mockRepos) {
	m := newMockRepos()
	m.users.add("u-alice", "Alice")
	return NewCalendarService(m.repo, zap.NewNop()), m
}

func TestCalendarService_ImportICS(t *testing.T) {
	svc, m := setupTestCalendarService()

	resp, err := svc.ImportICS(context.Background(), "u-alice", strings.NewReader(sampleICS))
	if err != nil {
		t.Fatalf("ImportICS failed: %v", err)
	}
	if resp.Imported != 2 || resp.Skipped != 3 {
		t.Fatalf("expected 2 imported / 3 skipped, got %d / %d", resp.Imported, resp.Skipped)
	}

	slots, _ := m.slots.ListByOwner(context.Background(), "u-alice")
	if len(slots) != 2 {
		t.Fatalf("expected 2 stored slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Status != model.SlotOccupied {
			t.Errorf("imported slot %q must be OCCUPIED, got %s", s.Title, s.Status)
		}
	}
	if !slots[0].StartTime.Equal(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start %v", slots[0].StartTime)
	}
	// 14:00 Berlin (CET, UTC+1) is 13:00 UTC
	if !slots[1].StartTime.Equal(time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)) {
		t.Errorf("TZID not honoured, got %v", slots[1].StartTime)
	}
}

func TestCalendarService_ImportICS_Malformed(t *testing.T) {
	svc, _ := setupTestCalendarService()

	_, err := svc.ImportICS(context.Background(), "u-alice", strings.NewReader("BEGIN:VCALENDAR\r\nVERSION:2.0\r\n"))
	if !errors.Is(err, ErrCalendarInvalid) {
		t.Errorf("expected ErrCalendarInvalid, got %v", err)
	}
}

func TestCalendarService_ImportICS_Truncated(t *testing.T) {
	inputs := map[string]string{
		"empty":              "",
		"header only":        "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n",
		"unterminated event": "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nSUMMARY:x\r\n",
		"not a calendar":     "hello world\r\n",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			svc, m := setupTestCalendarService()

			resp, err := svc.ImportICS(context.Background(), "u-alice", strings.NewReader(input))
			if !errors.Is(err, ErrCalendarInvalid) {
				t.Fatalf("expected ErrCalendarInvalid, got resp=%+v err=%v", resp, err)
			}
			if slots, _ := m.slots.ListByOwner(context.Background(), "u-alice"); len(slots) != 0 {
				t.Errorf("expected nothing stored, got %d slots", len(slots))
			}
		})
	}
}

func TestParseVEvent_NilEventSkipped(t *testing.T) {
	if _, ok := parseVEvent(nil); ok {
		t.Error("a nil event must be skipped")
	}
}

func TestCalendarService_ImportICS_LongTitleSkipped(t *testing.T) {
	svc, m := setupTestCalendarService()

	input := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:long\r\n" +
		"SUMMARY:" + strings.Repeat("x", 201) + "\r\n" +
		"DTSTART:20260302T090000Z\r\n" +
		"DTEND:20260302T100000Z\r\n" +
		"END:VEVENT\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:max\r\n" +
		"SUMMARY:" + strings.Repeat("é", 200) + "\r\n" +
		"DTSTART:20260303T090000Z\r\n" +
		"DTEND:20260303T100000Z\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	resp, err := svc.ImportICS(context.Background(), "u-alice", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportICS failed: %v", err)
	}
	if resp.Imported != 1 || resp.Skipped != 1 {
		t.Fatalf("expected 1 imported / 1 skipped, got %d / %d", resp.Imported, resp.Skipped)
	}
	slots, _ := m.slots.ListByOwner(context.Background(), "u-alice")
	if len(slots) != 1 || slots[0].Title != strings.Repeat("é", 200) {
		t.Errorf("expected only the 200-rune title to be stored, got %+v", slots)
	}
}

func TestCalendarService_ExportRoundTrip(t *testing.T) {
	svc, m := setupTestCalendarService()
	m.slots.add("S1", "u-alice", "Standup", monday, model.SlotOffered)
	m.slots.add("S2", "u-alice", "Retro", monday.Add(24*time.Hour), model.SlotOccupied)

	feed, err := svc.ExportICS(context.Background(), "u-alice")
	if err != nil {
		t.Fatalf("ExportICS failed: %v", err)
	}
	for _, want := range []string{"BEGIN:VCALENDAR", "SUMMARY:Standup", "SUMMARY:Retro", "DTSTART:20260302T090000Z"} {
		if !strings.Contains(feed, want) {
			t.Errorf("feed missing %q", want)
		}
	}

	other, m2 := setupTestCalendarService()
	resp, err := other.ImportICS(context.Background(), "u-alice", strings.NewReader(feed))
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if resp.Imported != 2 || resp.Skipped != 0 {
		t.Errorf("expected 2 imported / 0 skipped, got %d / %d", resp.Imported, resp.Skipped)
	}
	slots, _ := m2.slots.ListByOwner(context.Background(), "u-alice")
	if len(slots) != 2 || slots[0].Title != "Standup" {
		t.Errorf("round trip lost data: %+v", slots)
	}
}
