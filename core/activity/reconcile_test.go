package activity

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

var testFmtr = InfoFormatterFunc(func(recordedAt time.Time, recordedBy Person) string {
	return fmt.Sprintf("%s %s @ %s", recordedBy.FirstName, recordedBy.LastName, recordedAt.Format(time.RFC3339))
})

func TestReconcile(t *testing.T) {
	weekdays := WeekdaySet{time.Monday: true, time.Wednesday: true}
	span := Timespan{Start: date(t, "2024-01-01"), End: date(t, "2024-01-10").Add(24*time.Hour - time.Nanosecond)}

	s1 := uuid.New()
	s2 := uuid.New()
	staff := Person{ID: uuid.New(), FirstName: "Neema", LastName: "Othieno", Role: RoleStaff}
	records := map[string]AttendanceRecord{
		"2024-01-03": {
			Date:       "2024-01-03",
			RecordedAt: time.Date(2024, 1, 3, 16, 5, 0, 0, time.UTC),
			RecordedBy: staff,
			Presence:   map[uuid.UUID]bool{s1: true, s2: true},
		},
		"2024-01-05": { // Friday; schedule changed after capture
			Date:       "2024-01-05",
			RecordedAt: time.Date(2024, 1, 5, 16, 0, 0, 0, time.UTC),
			RecordedBy: staff,
			Presence:   map[uuid.UUID]bool{s1: true},
		},
	}

	calendar := GenerateCalendar(weekdays, span, []string{"2024-01-03", "2024-01-05"}, CalendarSparse)
	sessions := Reconcile(calendar, records, weekdays, span, testFmtr)

	if len(sessions) != len(calendar) {
		t.Fatalf("Reconcile() returned %d sessions for %d calendar dates", len(sessions), len(calendar))
	}

	wed := sessions[0]
	if !wed.Recorded || wed.Anomalous {
		t.Errorf("2024-01-03: got recorded=%v anomalous=%v, want recorded, not anomalous", wed.Recorded, wed.Anomalous)
	}
	if len(wed.Presence) != 2 {
		t.Errorf("2024-01-03: got %d presence marks, want 2", len(wed.Presence))
	}
	if wed.Info == "" {
		t.Error("2024-01-03: info string not built")
	}

	fri := sessions[1]
	if !fri.Recorded || !fri.Anomalous {
		t.Errorf("2024-01-05: got recorded=%v anomalous=%v, want recorded and anomalous", fri.Recorded, fri.Anomalous)
	}
}

func TestReconcile_unrecordedSessions(t *testing.T) {
	weekdays := WeekdaySet{time.Monday: true, time.Wednesday: true}
	span := Timespan{Start: date(t, "2024-01-01"), End: date(t, "2024-01-10").Add(24*time.Hour - time.Nanosecond)}

	calendar := GenerateCalendar(weekdays, span, nil, CalendarFull)
	sessions := Reconcile(calendar, nil, weekdays, span, testFmtr)

	if len(sessions) != 4 {
		t.Fatalf("Reconcile() returned %d sessions, want 4", len(sessions))
	}
	for _, sess := range sessions {
		if sess.Recorded {
			t.Errorf("%s: recorded without a record", sess.Date)
		}
		if sess.Anomalous {
			t.Errorf("%s: unrecorded session flagged anomalous", sess.Date)
		}
		if sess.Presence == nil || len(sess.Presence) != 0 {
			t.Errorf("%s: presence = %v, want empty map", sess.Date, sess.Presence)
		}
	}
}

func TestReconcile_recordOutsideTimespan(t *testing.T) {
	weekdays := WeekdaySet{time.Friday: true}
	span := Timespan{Start: date(t, "2024-01-01"), End: date(t, "2024-01-31")}

	records := map[string]AttendanceRecord{
		// a Friday, but from before the program period was narrowed
		"2023-12-22": {Date: "2023-12-22", RecordedAt: time.Date(2023, 12, 22, 17, 0, 0, 0, time.UTC)},
	}
	calendar := GenerateCalendar(weekdays, span, []string{"2023-12-22"}, CalendarSparse)
	sessions := Reconcile(calendar, records, weekdays, span, nil)

	if len(sessions) != 1 {
		t.Fatalf("Reconcile() returned %d sessions, want 1", len(sessions))
	}
	if !sessions[0].Anomalous {
		t.Error("record outside timespan not flagged anomalous")
	}
	if sessions[0].Info != "" {
		t.Error("info built without a formatter")
	}
}

func TestReconcile_noTimespanConfigured(t *testing.T) {
	// records reconciled with no resolvable timespan are outside the
	// configured period by definition
	records := map[string]AttendanceRecord{
		"2024-01-05": {Date: "2024-01-05", RecordedAt: time.Date(2024, 1, 5, 16, 0, 0, 0, time.UTC)},
	}
	calendar := GenerateCalendar(nil, Timespan{}, []string{"2024-01-05"}, CalendarSparse)
	sessions := Reconcile(calendar, records, nil, Timespan{}, testFmtr)

	if len(sessions) != 1 || !sessions[0].Anomalous {
		t.Errorf("got %+v, want one anomalous session", sessions)
	}
}
