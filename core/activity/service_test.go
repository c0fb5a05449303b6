package activity

import (
	"context"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mawingu/darasa/core"
)

type fakeRepo struct {
	activities map[uuid.UUID]Activity
	terms      map[uuid.UUID]Timespan
	records    map[uuid.UUID]map[string]AttendanceRecord
	roster     map[uuid.UUID][]Student
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		activities: make(map[uuid.UUID]Activity),
		terms:      make(map[uuid.UUID]Timespan),
		records:    make(map[uuid.UUID]map[string]AttendanceRecord),
		roster:     make(map[uuid.UUID][]Student),
	}
}

func (r *fakeRepo) QueryAllActivities(ctx context.Context) ([]Activity, error) {
	acts := make([]Activity, 0, len(r.activities))
	for _, act := range r.activities {
		acts = append(acts, act)
	}
	return acts, nil
}

func (r *fakeRepo) GetActivityByID(ctx context.Context, id uuid.UUID) (Activity, error) {
	act, ok := r.activities[id]
	if !ok {
		return Activity{}, ErrNotFound
	}
	return act, nil
}

func (r *fakeRepo) GetTermWindows(ctx context.Context, termIDs ...uuid.UUID) (map[uuid.UUID]Timespan, error) {
	windows := make(map[uuid.UUID]Timespan, len(termIDs))
	for _, id := range termIDs {
		if window, ok := r.terms[id]; ok {
			windows[id] = window
		}
	}
	return windows, nil
}

func (r *fakeRepo) GetAttendanceRecords(ctx context.Context, activityID uuid.UUID) (map[string]AttendanceRecord, error) {
	records := make(map[string]AttendanceRecord, len(r.records[activityID]))
	for date, rec := range r.records[activityID] {
		records[date] = rec
	}
	return records, nil
}

func (r *fakeRepo) GetRoster(ctx context.Context, activityID uuid.UUID) ([]Student, error) {
	return r.roster[activityID], nil
}

func (r *fakeRepo) CreateAttendanceRecord(ctx context.Context, rec AttendanceRecord) (AttendanceRecord, error) {
	byDate, ok := r.records[rec.ActivityID]
	if !ok {
		byDate = make(map[string]AttendanceRecord)
		r.records[rec.ActivityID] = byDate
	}
	if _, exists := byDate[rec.Date]; exists {
		return AttendanceRecord{}, ErrAttendanceExists
	}
	byDate[rec.Date] = rec
	return rec, nil
}

type fakeMailSvc struct {
	sent []*core.EmailMessage
}

func (svc *fakeMailSvc) SendMessages(messages ...*core.EmailMessage) error {
	svc.sent = append(svc.sent, messages...)
	return nil
}

func seedChessClub(t *testing.T, repo *fakeRepo) (Activity, uuid.UUID, uuid.UUID) {
	t.Helper()
	actID := uuid.New()
	act := Activity{
		ID:           actID,
		Name:         "Chess Club",
		DateBasis:    BasisProgram,
		ProgramStart: date(t, "2024-01-01"),
		ProgramEnd:   date(t, "2024-01-10"),
		Slots: []TimeSlot{
			{ID: uuid.New(), ActivityID: actID, Weekday: time.Monday, StartsAt: "15:30", EndsAt: "16:30"},
			{ID: uuid.New(), ActivityID: actID, Weekday: time.Wednesday, StartsAt: "15:30", EndsAt: "16:30"},
		},
	}
	repo.activities[actID] = act

	s1, s2 := uuid.New(), uuid.New()
	repo.roster[actID] = []Student{
		{ID: s1, FirstName: "Amani", LastName: "Kazadi"},
		{ID: s2, FirstName: "Zawadi", LastName: "Mutombo"},
	}
	staff := Person{ID: uuid.New(), FirstName: "Neema", LastName: "Othieno", Role: RoleStaff}
	repo.records[actID] = map[string]AttendanceRecord{
		"2024-01-03": {
			ActivityID: actID, Date: "2024-01-03",
			RecordedAt: time.Date(2024, 1, 3, 16, 35, 0, 0, time.UTC),
			RecordedBy: staff,
			Presence:   map[uuid.UUID]bool{s1: true, s2: true},
		},
		"2024-01-05": { // Friday; captured before the schedule changed
			ActivityID: actID, Date: "2024-01-05",
			RecordedAt: time.Date(2024, 1, 5, 16, 35, 0, 0, time.UTC),
			RecordedBy: staff,
			Presence:   map[uuid.UUID]bool{s1: true},
		},
	}
	return act, s1, s2
}

func TestService_AttendanceReport(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	act, s1, _ := seedChessClub(t, repo)
	svc := NewService(repo, &fakeMailSvc{}, testFmtr)

	t.Run("full mode", func(t *testing.T) {
		report, err := svc.AttendanceReport(ctx, act.ID, CalendarFull)
		if err != nil {
			t.Fatalf("AttendanceReport() failed: %v", err)
		}
		want := []string{"2024-01-01", "2024-01-03", "2024-01-08", "2024-01-10"}
		if got := sessionDates(report.Sessions); !equalStrings(got, want) {
			t.Errorf("sessions = %v, want %v", got, want)
		}
		if report.Aggregate.SessionCount != 4 || report.Aggregate.RecordedCount != 1 {
			t.Errorf("aggregate = %d/%d, want 4 sessions, 1 recorded", report.Aggregate.SessionCount, report.Aggregate.RecordedCount)
		}
		if len(report.Roster) != 2 {
			t.Errorf("roster size = %d, want 2", len(report.Roster))
		}
	})

	t.Run("sparse mode keeps off-schedule records", func(t *testing.T) {
		report, err := svc.AttendanceReport(ctx, act.ID, CalendarSparse)
		if err != nil {
			t.Fatalf("AttendanceReport() failed: %v", err)
		}
		want := []string{"2024-01-03", "2024-01-05"}
		if got := sessionDates(report.Sessions); !equalStrings(got, want) {
			t.Fatalf("sessions = %v, want %v", got, want)
		}
		fri := report.Sessions[1]
		if !fri.Recorded || !fri.Anomalous {
			t.Errorf("2024-01-05: recorded=%v anomalous=%v, want recorded and anomalous", fri.Recorded, fri.Anomalous)
		}
		if marks := report.Aggregate.PerStudentMarks[s1]; !marks["2024-01-03"] || !marks["2024-01-05"] {
			t.Errorf("per-student marks = %v, want marks for both recorded dates", marks)
		}
	})

	t.Run("unknown activity", func(t *testing.T) {
		if _, err := svc.AttendanceReport(ctx, uuid.New(), CalendarFull); err != ErrNotFound {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestService_AttendanceReport_noSchedule(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	actID := uuid.New()
	repo.activities[actID] = Activity{ID: actID, Name: "Dormant Club", DateBasis: BasisProgram}
	svc := NewService(repo, &fakeMailSvc{}, testFmtr)

	report, err := svc.AttendanceReport(ctx, actID, CalendarFull)
	if err != nil {
		t.Fatalf("AttendanceReport() failed: %v", err)
	}
	if len(report.Sessions) != 0 {
		t.Errorf("sessions = %v, want none", report.Sessions)
	}
	if report.Aggregate.SessionCount != 0 || report.Aggregate.RecordedCount != 0 {
		t.Errorf("aggregate = %+v, want zero counts", report.Aggregate)
	}
}

func TestService_RecordAttendance(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	act, s1, _ := seedChessClub(t, repo)
	svc := NewService(repo, &fakeMailSvc{}, testFmtr)

	na := NewAttendance{
		ActivityID:        act.ID,
		Date:              "2024-01-08",
		PresentStudentIDs: []uuid.UUID{s1},
		RecordedBy:        Person{ID: uuid.New(), FirstName: "Neema", LastName: "Othieno", Role: RoleStaff},
	}

	rec, err := svc.RecordAttendance(ctx, na)
	if err != nil {
		t.Fatalf("RecordAttendance() failed: %v", err)
	}
	if !rec.Presence[s1] {
		t.Error("present student not marked")
	}
	if rec.RecordedAt.IsZero() {
		t.Error("RecordedAt not set")
	}

	// one record per date: re-submission is rejected
	_, err = svc.RecordAttendance(ctx, na)
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("error = %v, want *core.ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "date" {
		t.Errorf("fields = %v, want one error on date", vErr.Fields)
	}
}

func TestService_SendReport(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	act, _, _ := seedChessClub(t, repo)
	mailSvc := &fakeMailSvc{}
	svc := NewService(repo, mailSvc, testFmtr)

	if err := svc.SendReport(ctx, act.ID, CalendarFull, []mail.Address{{Name: "Coach", Address: "coach@test.cd"}}); err != nil {
		t.Fatalf("SendReport() failed: %v", err)
	}
	if len(mailSvc.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(mailSvc.sent))
	}
	msg := mailSvc.sent[0]
	if !strings.Contains(msg.Subject, act.Name) {
		t.Errorf("subject %q does not name the activity", msg.Subject)
	}
	if !strings.Contains(msg.BodyStr, "2024-01-03") {
		t.Errorf("body does not list recorded session:\n%s", msg.BodyStr)
	}
}

func sessionDates(sessions []ReconciledSession) []string {
	dates := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		dates = append(dates, sess.Date)
	}
	return dates
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
