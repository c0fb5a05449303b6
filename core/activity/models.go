package activity

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the day-precision layout used for calendar-date keys.
const DateLayout = "2006-01-02"

// DateBasis tells how an activity's program period is bounded.
type DateBasis string

const (
	// BasisProgram bounds the period by the activity's own program dates.
	BasisProgram DateBasis = "program"
	// BasisTerms bounds the period by the school terms the activity is linked to.
	BasisTerms DateBasis = "terms"
)

// CalendarMode selects how the session calendar is populated.
type CalendarMode string

const (
	// CalendarFull emits every schedulable date in the program period,
	// recorded or not ("all columns").
	CalendarFull CalendarMode = "full"
	// CalendarSparse emits only dates that have a persisted attendance record.
	CalendarSparse CalendarMode = "sparse"
)

// PersonRole is the closed set of role categories a recording person may have.
type PersonRole uint8

const (
	RoleStaff PersonRole = iota
	RoleParent
	RoleStudent
)

func (r PersonRole) String() string {
	switch r {
	case RoleStaff:
		return "staff"
	case RoleParent:
		return "parent"
	case RoleStudent:
		return "student"
	}
	return "unknown"
}

type (
	// TimeSlot is one recurring weekly meeting occurrence of an activity.
	TimeSlot struct {
		ID         uuid.UUID    `json:"id"`
		ActivityID uuid.UUID    `json:"activity_id"`
		Weekday    time.Weekday `json:"weekday"`
		StartsAt   string       `json:"starts_at,omitempty"` // "15:30"
		EndsAt     string       `json:"ends_at,omitempty"`
	}

	// Term is one school-year term an activity may be bounded by.
	Term struct {
		ID       uuid.UUID `json:"id"`
		Name     string    `json:"name"`
		StartsOn time.Time `json:"starts_on"`
		EndsOn   time.Time `json:"ends_on"`
	}

	Activity struct {
		ID           uuid.UUID   `json:"id"`
		Name         string      `json:"name"`
		DateBasis    DateBasis   `json:"date_basis"`
		ProgramStart time.Time   `json:"program_start,omitempty"` // zero when term-based
		ProgramEnd   time.Time   `json:"program_end,omitempty"`
		TermIDs      []uuid.UUID `json:"term_ids,omitempty"`
		Slots        []TimeSlot  `json:"slots"`
		CreatedAt    time.Time   `json:"created_at"`
		UpdatedAt    time.Time   `json:"updated_at"`
	}

	// Student is a roster identity supplied by enrollment storage.
	Student struct {
		ID        uuid.UUID `json:"id"`
		FirstName string    `json:"first_name"`
		LastName  string    `json:"last_name"`
	}

	// Person references whoever captured an attendance record.
	Person struct {
		ID        uuid.UUID  `json:"id"`
		FirstName string     `json:"first_name"`
		LastName  string     `json:"last_name"`
		Role      PersonRole `json:"-"`
	}

	// Timespan is the inclusive [Start, End] period an activity runs.
	Timespan struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}

	// SessionDate is one candidate meeting date of the generated calendar.
	// Timestamp is the midnight-UTC instant of Date.
	SessionDate struct {
		Date      string    `json:"date"`
		Timestamp time.Time `json:"timestamp"`
	}

	// AttendanceRecord is one persisted attendance snapshot, written exactly
	// once per (activity, date). The engine treats it as read-only input.
	AttendanceRecord struct {
		ID         uuid.UUID          `json:"id"`
		ActivityID uuid.UUID          `json:"activity_id"`
		Date       string             `json:"date"`
		RecordedAt time.Time          `json:"recorded_at"`
		RecordedBy Person             `json:"recorded_by"`
		Presence   map[uuid.UUID]bool `json:"presence"` // key present == student marked present
	}

	// ReconciledSession merges a SessionDate with zero-or-one AttendanceRecord.
	ReconciledSession struct {
		Date      string             `json:"date"`
		Timestamp time.Time          `json:"timestamp"`
		Recorded  bool               `json:"recorded"`
		Presence  map[uuid.UUID]bool `json:"presence"`
		Info      string             `json:"info,omitempty"`
		// Anomalous flags a recorded date that no longer matches the current
		// weekday/timespan configuration. Such records are never dropped.
		Anomalous bool `json:"anomalous"`
	}

	// AttendanceAggregate summarizes a reconciled calendar.
	AttendanceAggregate struct {
		SessionCount    int                           `json:"session_count"`
		RecordedCount   int                           `json:"recorded_count"`
		PerSessionCount map[string]int                `json:"per_session_count"`
		PerStudentMarks map[uuid.UUID]map[string]bool `json:"per_student_marks"`
	}

	// AttendanceReport is the full per-activity report consumed by renderers.
	AttendanceReport struct {
		Activity  Activity            `json:"activity"`
		Mode      CalendarMode        `json:"mode"`
		Sessions  []ReconciledSession `json:"sessions"`
		Aggregate AttendanceAggregate `json:"aggregate"`
		Roster    []Student           `json:"roster"`
	}
)

// IsValid reports whether the timespan is bounded and ordered.
func (ts Timespan) IsValid() bool {
	return !ts.Start.IsZero() && !ts.End.IsZero() && !ts.Start.After(ts.End)
}

// Contains reports whether t falls within [Start, End]. An invalid
// timespan contains nothing.
func (ts Timespan) Contains(t time.Time) bool {
	if !ts.IsValid() {
		return false
	}
	return !t.Before(ts.Start) && !t.After(ts.End)
}

// DateOf normalizes t to midnight UTC of its civil date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a yyyy-mm-dd key into its midnight-UTC instant.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// ParseCalendarMode maps a query value onto a CalendarMode; the default is Full.
func ParseCalendarMode(s string) (CalendarMode, bool) {
	switch CalendarMode(s) {
	case "", CalendarFull:
		return CalendarFull, true
	case CalendarSparse:
		return CalendarSparse, true
	}
	return "", false
}
