package activity

import (
	"time"

	"github.com/google/uuid"
)

// InfoFormatter builds the human-readable capture note shown on a recorded
// session. Implementations own locale and name formatting; the engine never
// assumes a particular format.
type InfoFormatter interface {
	FormatRecordInfo(recordedAt time.Time, recordedBy Person) string
}

// InfoFormatterFunc adapts a plain function to an InfoFormatter.
type InfoFormatterFunc func(recordedAt time.Time, recordedBy Person) string

func (f InfoFormatterFunc) FormatRecordInfo(recordedAt time.Time, recordedBy Person) string {
	return f(recordedAt, recordedBy)
}

// Reconcile merges persisted attendance records into the generated calendar.
//
// Every SessionDate yields exactly one ReconciledSession, in calendar order.
// A missing record is a normal state (attendance not yet taken), never an
// error. A found record is flagged anomalous when its date no longer falls on
// a configured weekday or lies outside the configured timespan; validity is
// recomputed against the current configuration on every call, since schedules
// may change after attendance was captured. Anomalous records are kept, never
// dropped or corrected.
func Reconcile(
	calendar []SessionDate,
	records map[string]AttendanceRecord,
	weekdays WeekdaySet,
	span Timespan,
	fmtr InfoFormatter,
) []ReconciledSession {
	sessions := make([]ReconciledSession, 0, len(calendar))
	for _, day := range calendar {
		sess := ReconciledSession{
			Date:      day.Date,
			Timestamp: day.Timestamp,
			Presence:  map[uuid.UUID]bool{},
		}
		if rec, ok := records[day.Date]; ok {
			sess.Recorded = true
			if len(rec.Presence) > 0 {
				sess.Presence = rec.Presence
			}
			if fmtr != nil {
				sess.Info = fmtr.FormatRecordInfo(rec.RecordedAt, rec.RecordedBy)
			}
			sess.Anomalous = !weekdays[day.Timestamp.Weekday()] || !span.Contains(day.Timestamp)
		}
		sessions = append(sessions, sess)
	}
	return sessions
}
