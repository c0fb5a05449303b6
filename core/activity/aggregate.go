package activity

import "github.com/google/uuid"

// Aggregate computes per-session counts, per-student marks and summary stats
// over a reconciled calendar. It is deterministic: identical inputs always
// produce identical aggregates.
//
// A student is counted as present in a session when an entry exists for them
// in the session's presence map at all; students never queried stay absent
// from PerStudentMarks rather than appearing as explicit false entries.
// Callers needing a dense present/absent matrix must cross the marks against
// the enrollment roster themselves.
func Aggregate(sessions []ReconciledSession) AttendanceAggregate {
	agg := AttendanceAggregate{
		SessionCount:    len(sessions),
		PerSessionCount: make(map[string]int, len(sessions)),
		PerStudentMarks: make(map[uuid.UUID]map[string]bool),
	}
	for _, sess := range sessions {
		if sess.Recorded {
			agg.RecordedCount++
		}
		agg.PerSessionCount[sess.Date] = len(sess.Presence)
		for studentID := range sess.Presence {
			marks, ok := agg.PerStudentMarks[studentID]
			if !ok {
				marks = make(map[string]bool)
				agg.PerStudentMarks[studentID] = marks
			}
			marks[sess.Date] = true
		}
	}
	return agg
}
