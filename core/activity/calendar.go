package activity

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// WeekdaySet is the set of weekdays an activity meets on.
// Only membership is meaningful; iteration order is not.
type WeekdaySet map[time.Weekday]bool

// DeriveWeekdays collects the deduplicated set of weekdays referenced by
// the given time slots. An empty slot list yields an empty set.
func DeriveWeekdays(slots []TimeSlot) WeekdaySet {
	weekdays := make(WeekdaySet, len(slots))
	for _, slot := range slots {
		weekdays[slot.Weekday] = true
	}
	return weekdays
}

// ResolveTimespan computes the effective program period of an activity.
//
// Activities on BasisProgram run from the start of ProgramStart's day to the
// end of ProgramEnd's day. Activities on BasisTerms run over the union bounds
// (earliest start, latest end) of their resolvable terms; terms missing from
// termWindows are skipped. The second return value is false when no bound can
// be determined, which signals "no schedule to generate" rather than an error.
func ResolveTimespan(act Activity, termWindows map[uuid.UUID]Timespan) (Timespan, bool) {
	switch act.DateBasis {
	case BasisProgram:
		if act.ProgramStart.IsZero() || act.ProgramEnd.IsZero() {
			return Timespan{}, false
		}
		span := Timespan{
			Start: DateOf(act.ProgramStart),
			End:   DateOf(act.ProgramEnd).Add(24*time.Hour - time.Nanosecond),
		}
		return span, span.IsValid()

	case BasisTerms:
		var span Timespan
		var resolved bool
		for _, termID := range act.TermIDs {
			window, ok := termWindows[termID]
			if !ok || !window.IsValid() {
				continue
			}
			if !resolved {
				span = window
				resolved = true
				continue
			}
			if window.Start.Before(span.Start) {
				span.Start = window.Start
			}
			if window.End.After(span.End) {
				span.End = window.End
			}
		}
		return span, resolved
	}
	return Timespan{}, false
}

// GenerateCalendar enumerates the ordered sequence of candidate session dates.
//
// In CalendarFull mode, every date in the timespan whose weekday is in
// weekdays becomes a session date; an invalid timespan or empty weekday set
// yields an empty calendar. In CalendarSparse mode, the calendar is exactly
// the ascending deduplication of recordDates, regardless of weekdays and
// timespan: recorded dates that predate a schedule change must still surface.
func GenerateCalendar(weekdays WeekdaySet, span Timespan, recordDates []string, mode CalendarMode) []SessionDate {
	if mode == CalendarSparse {
		return sparseCalendar(recordDates)
	}

	if !span.IsValid() || len(weekdays) == 0 {
		return nil
	}
	calendar := make([]SessionDate, 0, 64)
	last := DateOf(span.End)
	for day := DateOf(span.Start); !day.After(last); day = day.AddDate(0, 0, 1) {
		if weekdays[day.Weekday()] {
			calendar = append(calendar, SessionDate{Date: day.Format(DateLayout), Timestamp: day})
		}
	}
	return calendar
}

func sparseCalendar(recordDates []string) []SessionDate {
	calendar := make([]SessionDate, 0, len(recordDates))
	seen := make(map[string]bool, len(recordDates))
	for _, date := range recordDates {
		if seen[date] {
			continue
		}
		seen[date] = true
		ts, err := ParseDate(date)
		if err != nil {
			continue // malformed keys are the storage layer's fault; skip
		}
		calendar = append(calendar, SessionDate{Date: date, Timestamp: ts})
	}
	// yyyy-mm-dd sorts chronologically
	sort.Slice(calendar, func(i, j int) bool { return calendar[i].Date < calendar[j].Date })
	return calendar
}
