package activity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mawingu/darasa/core"
)

var (
	// errors
	ErrNotFound         = errors.New("activity not found")
	ErrAttendanceExists = errors.New("attendance has already been recorded for this date")
)

type (
	Repository interface {
		QueryAllActivities(ctx context.Context) ([]Activity, error)
		// GetActivityByID loads the activity together with its time slots and term links.
		GetActivityByID(ctx context.Context, id uuid.UUID) (Activity, error)
		GetTermWindows(ctx context.Context, termIDs ...uuid.UUID) (map[uuid.UUID]Timespan, error)
		// GetAttendanceRecords returns the activity's persisted records keyed by date.
		GetAttendanceRecords(ctx context.Context, activityID uuid.UUID) (map[string]AttendanceRecord, error)
		GetRoster(ctx context.Context, activityID uuid.UUID) ([]Student, error)
		// CreateAttendanceRecord persists a new record; ErrAttendanceExists is
		// returned when the (activity, date) pair was already recorded.
		CreateAttendanceRecord(ctx context.Context, rec AttendanceRecord) (AttendanceRecord, error)
	}

	Service interface {
		QueryAll(ctx context.Context) ([]Activity, error)
		GetByID(ctx context.Context, id uuid.UUID) (Activity, error)
		AttendanceReport(ctx context.Context, activityID uuid.UUID, mode CalendarMode) (AttendanceReport, error)
		RecordAttendance(ctx context.Context, na NewAttendance) (AttendanceRecord, error)
		SendReport(ctx context.Context, activityID uuid.UUID, mode CalendarMode, to []mail.Address) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		fmtr    InfoFormatter
	}
)

func NewService(repo Repository, mailSvc core.EmailService, fmtr InfoFormatter) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		fmtr:    fmtr,
	}
}

func (svc *service) QueryAll(ctx context.Context) ([]Activity, error) {
	return svc.repo.QueryAllActivities(ctx)
}

func (svc *service) GetByID(ctx context.Context, id uuid.UUID) (Activity, error) {
	return svc.repo.GetActivityByID(ctx, id)
}

// AttendanceReport runs the full report pipeline for one activity:
// schedule configuration -> session calendar -> reconciled sessions -> aggregates.
func (svc *service) AttendanceReport(ctx context.Context, activityID uuid.UUID, mode CalendarMode) (AttendanceReport, error) {
	act, err := svc.repo.GetActivityByID(ctx, activityID)
	if err != nil {
		return AttendanceReport{}, err
	}

	var termWindows map[uuid.UUID]Timespan
	if act.DateBasis == BasisTerms && len(act.TermIDs) > 0 {
		if termWindows, err = svc.repo.GetTermWindows(ctx, act.TermIDs...); err != nil {
			return AttendanceReport{}, err
		}
	}

	records, err := svc.repo.GetAttendanceRecords(ctx, activityID)
	if err != nil {
		return AttendanceReport{}, err
	}
	recordDates := make([]string, 0, len(records))
	for date := range records {
		recordDates = append(recordDates, date)
	}

	weekdays := DeriveWeekdays(act.Slots)
	span, _ := ResolveTimespan(act, termWindows)
	calendar := GenerateCalendar(weekdays, span, recordDates, mode)
	sessions := Reconcile(calendar, records, weekdays, span, svc.fmtr)

	roster, err := svc.repo.GetRoster(ctx, activityID)
	if err != nil {
		return AttendanceReport{}, err
	}

	return AttendanceReport{
		Activity:  act,
		Mode:      mode,
		Sessions:  sessions,
		Aggregate: Aggregate(sessions),
		Roster:    roster,
	}, nil
}

// RecordAttendance captures attendance for one date. A date is written
// exactly once: re-submission is a validation error, never an overwrite.
func (svc *service) RecordAttendance(ctx context.Context, na NewAttendance) (AttendanceRecord, error) {
	if _, err := svc.repo.GetActivityByID(ctx, na.ActivityID); err != nil {
		return AttendanceRecord{}, err
	}

	presence := make(map[uuid.UUID]bool, len(na.PresentStudentIDs))
	for _, studentID := range na.PresentStudentIDs {
		presence[studentID] = true
	}
	rec := AttendanceRecord{
		ID:         uuid.New(),
		ActivityID: na.ActivityID,
		Date:       na.Date,
		RecordedAt: time.Now().UTC(),
		RecordedBy: na.RecordedBy,
		Presence:   presence,
	}

	rec, err := svc.repo.CreateAttendanceRecord(ctx, rec)
	if err != nil {
		if err == ErrAttendanceExists {
			return AttendanceRecord{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: err.Error()})
		}
		return AttendanceRecord{}, err
	}
	return rec, nil
}

// SendReport emails a plain-text summary of the attendance report.
func (svc *service) SendReport(ctx context.Context, activityID uuid.UUID, mode CalendarMode, to []mail.Address) error {
	report, err := svc.AttendanceReport(ctx, activityID, mode)
	if err != nil {
		return err
	}
	msg := &core.EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("Attendance report: %s", report.Activity.Name),
		BodyStr: renderReportBody(report),
	}
	if !msg.HasRecipients() {
		return nil
	}
	return svc.mailSvc.SendMessages(msg)
}

func renderReportBody(report AttendanceReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d sessions, %d recorded, %d enrolled\n\n",
		report.Activity.Name, report.Aggregate.SessionCount, report.Aggregate.RecordedCount, len(report.Roster))
	for _, sess := range report.Sessions {
		status := "not recorded"
		if sess.Recorded {
			status = fmt.Sprintf("%d present", len(sess.Presence))
			if sess.Info != "" {
				status += " (" + sess.Info + ")"
			}
		}
		flag := ""
		if sess.Anomalous {
			flag = " [no longer on schedule]"
		}
		fmt.Fprintf(&b, "%s: %s%s\n", sess.Date, status, flag)
	}
	return b.String()
}
